package ftpstream

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// statusWaitRetries bounds how many poll intervals the reply loop waits
// for a late reply line before giving up (roughly one second in total).
const statusWaitRetries = 100

// parseReplyCode extracts the three-digit code that prefixes a server
// reply line. Lines shorter than three bytes, or without a full digit
// prefix, carry no code.
func parseReplyCode(line string) (int, bool) {
	if len(line) < 3 {
		return 0, false
	}
	code := 0
	for i := 0; i < 3; i++ {
		c := line[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		code = code*10 + int(c-'0')
	}
	return code, true
}

// drainControl discards leftover reply lines so that no reply from a
// previous command can be paired with the next one.
func (s *Stream) drainControl() error {
	saved := s.reader.nonblock
	s.reader.nonblock = true

	var err error
	for err == nil {
		_, err = s.reader.readLine()
	}
	s.reader.nonblock = saved

	if errors.Is(err, errWouldBlock) {
		return nil
	}
	return err
}

// readReply collects reply lines until the server goes quiet and matches
// their codes against accepted. It returns the matched code — 0 when no
// acceptable code arrived — and, when wantLine is set, the matching line.
//
// The first line is read blocking; every following line is collected in
// polling mode so a multi-line reply drains without stalling the caller.
func (s *Stream) readReply(accepted []int, wantLine bool) (int, string, error) {
	var (
		matched     int
		matchedLine string
	)
	wait := statusWaitRetries

	s.reader.nonblock = false
	for {
		line, err := s.reader.readLine()
		if err != nil {
			if errors.Is(err, errWouldBlock) {
				if matched == 0 && wait > 0 {
					wait--
					continue
				}
				return matched, matchedLine, nil
			}
			if errors.Is(err, io.EOF) {
				// The server hung up; whatever was paired so far stands.
				return matched, matchedLine, nil
			}
			if matched != 0 {
				// A reply was already paired; the trailing drain is best effort.
				return matched, matchedLine, nil
			}
			return 0, "", err
		}
		s.reader.nonblock = true

		s.logger.Debug("ftp response", "line", line)

		if matched != 0 {
			continue
		}
		code, ok := parseReplyCode(line)
		if !ok {
			continue
		}
		for _, want := range accepted {
			if code == want {
				matched = code
				if wantLine {
					matchedLine = line
				}
				break
			}
		}
	}
}

// sendCommand writes one command (the caller supplies the trailing CRLF)
// and pairs it with the server's reply. The control input is drained
// first, so at most one command is ever outstanding.
func (s *Stream) sendCommand(command string, accepted []int, wantLine bool) (int, string, error) {
	if err := s.drainControl(); err != nil {
		return 0, "", err
	}

	s.reader.nonblock = false

	s.logger.Debug("ftp command", "cmd", strings.TrimRight(command, "\r\n"))

	if s.timeout > 0 {
		if err := s.ctrl.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			return 0, "", fmt.Errorf("failed to set write deadline: %w", err)
		}
	}
	if _, err := s.ctrl.Write([]byte(command)); err != nil {
		return 0, "", fmt.Errorf("failed to send command: %w", err)
	}

	return s.readReply(accepted, wantLine)
}
