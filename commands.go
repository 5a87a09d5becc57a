package ftpstream

import (
	"fmt"
	"strconv"
	"strings"
)

// Accepted reply codes per verb (RFC 959).
var (
	connectCodes = []int{220}
	userCodes    = []int{331, 230}
	passCodes    = []int{230}
	pasvCodes    = []int{227}
	pwdCodes     = []int{257}
	typeCodes    = []int{200}
	sizeCodes    = []int{213}
	restCodes    = []int{350}
	retrCodes    = []int{150}
	storCodes    = []int{150}
)

// authenticate logs in with the credentials carried in the URL. An empty
// user falls back to anonymous login with the configured password.
// A 230 straight after USER is a successful login without a password.
func (s *Stream) authenticate() error {
	user, pass, _ := strings.Cut(s.credentials, ":")
	if user == "" {
		user = "anonymous"
		pass = s.anonymousPassword
		if pass == "" {
			pass = "nopassword"
		}
	}

	code, _, err := s.sendCommand("USER "+user+"\r\n", userCodes, false)
	if err != nil {
		return err
	}
	switch code {
	case 230:
		return nil
	case 331:
		if pass == "" {
			return ErrAccessDenied
		}
		code, _, err = s.sendCommand("PASS "+pass+"\r\n", passCodes, false)
		if err != nil {
			return err
		}
		if code != 230 {
			return ErrAccessDenied
		}
		return nil
	default:
		return ErrAccessDenied
	}
}

// passiveMode asks the server for a passive data port and records it.
// The advertised host quartet is discarded; the data channel reuses the
// control-channel host.
func (s *Stream) passiveMode() error {
	code, line, err := s.sendCommand("PASV\r\n", pasvCodes, true)
	if err != nil {
		return err
	}
	if code == 0 {
		s.dataPort = -1
		return &ProtocolError{Command: "PASV"}
	}

	port, perr := parsePassiveReply(line)
	if perr != nil {
		s.dataPort = -1
		return perr
	}
	s.dataPort = port
	s.logger.Debug("server data port", "port", port)
	return nil
}

// parsePassiveReply extracts the data port from a 227 reply of the form
// "227 Entering Passive Mode (h1,h2,h3,h4,p1,p2)".
func parsePassiveReply(line string) (int, error) {
	open := strings.IndexByte(line, '(')
	if open < 0 {
		return 0, fmt.Errorf("malformed PASV reply: %q", line)
	}
	end := strings.IndexByte(line[open+1:], ')')
	if end < 0 {
		return 0, fmt.Errorf("malformed PASV reply: %q", line)
	}

	fields := strings.Split(line[open+1:open+1+end], ",")
	if len(fields) < 6 {
		return 0, fmt.Errorf("malformed PASV reply: %q", line)
	}
	p1, err1 := strconv.Atoi(strings.TrimSpace(fields[4]))
	p2, err2 := strconv.Atoi(strings.TrimSpace(fields[5]))
	if err1 != nil || err2 != nil {
		return 0, fmt.Errorf("malformed PASV reply: %q", line)
	}
	return p1*256 + p2, nil
}

// currentDir resolves the server's working directory and stores it as the
// base of the remote path.
func (s *Stream) currentDir() error {
	code, line, err := s.sendCommand("PWD\r\n", pwdCodes, true)
	if err != nil {
		return err
	}
	if code == 0 {
		return &ProtocolError{Command: "PWD"}
	}

	dir, perr := parseWorkingDir(line)
	if perr != nil {
		return perr
	}
	s.path = dir
	return nil
}

// parseWorkingDir extracts the quoted path from a 257 reply. A trailing
// slash is dropped, except when the working directory is the root itself.
func parseWorkingDir(line string) (string, error) {
	start := strings.IndexByte(line, '"')
	if start < 0 {
		return "", fmt.Errorf("malformed PWD reply: %q", line)
	}
	end := strings.IndexByte(line[start+1:], '"')
	if end < 0 {
		return "", fmt.Errorf("malformed PWD reply: %q", line)
	}

	dir := line[start+1 : start+1+end]
	if len(dir) > 1 && strings.HasSuffix(dir, "/") {
		dir = dir[:len(dir)-1]
	}
	return dir, nil
}

// fileSize queries the remote file size. On any failure the size is
// recorded as unknown (-1).
func (s *Stream) fileSize() error {
	code, line, err := s.sendCommand("SIZE "+s.path+"\r\n", sizeCodes, true)
	if err != nil {
		return err
	}
	if code == 0 {
		s.filesize = -1
		return &ProtocolError{Command: "SIZE " + s.path}
	}

	size, perr := parseSizeReply(line)
	if perr != nil {
		s.filesize = -1
		return perr
	}
	s.filesize = size
	return nil
}

// parseSizeReply extracts the decimal size that follows the code in a
// "213 <size>" reply.
func parseSizeReply(line string) (int64, error) {
	if len(line) < 5 {
		return 0, fmt.Errorf("malformed SIZE reply: %q", line)
	}
	field := strings.TrimSpace(line[4:])
	if i := strings.IndexByte(field, ' '); i >= 0 {
		field = field[:i]
	}
	size, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed SIZE reply: %q", line)
	}
	return size, nil
}

// typeBinary switches the session to binary (image) transfer mode.
func (s *Stream) typeBinary() error {
	code, _, err := s.sendCommand("TYPE I\r\n", typeCodes, false)
	if err != nil {
		return err
	}
	if code == 0 {
		return &ProtocolError{Command: "TYPE I"}
	}
	return nil
}

// restartAt sets the byte offset at which the next RETR or STOR begins.
func (s *Stream) restartAt(pos int64) error {
	command := fmt.Sprintf("REST %d\r\n", pos)
	code, _, err := s.sendCommand(command, restCodes, false)
	if err != nil {
		return err
	}
	if code == 0 {
		return &ProtocolError{Command: strings.TrimRight(command, "\r\n")}
	}
	return nil
}

// retrieve starts a download of the remote path on the primed data
// channel.
func (s *Stream) retrieve() error {
	code, _, err := s.sendCommand("RETR "+s.path+"\r\n", retrCodes, false)
	if err != nil {
		return err
	}
	if code == 0 {
		return &ProtocolError{Command: "RETR " + s.path}
	}
	s.state = stateDownloading
	return nil
}

// store starts an upload to the remote path on the primed data channel.
func (s *Stream) store() error {
	code, _, err := s.sendCommand("STOR "+s.path+"\r\n", storCodes, false)
	if err != nil {
		return err
	}
	if code == 0 {
		return &ProtocolError{Command: "STOR " + s.path}
	}
	s.state = stateUploading
	return nil
}
