package ftpstream

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Stream is a random-access view of one remote file over FTP. It owns a
// persistent control channel and a transient passive-mode data channel,
// opened lazily for each read or write burst.
//
// A Stream is used from one goroutine at a time; it does not serialize
// caller access.
type Stream struct {
	// ctrl is the control channel, present while authenticated
	ctrl net.Conn

	// reader buffers reply lines from ctrl and owns the block flag
	reader *lineReader

	// data is the data channel, present while a transfer is in flight or primed
	data *dataConn

	// host and controlPort locate the server; dataPort is the last
	// server-advertised passive port, -1 when none
	host        string
	controlPort int
	dataPort    int

	// path is the absolute remote path (server cwd + URL path)
	path string

	// credentials is the raw user:password pair from the URL
	credentials string

	// filesize is the remote size, -1 when unknown
	filesize int64

	// position is the logical offset of the next read or write
	position int64

	state transferState
	mode  Mode

	// streamed marks the stream as not seekable
	streamed bool

	// config
	timeout           time.Duration
	writeSeekable     bool
	anonymousPassword string
	progress          ProgressFunc
	transferred       int64

	logger *slog.Logger
	dialer *net.Dialer
}

// Open connects to the FTP server named by rawurl, authenticates, and
// resolves the remote path. The URL has the form
// ftp://[user[:password]@]host[:port]/path; the port defaults to 21 and
// out-of-range ports revert to 21.
//
// mode selects the directions the stream is used in. A read stream is
// seekable when the server reports the file size; a write stream is
// seekable only with WithWriteSeekable.
//
// Example:
//
//	s, err := ftpstream.Open("ftp://ftp.example.com/pub/file.bin", ftpstream.ModeRead)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
func Open(rawurl string, mode Mode, options ...Option) (*Stream, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if !strings.EqualFold(u.Scheme, "ftp") {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if mode&(ModeRead|ModeWrite) == 0 {
		return nil, fmt.Errorf("open mode must include ModeRead or ModeWrite")
	}

	s := &Stream{
		host:        u.Hostname(),
		controlPort: clampPort(u.Port()),
		credentials: credentialsFromURL(u),
		dataPort:    -1,
		filesize:    -1,
		state:       stateDisconnected,
		mode:        mode,
		logger:      slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})),
		dialer:      &net.Dialer{},
	}
	for _, opt := range options {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	s.dialer.Timeout = s.timeout

	if err := s.open(u.Path); err != nil {
		s.logger.Error("ftp open failed", "err", err)
		s.closeBoth()
		return nil, err
	}
	return s, nil
}

func (s *Stream) open(urlPath string) error {
	if err := s.connectControl(); err != nil {
		return err
	}
	if err := s.currentDir(); err != nil {
		return err
	}
	s.path += urlPath

	if err := s.fileSize(); err != nil && s.mode&ModeRead != 0 {
		s.streamed = true
	}
	if !s.writeSeekable && s.mode&ModeWrite != 0 {
		s.streamed = true
	}
	return nil
}

// clampPort parses the URL port, reverting to 21 when absent or outside
// [0, 65535].
func clampPort(port string) int {
	if port == "" {
		return 21
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return 21
	}
	return n
}

// credentialsFromURL returns the raw user:password pair of the URL, or
// just the user when no password was given.
func credentialsFromURL(u *url.URL) string {
	user := u.User.Username()
	if pass, ok := u.User.Password(); ok {
		return user + ":" + pass
	}
	return user
}

// connectControl dials the control channel if absent, expects the 220
// banner, authenticates, and switches to binary mode.
func (s *Stream) connectControl() error {
	if s.ctrl != nil {
		return nil
	}

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.controlPort))
	s.logger.Debug("connecting to ftp server", "addr", addr)

	conn, err := s.dialer.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	s.ctrl = conn
	s.reader = newLineReader(conn, s.timeout)

	code, _, err := s.readReply(connectCodes, false)
	if err != nil {
		return fmt.Errorf("failed to read greeting: %w", err)
	}
	if code == 0 {
		s.logger.Error("server not ready for new users")
		return ErrAccessDenied
	}

	if err := s.authenticate(); err != nil {
		s.logger.Error("ftp authentication failed")
		return err
	}
	return s.typeBinary()
}

// connectData primes the data channel if absent: passive mode, dial, and
// a restart marker when the stream position is non-zero.
func (s *Stream) connectData() error {
	if s.data == nil {
		if err := s.passiveMode(); err != nil {
			return err
		}

		addr := net.JoinHostPort(s.host, strconv.Itoa(s.dataPort))
		conn, err := s.dialer.Dial("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to connect to data port: %w", err)
		}
		s.data = newDataConn(conn, s.timeout)

		if s.position > 0 {
			if err := s.restartAt(s.position); err != nil {
				return err
			}
		}
	}
	s.state = stateReady
	return nil
}

// closeBoth tears down both channels and resets the transfer state.
func (s *Stream) closeBoth() {
	if s.ctrl != nil {
		_ = s.ctrl.Close()
		s.ctrl = nil
		s.reader = nil
	}
	if s.data != nil {
		_ = s.data.Close()
		s.data = nil
	}
	s.position = 0
	s.state = stateDisconnected
}

// abort is the recovery primitive used on seek, end of transfer, and
// mid-transfer failures: both channels are closed and the control channel
// is reopened and reauthenticated. The stream position is preserved for
// the caller to act on.
func (s *Stream) abort() error {
	pos := s.position
	s.closeBoth()
	s.position = pos
	return s.connectControl()
}
