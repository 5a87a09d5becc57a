package ftpstream

import (
	"log/slog"
	"net"
	"time"
)

// Option is a functional option for configuring a Stream.
type Option func(*Stream) error

// WithTimeout sets the timeout for connection establishment and for each
// socket read/write. Zero leaves the transport defaults in place.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Stream) error {
		s.timeout = timeout
		return nil
	}
}

// WithLogger enables debug logging using the provided logger. All FTP
// commands and responses are logged at debug level.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	}))
//	s, _ := ftpstream.Open(url, ftpstream.ModeRead, ftpstream.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(s *Stream) error {
		s.logger = logger
		return nil
	}
}

// WithDialer sets a custom net.Dialer for establishing connections.
// This can be used to configure source addresses, keep-alive settings, etc.
func WithDialer(dialer *net.Dialer) Option {
	return func(s *Stream) error {
		s.dialer = dialer
		return nil
	}
}

// WithWriteSeekable advertises a write stream as seekable. Off by
// default: repositioning an upload needs REST+STOR support on the server,
// which not every server provides.
func WithWriteSeekable() Option {
	return func(s *Stream) error {
		s.writeSeekable = true
		return nil
	}
}

// WithAnonymousPassword sets the password sent on anonymous login.
// An e-mail address is the conventional value; "nopassword" is sent when
// unset.
func WithAnonymousPassword(password string) Option {
	return func(s *Stream) error {
		s.anonymousPassword = password
		return nil
	}
}

// WithProgress installs a callback invoked with the cumulative number of
// payload bytes moved through the stream in either direction.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Stream) error {
		s.progress = fn
		return nil
	}
}
