package ftpstream

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrAccessDenied reports a rejected login, or a server that refused
	// new users on the initial banner.
	ErrAccessDenied = errors.New("ftpstream: access denied")

	// ErrNotSeekable reports a reposition attempt on a stream whose size
	// is unknown, or on a write stream not opened as seekable.
	ErrNotSeekable = errors.New("ftpstream: stream is not seekable")

	// ErrInvalidWhence reports an unknown whence value passed to Seek.
	ErrInvalidWhence = errors.New("ftpstream: invalid whence")

	// ErrNoDataConnection reports an operation that needs an open data
	// channel when none is open.
	ErrNoDataConnection = errors.New("ftpstream: no data connection")

	// ErrConflictingTransfer reports a read issued while an upload is in
	// flight, or a write issued mid-download.
	ErrConflictingTransfer = errors.New("ftpstream: conflicting transfer in progress")
)

// errWouldBlock marks a control-channel poll that found no pending reply
// lines. It never escapes the package.
var errWouldBlock = iox.ErrWouldBlock

// ProtocolError represents an FTP protocol error with the context of the
// command/response conversation that produced it.
type ProtocolError struct {
	// Command is the FTP command that was sent (e.g., "RETR file.bin")
	Command string

	// Response is the raw reply line received from the server, empty when
	// the server produced no acceptable reply at all
	Response string

	// Code is the numeric FTP reply code, 0 when no acceptable reply was seen
	Code int
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Response == "" {
		return fmt.Sprintf("ftp: %s failed: no acceptable reply", e.Command)
	}
	return fmt.Sprintf("ftp: %s failed: %s (code %d)", e.Command, e.Response, e.Code)
}

// IsTemporary returns true if the error is a temporary failure (4xx).
// This can be used to implement retry logic.
func (e *ProtocolError) IsTemporary() bool {
	return e.Code >= 400 && e.Code < 500
}

// IsPermanent returns true if the error is a permanent failure (5xx).
func (e *ProtocolError) IsPermanent() bool {
	return e.Code >= 500 && e.Code < 600
}
