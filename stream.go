package ftpstream

import (
	"errors"
	"io"
)

// transferState tracks what the data channel is doing.
type transferState int

const (
	stateUnknown transferState = iota
	stateReady
	stateDownloading
	stateUploading
	stateDisconnected
)

// Mode selects the directions a stream is opened for. The values combine
// as a bitmask.
type Mode int

const (
	ModeRead Mode = 1 << iota
	ModeWrite
)

// SeekSize is an additional whence accepted by Seek. It reports the
// remote file size (or -1 when unknown) without touching the stream
// position or either connection.
const SeekSize = 0x10000

// ShutdownHow selects which direction of the data channel Shutdown
// half-closes. The values combine as a bitmask.
type ShutdownHow int

const (
	ShutdownRead ShutdownHow = 1 << iota
	ShutdownWrite
)

// Read implements io.Reader against the remote file. The data channel is
// primed transparently: a disconnected stream reconnects, a ready stream
// issues RETR, and a download in flight keeps draining. The final read of
// a sized file returns the bytes together with io.EOF after the transfer
// is torn down.
//
// When the server drops the data channel before the known end of file,
// one transparent reconnect restores the position and retries the read.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	retried := false
	for {
		if s.filesize >= 0 && s.position >= s.filesize {
			return 0, io.EOF
		}

		switch s.state {
		case stateDisconnected:
			if err := s.connectData(); err != nil {
				return 0, err
			}
		case stateReady, stateDownloading:
		default:
			return 0, ErrConflictingTransfer
		}
		if s.state == stateReady {
			if err := s.retrieve(); err != nil {
				return 0, err
			}
		}
		if s.data == nil || s.state != stateDownloading {
			return 0, ErrConflictingTransfer
		}

		n, err := s.data.Read(p)
		if n > 0 {
			s.position += int64(n)
			s.noteProgress(int64(n))
		}
		if n == 0 && err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}

		if s.filesize >= 0 && s.position >= s.filesize {
			// Transfer drained; tear down so the next operation starts clean.
			if aerr := s.abort(); aerr != nil {
				s.logger.Debug("teardown after transfer failed", "err", aerr)
			}
			return n, io.EOF
		}
		if n > 0 {
			return n, nil
		}

		// The server closed the data channel early, probably due to
		// inactivity.
		if s.filesize >= 0 && !s.streamed {
			if retried {
				// The one reconnect attempt already happened; a second
				// consecutive zero-read just reports no progress.
				return 0, nil
			}
			s.logger.Info("reconnecting to ftp server", "position", s.position)
			if aerr := s.abort(); aerr != nil {
				s.logger.Error("reconnect failed", "err", aerr)
				return 0, aerr
			}
			retried = true
			continue
		}
		return 0, io.EOF
	}
}

// Write implements io.Writer against the remote file. The data channel is
// primed transparently with STOR, restarting at the current position when
// non-zero. A successful write advances the position and grows the
// recorded file size to cover it.
func (s *Stream) Write(p []byte) (int, error) {
	switch s.state {
	case stateDisconnected:
		if err := s.connectData(); err != nil {
			return 0, err
		}
	case stateReady, stateUploading:
	default:
		return 0, ErrConflictingTransfer
	}
	if s.state == stateReady {
		if err := s.store(); err != nil {
			return 0, err
		}
	}
	if s.data == nil || s.state != stateUploading {
		return 0, ErrConflictingTransfer
	}

	n, err := s.data.Write(p)
	if n > 0 {
		s.position += int64(n)
		if s.position > s.filesize {
			s.filesize = s.position
		}
		s.noteProgress(int64(n))
	}
	return n, err
}

// Seek implements io.Seeker. Repositioning while a transfer is in flight
// aborts both channels; the next read or write reconnects and restarts at
// the new position. The result is clamped to [0, filesize] when the size
// is known.
//
// The extra SeekSize whence reports the remote file size with no side
// effects at all.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var newPos int64

	switch whence {
	case SeekSize:
		return s.filesize, nil
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = s.position + offset
	case io.SeekEnd:
		if s.filesize < 0 {
			return 0, ErrNotSeekable
		}
		newPos = s.filesize + offset
	default:
		return 0, ErrInvalidWhence
	}

	if s.streamed {
		return 0, ErrNotSeekable
	}

	if newPos < 0 {
		newPos = 0
	}
	if s.filesize >= 0 && newPos > s.filesize {
		newPos = s.filesize
	}

	if newPos != s.position {
		// A full abort is the only teardown FTP servers agree on;
		// replaying commands on a live data channel wedges some of them.
		if err := s.abort(); err != nil {
			return 0, err
		}
		s.position = newPos
	}
	return newPos, nil
}

// Size reports the remote file size, or -1 when unknown.
func (s *Stream) Size() int64 {
	return s.filesize
}

// Position reports the logical offset of the next read or write.
func (s *Stream) Position() int64 {
	return s.position
}

// Close tears down both channels. It is idempotent.
func (s *Stream) Close() error {
	s.closeBoth()
	return nil
}

// FileHandle exposes the OS descriptor of the data channel, for callers
// that multiplex on raw sockets. It fails when no data channel is open.
func (s *Stream) FileHandle() (uintptr, error) {
	if s.data == nil {
		return 0, ErrNoDataConnection
	}
	return s.data.fd()
}

// Shutdown half-closes the data channel in the given directions. It fails
// when no data channel is open.
func (s *Stream) Shutdown(how ShutdownHow) error {
	if s.data == nil {
		return ErrNoDataConnection
	}
	return s.data.halfClose(how)
}
