package ftpstream

// ProgressFunc receives the cumulative number of payload bytes
// transferred over the stream's lifetime, in either direction.
type ProgressFunc func(bytesTransferred int64)

// noteProgress accounts n freshly moved payload bytes and notifies the
// configured callback.
func (s *Stream) noteProgress(n int64) {
	s.transferred += n
	if s.progress != nil {
		s.progress(s.transferred)
	}
}
