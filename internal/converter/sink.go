package converter

import "io"

// sink wraps an export destination. It counts bytes and keeps the first
// write error so exporters can tell a broken sink from a bad encode.
type sink struct {
	w   io.Writer
	n   int64
	err error
}

func newSink(w io.Writer) *sink {
	return &sink{w: w}
}

func (s *sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.n += int64(n)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.err = err
	}
	return n, err
}

// reportProgress sends without blocking, dropping updates nobody is reading.
func reportProgress(progressChan chan<- float64, current, total int) {
	if progressChan == nil {
		return
	}
	p := 1.0
	if total > 0 {
		p = float64(current) / float64(total)
	}
	select {
	case progressChan <- p:
	default:
	}
}
