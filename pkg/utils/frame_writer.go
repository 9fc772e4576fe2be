package utils

import (
	"bytes"
	"io"
	"sync"
)

// FrameWriter buffers one frame of output until Flush is called. Flush
// skips frames identical to the previous one. Safe for concurrent use.
type FrameWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	last []byte
}

// Write stores data in the current frame.
func (f *FrameWriter) Write(p []byte) (n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.Write(p)
}

// Flush writes the current frame to w and starts a new one. It reports
// whether anything was written.
func (f *FrameWriter) Flush(w io.Writer) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	frame := f.buf.Bytes()
	if bytes.Equal(frame, f.last) {
		f.buf.Reset()
		return false, nil
	}

	f.last = append(f.last[:0], frame...)
	f.buf.Reset()

	_, err := w.Write(f.last)
	return err == nil, err
}
