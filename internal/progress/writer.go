package progress

import (
	"io"
)

// Writer wraps an io.Writer advancing a unit with the bytes written.
type Writer struct {
	dst  io.Writer
	unit *Unit
}

// NewWriter creates a new progress writer, dst receives the actual data.
func NewWriter(dst io.Writer, unit *Unit) *Writer {
	return &Writer{dst: dst, unit: unit}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.dst.Write(p)
	w.unit.Advance(int64(n))
	return n, err
}
