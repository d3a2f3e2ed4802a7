package formatter

import (
	"bufio"
	"io"
	"runtime"
	"strings"
)

var newline = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// lineWriter writes whole lines to a sink. The first write error sticks
// and every later write is dropped.
type lineWriter struct {
	dst io.Writer
	buf *bufio.Writer
	err error
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{dst: w, buf: bufio.NewWriter(w)}
}

// println writes the concatenation of parts as one logical line. Embedded
// newlines start new lines with the same terminator.
func (l *lineWriter) println(parts ...string) {
	if l.err != nil {
		return
	}
	text := strings.Join(parts, "")
	for _, line := range strings.Split(text, "\n") {
		if _, err := l.buf.WriteString(strings.TrimSuffix(line, "\r")); err != nil {
			l.err = err
			return
		}
		if _, err := l.buf.WriteString(newline); err != nil {
			l.err = err
			return
		}
	}
}

func (l *lineWriter) close() error {
	if err := l.buf.Flush(); err != nil && l.err == nil {
		l.err = err
	}
	if c, ok := l.dst.(io.Closer); ok {
		if err := c.Close(); err != nil && l.err == nil {
			l.err = err
		}
	}
	return l.err
}
