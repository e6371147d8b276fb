package backend

import (
	"bufio"
	"io"
)

// lineReader only ever yields whole newline-terminated lines. A trailing
// line without its newline is held back until the rest of it arrives, so a
// CSV file that is still being written never produces a torn record.
type lineReader struct {
	r *bufio.Reader
	// held is the unterminated tail seen by earlier reads.
	held []byte
	// rest is the part of a complete line that did not fit the caller's
	// buffer.
	rest []byte
}

var _ io.Reader = (*lineReader)(nil)

func NewLineReader(r io.Reader) io.Reader {
	return &lineReader{r: bufio.NewReader(r)}
}

// Read copies at most one line into b. It returns io.EOF, having read
// nothing, whenever the underlying data ends mid-line.
func (l *lineReader) Read(b []byte) (int, error) {
	if len(l.rest) > 0 {
		n := copy(b, l.rest)
		l.rest = l.rest[n:]
		return n, nil
	}
	line, err := l.r.ReadBytes('\n')
	if err != nil {
		l.held = append(l.held, line...)
		return 0, io.EOF
	}
	if len(l.held) > 0 {
		line = append(l.held, line...)
		l.held = nil
	}
	n := copy(b, line)
	l.rest = line[n:]
	return n, nil
}
