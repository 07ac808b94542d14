package intercept

import (
	"bufio"
	"io"
	"strings"
	"syscall"
)

// Stream is the buffered-stream analog of a stdio FILE handle. Its reads
// flow through the owning shim's Read, so the end-of-file drop hint applies
// to stream consumers exactly as it does to raw descriptor reads.
type Stream struct {
	fd     int
	mode   string
	reader *bufio.Reader
}

func newStream(s *Shim, fd int, mode string) *Stream {
	return &Stream{
		fd:     fd,
		mode:   mode,
		reader: bufio.NewReader(fdReader{shim: s, fd: fd}),
	}
}

// Fd returns the descriptor backing the stream, or -1 for a nil stream.
func (st *Stream) Fd() int {
	if st == nil {
		return -1
	}
	return st.fd
}

// Mode returns the mode string the stream was opened with.
func (st *Stream) Mode() string { return st.mode }

// Read reads buffered data from the stream. It follows the io.Reader
// contract: end-of-file is reported as io.EOF rather than a zero count.
func (st *Stream) Read(p []byte) (int, error) {
	return st.reader.Read(p)
}

// fdReader adapts the shim's syscall-style read (EOF is a zero count with a
// nil error) to the io.Reader contract bufio expects.
type fdReader struct {
	shim *Shim
	fd   int
}

func (r fdReader) Read(p []byte) (int, error) {
	n, err := r.shim.Read(r.fd, p)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ParseStreamMode translates a C-style stream mode string into open flags.
// The binary qualifier is accepted anywhere and ignored, as on POSIX.
func ParseStreamMode(mode string) (int, error) {
	switch strings.ReplaceAll(mode, "b", "") {
	case "r":
		return syscall.O_RDONLY, nil
	case "r+":
		return syscall.O_RDWR, nil
	case "w":
		return syscall.O_WRONLY | syscall.O_CREAT | syscall.O_TRUNC, nil
	case "w+":
		return syscall.O_RDWR | syscall.O_CREAT | syscall.O_TRUNC, nil
	case "a":
		return syscall.O_WRONLY | syscall.O_CREAT | syscall.O_APPEND, nil
	case "a+":
		return syscall.O_RDWR | syscall.O_CREAT | syscall.O_APPEND, nil
	}
	return 0, syscall.EINVAL
}
