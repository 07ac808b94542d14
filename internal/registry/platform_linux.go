//go:build linux

package registry

import "golang.org/x/sys/unix"

// Platform returns the resolver backed by the operating system's native
// open/read/close family.
func Platform() Resolver {
	return ResolverFunc(func() Funcs {
		return Funcs{
			Open:        sysOpen,
			Open64:      sysOpen,
			StreamOpen:  sysStreamOpen,
			Read:        unix.Read,
			Pread:       unix.Pread,
			Readv:       unix.Readv,
			Close:       unix.Close,
			StreamClose: unix.Close,
		}
	})
}

func sysOpen(path string, flags int, mode uint32) (int, error) {
	return unix.Open(path, flags, mode)
}

// sysStreamOpen opens the descriptor backing a buffered stream. Creation
// modes follow the stream-open convention of creating with 0666, subject to
// the process umask.
func sysStreamOpen(path string, flags int) (int, error) {
	return unix.Open(path, flags, 0666)
}
