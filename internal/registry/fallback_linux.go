//go:build linux

package registry

import (
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Raw system-call implementations used when resolution left a slot empty.
// Functionality must never fail purely because the genuine implementation
// could not be located, so these mirror each tracked operation one for one.

// FallbackOpen issues the openat system call directly.
func FallbackOpen(path string, flags int, mode uint32) (int, error) {
	p, err := unix.BytePtrFromString(path)
	if err != nil {
		return -1, err
	}
	dirfd := unix.AT_FDCWD
	r, _, errno := unix.Syscall6(unix.SYS_OPENAT,
		uintptr(dirfd),
		uintptr(unsafe.Pointer(p)),
		uintptr(flags),
		uintptr(mode), 0, 0)
	runtime.KeepAlive(p)
	if errno != 0 {
		return -1, errno
	}
	return int(r), nil
}

// FallbackRead issues the read system call directly.
func FallbackRead(fd int, p []byte) (int, error) {
	var buf unsafe.Pointer
	if len(p) > 0 {
		buf = unsafe.Pointer(&p[0])
	}
	r, _, errno := unix.Syscall(unix.SYS_READ, uintptr(fd), uintptr(buf), uintptr(len(p)))
	if errno != 0 {
		return -1, errno
	}
	return int(r), nil
}

// FallbackPread issues the pread64 system call directly.
func FallbackPread(fd int, p []byte, offset int64) (int, error) {
	var buf unsafe.Pointer
	if len(p) > 0 {
		buf = unsafe.Pointer(&p[0])
	}
	r, _, errno := unix.Syscall6(unix.SYS_PREAD64,
		uintptr(fd), uintptr(buf), uintptr(len(p)), uintptr(offset), 0, 0)
	if errno != 0 {
		return -1, errno
	}
	return int(r), nil
}

// FallbackReadv issues the readv system call directly.
func FallbackReadv(fd int, bufs [][]byte) (int, error) {
	iovs := make([]unix.Iovec, 0, len(bufs))
	for i := range bufs {
		if len(bufs[i]) == 0 {
			continue
		}
		iov := unix.Iovec{Base: &bufs[i][0]}
		iov.SetLen(len(bufs[i]))
		iovs = append(iovs, iov)
	}
	if len(iovs) == 0 {
		return 0, nil
	}
	r, _, errno := unix.Syscall(unix.SYS_READV,
		uintptr(fd), uintptr(unsafe.Pointer(&iovs[0])), uintptr(len(iovs)))
	runtime.KeepAlive(bufs)
	if errno != 0 {
		return -1, errno
	}
	return int(r), nil
}

// FallbackClose issues the close system call directly.
func FallbackClose(fd int) error {
	_, _, errno := unix.Syscall(unix.SYS_CLOSE, uintptr(fd), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}
