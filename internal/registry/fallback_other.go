//go:build !linux

package registry

import "syscall"

// The raw-syscall fallbacks exist only where the kernel call numbers do.
// Elsewhere they report ENOSYS so the build stays portable.

func FallbackOpen(path string, flags int, mode uint32) (int, error) {
	return -1, syscall.ENOSYS
}

func FallbackRead(fd int, p []byte) (int, error) {
	return -1, syscall.ENOSYS
}

func FallbackPread(fd int, p []byte, offset int64) (int, error) {
	return -1, syscall.ENOSYS
}

func FallbackReadv(fd int, bufs [][]byte) (int, error) {
	return -1, syscall.ENOSYS
}

func FallbackClose(fd int) error {
	return syscall.ENOSYS
}
