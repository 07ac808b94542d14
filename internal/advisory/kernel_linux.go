//go:build linux

package advisory

import "golang.org/x/sys/unix"

// NewKernel returns the native kernel collaborator: fstat for metadata and
// posix_fadvise for cache hints.
func NewKernel() Kernel {
	return linuxKernel{}
}

type linuxKernel struct{}

func (linuxKernel) Stat(fd int) (Metadata, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Regular: st.Mode&unix.S_IFMT == unix.S_IFREG,
		Size:    st.Size,
	}, nil
}

func (linuxKernel) Advise(fd int, offset, length int64, advice Advice) error {
	return unix.Fadvise(fd, offset, length, sysAdvice(advice))
}

func sysAdvice(advice Advice) int {
	switch advice {
	case AdviceNoReuse:
		return unix.FADV_NOREUSE
	case AdviceDontNeed:
		return unix.FADV_DONTNEED
	default:
		return unix.FADV_NORMAL
	}
}
