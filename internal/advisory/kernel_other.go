//go:build !linux

package advisory

import "syscall"

// NewKernel returns a collaborator whose metadata queries always fail on
// platforms without fadvise, so the policy skips every descriptor and the
// shim degrades to plain delegation.
func NewKernel() Kernel {
	return stubKernel{}
}

type stubKernel struct{}

func (stubKernel) Stat(fd int) (Metadata, error) {
	return Metadata{}, syscall.ENOSYS
}

func (stubKernel) Advise(fd int, offset, length int64, advice Advice) error {
	return syscall.ENOSYS
}
