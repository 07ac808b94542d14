// Package advisory implements the size-gated cache-advisory policy applied
// at open, end-of-file, and close. Advisory calls are pure optimizations:
// every failure inside this package is captured and discarded, and nothing
// here ever alters the outcome of the intercepted operation.
package advisory

import "log/slog"

// Advice identifies a cache-retention hint.
type Advice int

const (
	// AdviceNoReuse tells the kernel not to retain pages for reuse after
	// this access.
	AdviceNoReuse Advice = iota

	// AdviceDontNeed tells the kernel to release cached pages now.
	AdviceDontNeed
)

func (a Advice) String() string {
	switch a {
	case AdviceNoReuse:
		return "noreuse"
	case AdviceDontNeed:
		return "dontneed"
	default:
		return "unknown"
	}
}

// Metadata is the descriptor state the eligibility check inspects.
type Metadata struct {
	Regular bool
	Size    int64
}

// Kernel is the operating-system collaborator: descriptor metadata queries
// and file-advisory signaling. Tests substitute a double to assert hint
// sequencing without real file I/O.
type Kernel interface {
	Stat(fd int) (Metadata, error)
	Advise(fd int, offset, length int64, advice Advice) error
}

// Observer receives policy outcomes. Implemented by the metrics collector;
// a nil observer is valid.
type Observer interface {
	HintIssued(advice Advice)
	HintSkipped(reason string)
}

// Skip reasons reported to the Observer.
const (
	SkipStatFailed = "stat_failed"
	SkipNotRegular = "not_regular"
	SkipTooLarge   = "too_large"
)

// Policy applies whole-file advisory hints to descriptors that pass the
// eligibility check: metadata readable, regular file, size within the
// cutoff. Immutable after construction.
type Policy struct {
	kernel   Kernel
	cutoff   int64
	logger   *slog.Logger
	observer Observer
}

// NewPolicy builds a policy around the given kernel collaborator. A nil
// logger falls back to slog.Default; a nil observer disables reporting.
func NewPolicy(kernel Kernel, cutoff int64, logger *slog.Logger, observer Observer) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{
		kernel:   kernel,
		cutoff:   cutoff,
		logger:   logger,
		observer: observer,
	}
}

// OpenHint asks the kernel not to retain this file's pages for reuse.
// Applied to freshly opened descriptors.
func (p *Policy) OpenHint(fd int) {
	p.apply(fd, AdviceNoReuse)
}

// DropHint asks the kernel to release this file's cached pages now.
// Applied at end-of-file and before close.
func (p *Policy) DropHint(fd int) {
	p.apply(fd, AdviceDontNeed)
}

func (p *Policy) apply(fd int, advice Advice) {
	if fd < 0 {
		return
	}

	md, err := p.kernel.Stat(fd)
	if err != nil {
		// Invalid descriptor or a racing close. Skip silently.
		p.skip(SkipStatFailed)
		return
	}
	if !md.Regular {
		p.skip(SkipNotRegular)
		return
	}
	if md.Size > p.cutoff {
		p.skip(SkipTooLarge)
		return
	}

	if p.observer != nil {
		p.observer.HintIssued(advice)
	}

	// Offset 0, length 0 spans the whole file. The return code is
	// intentionally discarded: cache residency is an optimization, never
	// a correctness requirement.
	if err := p.kernel.Advise(fd, 0, 0, advice); err != nil {
		p.logger.Debug("advisory call failed",
			"fd", fd,
			"advice", advice.String(),
			"error", err)
	}
}

func (p *Policy) skip(reason string) {
	if p.observer != nil {
		p.observer.HintSkipped(reason)
	}
}
