package intercept

import (
	"log/slog"
	"sync"
	"syscall"

	"github.com/fadvshim/fadvshim/internal/advisory"
	"github.com/fadvshim/fadvshim/internal/config"
	"github.com/fadvshim/fadvshim/internal/metrics"
	"github.com/fadvshim/fadvshim/internal/registry"
)

// Shim presents the open/read/close family with cache-advisory policy
// inserted at open, end-of-file, and close. Every entry point triggers the
// one-time initialization barrier, delegates to the genuine implementation
// (or its raw-syscall fallback), applies policy, and returns the delegate's
// result unchanged. After the barrier completes all state is read-only, so
// concurrent calls need no further synchronization.
type Shim struct {
	once sync.Once

	resolver   registry.Resolver
	kernel     advisory.Kernel
	logger     *slog.Logger
	collector  *metrics.Collector
	settings   *config.Settings
	configFile string

	funcs  registry.Funcs
	policy *advisory.Policy
}

// Option customizes a Shim before its first intercepted call.
type Option func(*Shim)

// WithResolver substitutes the source of genuine implementations.
func WithResolver(r registry.Resolver) Option {
	return func(s *Shim) { s.resolver = r }
}

// WithKernel substitutes the metadata/advisory collaborator.
func WithKernel(k advisory.Kernel) Option {
	return func(s *Shim) { s.kernel = k }
}

// WithLogger sets the logger used for discarded advisory failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shim) { s.logger = l }
}

// WithCollector attaches a metrics collector. Nil disables metrics.
func WithCollector(c *metrics.Collector) Option {
	return func(s *Shim) { s.collector = c }
}

// WithSettings seeds the configuration. The environment is still applied on
// top, exactly once, when the barrier runs.
func WithSettings(cfg *config.Settings) Option {
	return func(s *Shim) { s.settings = cfg }
}

// WithConfigFile loads a YAML file into the configuration when the barrier
// runs, before environment overrides. A missing file is not fatal.
func WithConfigFile(path string) Option {
	return func(s *Shim) { s.configFile = path }
}

// New builds a shim. No resolution or configuration loading happens until
// the first intercepted call.
func New(opts ...Option) *Shim {
	s := &Shim{
		resolver: registry.Platform(),
		kernel:   advisory.NewKernel(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// init is the initialization barrier: exactly one caller resolves the
// registry and loads configuration; concurrent callers block until both are
// visible.
func (s *Shim) init() {
	s.once.Do(func() {
		s.funcs = s.resolver.Resolve()

		if s.settings == nil {
			s.settings = config.NewDefault()
		}
		if s.configFile != "" {
			if err := s.settings.LoadFromFile(s.configFile); err != nil {
				s.logger.Debug("config file skipped", "path", s.configFile, "error", err)
			}
		}
		s.settings.LoadFromEnv()

		var obs advisory.Observer
		if s.collector != nil {
			obs = s.collector
		}
		s.policy = advisory.NewPolicy(s.kernel, s.settings.SizeCutoff, s.logger, obs)
	})
}

// Settings returns the effective configuration, forcing initialization.
func (s *Shim) Settings() *config.Settings {
	s.init()
	return s.settings
}

// Open opens a path with flags. The creation mode is consumed only when
// flags request creation of a new file; without O_CREAT any supplied mode is
// ignored, matching the platform calling convention. The descriptor or error
// comes back from the delegate unchanged.
func (s *Shim) Open(path string, flags int, mode ...uint32) (int, error) {
	s.init()
	s.collector.RecordOperation("open")

	fd, err := s.delegateOpen(s.funcs.Open, "open", path, flags, creationMode(flags, mode))
	if err == nil && s.settings.OpenHintEnabled {
		s.policy.OpenHint(fd)
	}
	return fd, err
}

// Open64 is the large-file open variant; it behaves identically to Open
// here, as both resolve to 64-bit-offset opens.
func (s *Shim) Open64(path string, flags int, mode ...uint32) (int, error) {
	s.init()
	s.collector.RecordOperation("open64")

	fd, err := s.delegateOpen(s.funcs.Open64, "open64", path, flags, creationMode(flags, mode))
	if err == nil && s.settings.OpenHintEnabled {
		s.policy.OpenHint(fd)
	}
	return fd, err
}

// OpenStream opens a buffered stream over a path using a C-style mode
// string ("r", "r+", "w", "a+", ...). If no stream-open implementation was
// resolved, it composes a descriptor open with a stream wrap instead.
func (s *Shim) OpenStream(path, mode string) (*Stream, error) {
	s.init()
	s.collector.RecordOperation("stream_open")

	flags, err := ParseStreamMode(mode)
	if err != nil {
		return nil, err
	}

	var fd int
	if s.funcs.StreamOpen != nil {
		fd, err = s.funcs.StreamOpen(path, flags)
	} else {
		fd, err = s.delegateOpen(s.funcs.Open, "stream_open", path, flags, 0666)
	}
	if err != nil {
		return nil, err
	}

	if s.settings.OpenHintEnabled {
		s.policy.OpenHint(fd)
	}
	return newStream(s, fd, mode), nil
}

// Read delegates a sequential byte read. A zero-byte result with no error is
// end-of-file and triggers the drop hint; the count and error pass through
// untouched either way.
func (s *Shim) Read(fd int, p []byte) (int, error) {
	s.init()
	s.collector.RecordOperation("read")

	var n int
	var err error
	if s.funcs.Read != nil {
		n, err = s.funcs.Read(fd, p)
	} else {
		s.collector.RecordFallback("read")
		n, err = registry.FallbackRead(fd, p)
	}
	if n == 0 && err == nil {
		s.policy.DropHint(fd)
	}
	return n, err
}

// Pread delegates a read at an explicit offset, with the same end-of-file
// contract as Read.
func (s *Shim) Pread(fd int, p []byte, offset int64) (int, error) {
	s.init()
	s.collector.RecordOperation("pread")

	var n int
	var err error
	if s.funcs.Pread != nil {
		n, err = s.funcs.Pread(fd, p, offset)
	} else {
		s.collector.RecordFallback("pread")
		n, err = registry.FallbackPread(fd, p, offset)
	}
	if n == 0 && err == nil {
		s.policy.DropHint(fd)
	}
	return n, err
}

// Readv delegates a vectored read, with the same end-of-file contract as
// Read.
func (s *Shim) Readv(fd int, bufs [][]byte) (int, error) {
	s.init()
	s.collector.RecordOperation("readv")

	var n int
	var err error
	if s.funcs.Readv != nil {
		n, err = s.funcs.Readv(fd, bufs)
	} else {
		s.collector.RecordFallback("readv")
		n, err = registry.FallbackReadv(fd, bufs)
	}
	if n == 0 && err == nil {
		s.policy.DropHint(fd)
	}
	return n, err
}

// Close drops cached pages for eligible descriptors, then delegates the
// close. The drop runs first: the descriptor must still be open when its
// metadata is queried. The close result passes through regardless of the
// advisory outcome.
func (s *Shim) Close(fd int) error {
	s.init()
	s.collector.RecordOperation("close")

	if s.settings.CloseDropEnabled {
		s.policy.DropHint(fd)
	}
	if s.funcs.Close != nil {
		return s.funcs.Close(fd)
	}
	s.collector.RecordFallback("close")
	return registry.FallbackClose(fd)
}

// CloseStream drops cached pages for the stream's descriptor, then delegates
// the stream close. When no stream-close implementation was resolved it
// returns success without closing: teardown paths degrade rather than fail.
func (s *Shim) CloseStream(st *Stream) error {
	s.init()
	s.collector.RecordOperation("stream_close")

	if st == nil {
		return syscall.EINVAL
	}
	if s.settings.CloseDropEnabled && st.fd >= 0 {
		s.policy.DropHint(st.fd)
	}
	if s.funcs.StreamClose != nil {
		return s.funcs.StreamClose(st.fd)
	}
	return nil
}

func (s *Shim) delegateOpen(slot func(string, int, uint32) (int, error), op, path string, flags int, mode uint32) (int, error) {
	if slot != nil {
		return slot(path, flags, mode)
	}
	s.collector.RecordFallback(op)
	return registry.FallbackOpen(path, flags, mode)
}

// creationMode extracts the optional creation mode, consumed only when the
// creation flag is present.
func creationMode(flags int, mode []uint32) uint32 {
	if flags&syscall.O_CREAT == 0 || len(mode) == 0 {
		return 0
	}
	return mode[0]
}
