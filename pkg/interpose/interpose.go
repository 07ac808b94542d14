// Package interpose is the public entry point for the advisory shim. It
// exposes the intercepted open/read/close family with the exact calling
// contract of the underlying operations, plus a process-wide default
// instance for drop-in use.
package interpose

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/fadvshim/fadvshim/internal/config"
	"github.com/fadvshim/fadvshim/internal/intercept"
	"github.com/fadvshim/fadvshim/internal/metrics"
)

// Shim routes file I/O through the interception layer.
type Shim struct {
	inner     *intercept.Shim
	collector *metrics.Collector
}

type options struct {
	cutoff     *int64
	openHint   *bool
	closeDrop  *bool
	configFile string
	logger     *slog.Logger
	metricsOn  *bool
}

// Option customizes a Shim at construction time.
type Option func(*options)

// WithSizeCutoff sets the size threshold, in bytes, below which files are
// hinted. Environment overrides still apply on top.
func WithSizeCutoff(n int64) Option {
	return func(o *options) { o.cutoff = &n }
}

// WithOpenHint toggles the no-reuse hint applied at open time.
func WithOpenHint(enabled bool) Option {
	return func(o *options) { o.openHint = &enabled }
}

// WithCloseDrop toggles the cached-page drop applied before close.
func WithCloseDrop(enabled bool) Option {
	return func(o *options) { o.closeDrop = &enabled }
}

// WithConfigFile loads settings from a YAML file before applying options
// from the environment.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithLogger sets the logger. Without it, a text logger honoring the
// configured log level writes to stderr.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics toggles Prometheus collection.
func WithMetrics(enabled bool) Option {
	return func(o *options) { o.metricsOn = &enabled }
}

// New builds a shim. Settings resolve in precedence order: defaults, then
// the config file, then options, with environment variables applied exactly
// once when the first intercepted call runs.
func New(opts ...Option) (*Shim, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.NewDefault()
	if o.configFile != "" {
		if err := cfg.LoadFromFile(o.configFile); err != nil {
			return nil, fmt.Errorf("failed to load shim config: %w", err)
		}
	}
	if o.cutoff != nil {
		cfg.SizeCutoff = *o.cutoff
	}
	if o.openHint != nil {
		cfg.OpenHintEnabled = *o.openHint
	}
	if o.closeDrop != nil {
		cfg.CloseDropEnabled = *o.closeDrop
	}
	if o.metricsOn != nil {
		cfg.Metrics.Enabled = *o.metricsOn
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shim config: %w", err)
	}

	logger := o.logger
	if logger == nil {
		logger = newLogger(cfg.Global.LogLevel)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&metrics.Config{
			Enabled:   true,
			Namespace: cfg.Metrics.Namespace,
		})
	}

	inner := intercept.New(
		intercept.WithSettings(cfg),
		intercept.WithLogger(logger),
		intercept.WithCollector(collector),
	)

	return &Shim{inner: inner, collector: collector}, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Open opens a path with flags, hinting eligible descriptors. The creation
// mode is consumed only when flags include O_CREAT.
func (s *Shim) Open(path string, flags int, mode ...uint32) (int, error) {
	return s.inner.Open(path, flags, mode...)
}

// Open64 is the large-file open variant; identical to Open here.
func (s *Shim) Open64(path string, flags int, mode ...uint32) (int, error) {
	return s.inner.Open64(path, flags, mode...)
}

// OpenStream opens a buffered stream using a C-style mode string.
func (s *Shim) OpenStream(path, mode string) (*Stream, error) {
	st, err := s.inner.OpenStream(path, mode)
	if err != nil {
		return nil, err
	}
	return &Stream{inner: st}, nil
}

// Read reads sequentially from a descriptor, dropping cached pages for
// eligible files at end-of-file.
func (s *Shim) Read(fd int, p []byte) (int, error) {
	return s.inner.Read(fd, p)
}

// Pread reads at an explicit offset.
func (s *Shim) Pread(fd int, p []byte, offset int64) (int, error) {
	return s.inner.Pread(fd, p, offset)
}

// Readv performs a vectored read.
func (s *Shim) Readv(fd int, bufs [][]byte) (int, error) {
	return s.inner.Readv(fd, bufs)
}

// Close closes a descriptor, dropping cached pages for eligible files first.
func (s *Shim) Close(fd int) error {
	return s.inner.Close(fd)
}

// CloseStream closes a buffered stream.
func (s *Shim) CloseStream(st *Stream) error {
	if st == nil {
		return s.inner.CloseStream(nil)
	}
	return s.inner.CloseStream(st.inner)
}

// MetricsHandler returns the Prometheus scrape handler for this shim. The
// host decides where to mount it; the shim runs no server of its own.
func (s *Shim) MetricsHandler() http.Handler {
	return s.collector.Handler()
}

// Stream is a buffered read stream over an intercepted descriptor.
type Stream struct {
	inner *intercept.Stream
}

// Read reads buffered data; end-of-file is io.EOF.
func (st *Stream) Read(p []byte) (int, error) {
	return st.inner.Read(p)
}

// Fd returns the descriptor backing the stream.
func (st *Stream) Fd() int {
	return st.inner.Fd()
}

var (
	defaultOnce sync.Once
	defaultShim *Shim
)

// Default returns the process-wide shim, constructing it on first use with
// default options. Configuration comes from the environment, read once.
func Default() *Shim {
	defaultOnce.Do(func() {
		// Defaults cannot fail validation.
		defaultShim, _ = New()
	})
	return defaultShim
}

// Open opens a path through the process-wide shim.
func Open(path string, flags int, mode ...uint32) (int, error) {
	return Default().Open(path, flags, mode...)
}

// Open64 is the large-file open variant of Open on the process-wide shim.
func Open64(path string, flags int, mode ...uint32) (int, error) {
	return Default().Open64(path, flags, mode...)
}

// OpenStream opens a buffered stream through the process-wide shim.
func OpenStream(path, mode string) (*Stream, error) {
	return Default().OpenStream(path, mode)
}

// Read reads sequentially from a descriptor through the process-wide shim.
func Read(fd int, p []byte) (int, error) {
	return Default().Read(fd, p)
}

// Pread reads at an explicit offset through the process-wide shim.
func Pread(fd int, p []byte, offset int64) (int, error) {
	return Default().Pread(fd, p, offset)
}

// Readv performs a vectored read through the process-wide shim.
func Readv(fd int, bufs [][]byte) (int, error) {
	return Default().Readv(fd, bufs)
}

// Close closes a descriptor through the process-wide shim.
func Close(fd int) error {
	return Default().Close(fd)
}

// CloseStream closes a buffered stream through the process-wide shim.
func CloseStream(st *Stream) error {
	return Default().CloseStream(st)
}
