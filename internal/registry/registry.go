// Package registry resolves and holds the genuine I/O implementations the
// interception layer delegates to. Slots are populated exactly once per shim
// and never reassigned, so concurrent reads need no locking. A nil slot means
// resolution failed for that operation; callers fall back to the raw
// system-call implementations in this package instead of surfacing an error.
package registry

// Funcs maps each intercepted operation to its genuine implementation.
// The zero value has every slot unresolved.
type Funcs struct {
	// Open performs an open-by-path with flags. The mode argument is
	// meaningful only when flags request file creation.
	Open func(path string, flags int, mode uint32) (int, error)

	// Open64 is the large-file open variant. On platforms without a
	// distinct large-file path it behaves identically to Open.
	Open64 func(path string, flags int, mode uint32) (int, error)

	// StreamOpen opens the descriptor backing a buffered stream.
	StreamOpen func(path string, flags int) (int, error)

	// Read is the sequential byte read.
	Read func(fd int, p []byte) (int, error)

	// Pread reads at an explicit offset without moving the file position.
	Pread func(fd int, p []byte, offset int64) (int, error)

	// Readv is the vectored read.
	Readv func(fd int, bufs [][]byte) (int, error)

	// Close releases a descriptor.
	Close func(fd int) error

	// StreamClose releases the descriptor backing a buffered stream.
	StreamClose func(fd int) error
}

// Resolver produces the set of genuine implementations. The platform
// resolver backs every slot; test resolvers may leave slots nil to exercise
// the fallback paths.
type Resolver interface {
	Resolve() Funcs
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func() Funcs

func (f ResolverFunc) Resolve() Funcs { return f() }
