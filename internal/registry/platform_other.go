//go:build !linux

package registry

// Platform returns a resolver with every slot unresolved on platforms
// without the native syscall surface; callers degrade to the fallback
// implementations, which report ENOSYS here.
func Platform() Resolver {
	return ResolverFunc(func() Funcs { return Funcs{} })
}
