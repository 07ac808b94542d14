/*
Package intercept implements the interception layer: substituted entry
points for the open/read/close family that wrap the genuine implementations
with a size-based cache-advisory policy.

Each entry point follows the same shape. The first action is the
initialization barrier, a sync.Once that resolves the registry, loads
configuration (file, then environment, exactly once), and builds the
advisory policy; every concurrent caller blocks until that completes and
then observes fully-populated, read-only state. The call then delegates to
the resolved implementation, or to the raw system-call fallback when
resolution left the slot empty, and finally applies policy at the lifecycle
points that matter:

  - open: a no-reuse hint on the fresh descriptor
  - read/pread/readv returning zero bytes: a drop hint at end-of-file
  - close: a drop hint before the delegate, while the descriptor is alive

The delegate's result is always returned unchanged. Advisory and resolution
failures are absorbed here; callers can observe only the genuine operation's
own outcome.
*/
package intercept
