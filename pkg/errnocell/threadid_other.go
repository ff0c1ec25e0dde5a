//go:build !linux && !darwin

package errnocell

// threadID returns a single process-wide key. Platforms without a thread id
// primitive fall back to one shared slot.
func threadID() int {
	return 0
}
