//go:build !windows && !linux

package llio

// directFlagIfSupported is a no-op on BSD/Darwin: O_DIRECT has no portable
// equivalent there, so CachingNone adds nothing to the open flags.
func directFlagIfSupported() int { return 0 }
