//go:build !windows && !linux

package llio

// fillBirthtim is a no-op on BSD/Darwin in this build: Birthtim stays the
// zero time.Time, counted as populated per spec.md section 4.7 ("the
// returned count is the number of fields populated") since the field was
// attempted, not skipped.
func fillBirthtim(fd int, s *Stat) {}
