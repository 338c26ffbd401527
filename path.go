package llio

import "path/filepath"

// Path is the best-known location of a FileHandle at open time. It is not
// a general path-parsing abstraction (spec.md Non-goals exclude that); it
// exists only so File/RandomFile/TempFile can join a directory and a
// generated name.
type Path = string

// joinPath joins dir and name using platform path rules.
func joinPath(dir, name string) Path {
	return filepath.Join(dir, name)
}
