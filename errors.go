// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package llio

import "fmt"

// Kind classifies an Error independent of the operating system that
// produced it, per the error taxonomy in spec.md section 7.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidArgument
	KindNotFound
	KindAlreadyExists
	KindPermissionDenied
	KindIsADirectory
	KindNotADirectory
	KindNoSpace
	KindInterrupted
	KindTimedOut
	KindOperationCanceled
	KindIO
	KindOutOfMemory
	KindUnsupported
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindPermissionDenied:
		return "permission_denied"
	case KindIsADirectory:
		return "is_a_directory"
	case KindNotADirectory:
		return "not_a_directory"
	case KindNoSpace:
		return "no_space"
	case KindInterrupted:
		return "interrupted"
	case KindTimedOut:
		return "timed_out"
	case KindOperationCanceled:
		return "operation_canceled"
	case KindIO:
		return "io"
	case KindOutOfMemory:
		return "out_of_memory"
	case KindUnsupported:
		return "unsupported"
	case KindOther:
		return "os"
	default:
		return "none"
	}
}

// Category distinguishes where a raw error Code came from, so callers that
// care can interpret it with the right table.
type Category int

const (
	// CategoryGeneric means Code is a POSIX errno.
	CategoryGeneric Category = iota
	// CategoryNTStatus means Code is a Windows NTSTATUS or Win32 error code.
	CategoryNTStatus
	// CategoryLibrary means the error originated in this library, not the OS.
	CategoryLibrary
)

// Error is the typed error payload returned by every fallible operation in
// this package. There are no exceptions on the hot path; every failure is a
// returned *Error.
type Error struct {
	Kind     Kind
	Op       string
	Path     string
	Code     int
	Category Category
}

func (e *Error) Error() string {
	// Truncate to the last 190 characters of the path, per spec.md section 6:
	// "an optional message (typically the last 190 characters of a path)".
	p := e.Path
	const maxPathInMessage = 190
	if len(p) > maxPathInMessage {
		p = p[len(p)-maxPathInMessage:]
	}

	if p == "" {
		return fmt.Sprintf("%s: %s (code %d)", e.Op, e.Kind, e.Code)
	}
	return fmt.Sprintf("%s %s: %s (code %d)", e.Op, p, e.Kind, e.Code)
}

// newError constructs an *Error. Path is stored whole; Error() truncates it
// when formatting the message.
func newError(op string, path string, kind Kind, code int, cat Category) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Code: code, Category: cat}
}

// errLibrary builds a library-origin error (Category: library), used for
// failures this package detects itself rather than receives from the OS
// (e.g. invalid flag combinations, a nil region pointer).
func errLibrary(op string, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Op: op, Path: msg, Code: 0, Category: CategoryLibrary}
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
