package llio

import (
	"strings"
	"testing"

	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
)

func TestErrors(t *testing.T) { RunTests(t) }

type ErrorsTest struct {
}

func init() { RegisterTestSuite(&ErrorsTest{}) }

func (t *ErrorsTest) IsKindMatchesConstructedKind() {
	err := newError("open", "/tmp/foo", KindNotFound, 2, CategoryGeneric)
	ExpectTrue(IsKind(err, KindNotFound))
	ExpectFalse(IsKind(err, KindAlreadyExists))
}

func (t *ErrorsTest) IsKindRejectsMismatchedKind() {
	ExpectFalse(IsKind(errLibraryOnlyForTest(), KindNotFound))
}

func (t *ErrorsTest) MessageTruncatesLongPaths() {
	long := strings.Repeat("a", 500)
	err := newError("read", long, KindIO, 5, CategoryGeneric)

	msg := err.Error()
	ExpectTrue(strings.Contains(msg, strings.Repeat("a", 190)))
	ExpectThat(len(msg), LessThan(500))
}

func (t *ErrorsTest) MessageOmitsEmptyPath() {
	err := newError("commit", "", KindInvalidArgument, 22, CategoryGeneric)
	ExpectFalse(strings.Contains(err.Error(), "  "))
}

func errLibraryOnlyForTest() error {
	return errLibrary("test", KindUnsupported, "library-origin error for IsKind mismatch test")
}
