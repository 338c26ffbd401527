package llio

import (
	"testing"

	"github.com/aio-go/llio/internal/osutil"
)

func TestSectionZeroSizeWithBackingDefaultsToFileLength(t *testing.T) {
	fh, err := TempFile("", ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("TempFile: %v", err)
	}
	defer fh.Close()

	const want = 4096
	req := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: make([]byte, want)}}}
	if _, err := fh.Write(req, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	sec, err := Section(fh, 0, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	if got := sec.MaximumSize(); got != want {
		t.Errorf("MaximumSize() = %d, want %d", got, want)
	}
}

func TestSectionZeroSizeWithNoBackingIsInvalidArgument(t *testing.T) {
	_, err := Section(nil, 0, SectionRead|SectionWrite)
	if !IsKind(err, KindInvalidArgument) {
		t.Errorf("Section(nil, 0, ...) err = %v, want KindInvalidArgument", err)
	}
}

func TestSectionAnonymousMaximumSizeIsPageRounded(t *testing.T) {
	sec, err := Section(nil, 1, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	page := uint64(osutil.PageSize())
	if got := sec.MaximumSize(); got != page {
		t.Errorf("MaximumSize() = %d, want %d (one page)", got, page)
	}
}

func TestSectionTruncateRoundsToPage(t *testing.T) {
	sec, err := Section(nil, 1, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	page := uint64(osutil.PageSize())
	if err := sec.Truncate(page + 1); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if got := sec.MaximumSize(); got != 2*page {
		t.Errorf("MaximumSize() after Truncate = %d, want %d", got, 2*page)
	}
}

func TestSectionCloseIsIdempotent(t *testing.T) {
	sec, err := Section(nil, 1, SectionRead)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if err := sec.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := sec.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
