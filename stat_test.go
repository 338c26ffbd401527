package llio

import (
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

func TestStatFillCountsOnlyRequestedFields(t *testing.T) {
	fh, err := TempFile("", ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("TempFile: %v", err)
	}
	defer fh.Close()

	req := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: make([]byte, 123)}}}
	if _, err := fh.Write(req, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var s Stat
	count, err := s.Fill(fh.Handle, StatIno|StatSize|StatMtim)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if count != 3 {
		t.Errorf("Fill() count = %d, want 3", count)
	}
	if s.Size != 123 {
		t.Errorf("Size = %d, want 123", s.Size)
	}
	if s.Atim.IsZero() == false {
		t.Errorf("Atim should be left at zero value, got %v", s.Atim)
	}
}

func TestStatInoMatchesAcrossClone(t *testing.T) {
	fh, err := TempFile("", ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("TempFile: %v", err)
	}
	defer fh.Close()

	clone, err := fh.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer clone.Close()

	var orig, dup Stat
	if _, err := orig.Fill(fh.Handle, StatIno); err != nil {
		t.Fatalf("Fill(orig): %v", err)
	}
	if _, err := dup.Fill(clone.Handle, StatIno); err != nil {
		t.Fatalf("Fill(dup): %v", err)
	}
	if orig.Ino != dup.Ino {
		t.Errorf("Ino mismatch across Clone: %d != %d", orig.Ino, dup.Ino)
	}
}

// TestStatFillPopulatesExactFieldSet confirms Fill leaves every field
// outside the requested want set at its zero value, with a structural diff
// rather than one assertion per field.
func TestStatFillPopulatesExactFieldSet(t *testing.T) {
	// A linked file, not TempFile: TempFile unlinks at open on POSIX, which
	// would leave Nlink at 0.
	fh, err := File(joinPath(t.TempDir(), "stat"), ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	defer fh.Close()

	req := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: make([]byte, 64)}}}
	if _, err := fh.Write(req, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var s Stat
	if _, err := s.Fill(fh.Handle, StatSize|StatNlink); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	want := Stat{Size: 64, Nlink: 1}
	if diff := pretty.Compare(want, s); diff != "" {
		t.Errorf("Fill(StatSize|StatNlink) diff (-want +got):\n%s", diff)
	}
}
