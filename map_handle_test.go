package llio

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/aio-go/llio/internal/osutil"
)

func TestAnonymousMapReadWriteAtOffset(t *testing.T) {
	page := uint64(osutil.PageSize())

	sec, err := Section(nil, 2*page, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	m, err := Map(sec, 2*page, 0, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer m.Close()

	want := bytes.Repeat([]byte{0xAB}, 16)
	wreq := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: want}}, Offset: page}
	if _, err := m.Write(wreq, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := make([]byte, 16)
	rreq := IoRequest[Buffer]{Buffers: []Buffer{{Data: got}}, Offset: page}
	res, err := m.Read(rreq, DeadlineNone)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(res.Buffers[0].Data, want) {
		t.Errorf("Read at offset %d = %x, want %x", page, res.Buffers[0].Data, want)
	}
}

// TestMapReadSubstitutesBufferPointer confirms Read rebinds buf.Data to
// the in-map address rather than copying into the caller's backing array
// (spec.md section 4.3, section 4.4's pointer-substitution contract).
func TestMapReadSubstitutesBufferPointer(t *testing.T) {
	page := uint64(osutil.PageSize())

	sec, err := Section(nil, page, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	m, err := Map(sec, page, 0, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer m.Close()

	original := make([]byte, 16)
	originalPtr := unsafe.Pointer(&original[0])

	req := IoRequest[Buffer]{Buffers: []Buffer{{Data: original}}, Offset: 0}
	res, err := m.Read(req, DeadlineNone)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	got := res.Buffers[0].Data
	if len(got) == 0 {
		t.Fatalf("Read returned an empty buffer")
	}
	gotPtr := unsafe.Pointer(&got[0])
	if gotPtr == originalPtr {
		t.Errorf("Read left buf.Data pointing at the caller's backing array; want it rebound to the mapped region")
	}
	if wantPtr := unsafe.Pointer(m.Addr()); gotPtr != wantPtr {
		t.Errorf("Read's buffer address = %p, want the map's base address %p", gotPtr, wantPtr)
	}
}

func TestMapReadClampsToMapEnd(t *testing.T) {
	page := uint64(osutil.PageSize())

	sec, err := Section(nil, page, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	m, err := Map(sec, page, 0, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer m.Close()

	buf := Buffer{Data: make([]byte, 32)}
	req := IoRequest[Buffer]{Buffers: []Buffer{buf}, Offset: page - 4}
	res, err := m.Read(req, DeadlineNone)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := res.Buffers[0].Len(); got != 4 {
		t.Errorf("Buffers[0].Len() = %d, want 4 (clamped to map end)", got)
	}
}

func TestMapZeroRoundsUnalignedEdges(t *testing.T) {
	page := uint64(osutil.PageSize())

	sec, err := Section(nil, 2*page, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	m, err := Map(sec, 2*page, 0, SectionRead|SectionWrite)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer m.Close()

	fill := make([]byte, 2*page)
	for i := range fill {
		fill[i] = 0x7F
	}
	wreq := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: fill}}}
	if _, err := m.Write(wreq, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	region := Region{Addr: m.Addr() + uintptr(page) - 8, Length: 16}
	if err := m.Zero(region); err != nil {
		t.Fatalf("Zero: %v", err)
	}

	got := make([]byte, 16)
	rreq := IoRequest[Buffer]{Buffers: []Buffer{{Data: got}}, Offset: page - 8}
	res, err := m.Read(rreq, DeadlineNone)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for _, b := range res.Buffers[0].Data {
		if b != 0 {
			t.Fatalf("Zero region still has non-zero byte: %x", res.Buffers[0].Data)
		}
	}
}

// TestCommitReadOnlyMapWritableThenPersist matches the read-only-section,
// commit-to-writable, write, drop, reread-from-file walk.
func TestCommitReadOnlyMapWritableThenPersist(t *testing.T) {
	page := uint64(osutil.PageSize())

	fh, err := TempFile("", ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("TempFile: %v", err)
	}
	defer fh.Close()

	zeros := make([]byte, page)
	if _, err := fh.Write(IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: zeros}}}, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	sec, err := Section(fh, page, SectionRead)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	m, err := Map(sec, page, 0, SectionRead)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}

	if err := m.Commit(Region{Addr: m.Addr(), Length: m.Length()}, SectionRead|SectionWrite); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	payload := bytes.Repeat([]byte{0x42}, 8)
	wreq := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: payload}}}
	if _, err := m.Write(wreq, DeadlineNone); err != nil {
		t.Fatalf("Write through committed map: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := make([]byte, 8)
	rreq := IoRequest[Buffer]{Buffers: []Buffer{{Data: got}}}
	res, err := fh.Read(rreq, DeadlineNone)
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if !bytes.Equal(res.Buffers[0].Data, payload) {
		t.Errorf("file contents after map drop = %x, want %x", res.Buffers[0].Data, payload)
	}
}

func TestMapCloseIsIdempotent(t *testing.T) {
	sec, err := Section(nil, 1, SectionRead)
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	defer sec.Close()

	m, err := Map(sec, 1, 0, SectionRead)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
