package llio

import (
	"runtime"

	"github.com/jacobsa/syncutil"

	"github.com/aio-go/llio/internal/osutil"
)

// Region is a page-addressable sub-range of a MapHandle's virtual address
// space, expressed as an absolute address and length (spec.md section 4.3,
// commit/decommit/zero/do_not_store/prefetch all operate on Regions).
type Region struct {
	Addr   uintptr
	Length uintptr
}

func roundRegionOutward(r Region) Region {
	page := osutil.PageSize()
	end := osutil.RoundUpPage(r.Addr + r.Length)
	start := (r.Addr / page) * page
	return Region{Addr: start, Length: end - start}
}

// MapHandle owns a virtual-address range mapped from a SectionHandle
// (spec.md section 3). It borrows, rather than owns, the section and the
// section backing's NativeHandle.
type MapHandle struct {
	mu syncutil.InvariantMutex

	section *SectionHandle
	addr    uintptr // GUARDED_BY(mu)
	length  uintptr // GUARDED_BY(mu)
	offset  uint64
	flag    SectionFlag
	closed  bool // GUARDED_BY(mu)
}

func (m *MapHandle) checkInvariants() {
	page := osutil.PageSize()
	if m.addr%page != 0 {
		panic("llio.MapHandle: addr is not page aligned")
	}
	if m.offset%uint64(page) != 0 {
		panic("llio.MapHandle: offset is not page aligned")
	}
}

// Map establishes a mapped view of section starting at offset, requesting
// bytes (spec.md section 4.3). Anonymous sections round bytes up to the
// page size; backed sections do not (the backing file's length is
// authoritative and rounding would attempt to extend it).
func Map(section *SectionHandle, bytes uint64, offset uint64, flag SectionFlag) (*MapHandle, error) {
	if section.Backing() == nil {
		bytes = uint64(osutil.RoundUpPage(uintptr(bytes)))
	}

	addr, length, err := mapNative(section, bytes, offset, flag)
	if err != nil {
		return nil, err
	}

	m := &MapHandle{section: section, addr: addr, length: length, offset: offset, flag: flag}
	m.mu = syncutil.NewInvariantMutex(m.checkInvariants)

	if flag.Has(SectionPrefault) {
		if err := prefaultNative(addr, length); err != nil {
			debugf("Map: prefault failed, continuing degraded: %v", err)
		}
	}

	runtime.SetFinalizer(m, finalizeMapHandle)
	return m, nil
}

func finalizeMapHandle(m *MapHandle) {
	m.mu.Lock()
	closed := m.closed
	addr, length := m.addr, m.length
	m.closed = true
	m.mu.Unlock()

	if closed {
		return
	}
	if err := unmapNative(addr, length); err != nil {
		panic("llio: fatal: map handle finalized while open and unmap failed: " + err.Error())
	}
}

// Section returns the borrowed SectionHandle this map was created from.
func (m *MapHandle) Section() *SectionHandle { return m.section }

// Addr returns the page-aligned base address of the mapped range.
func (m *MapHandle) Addr() uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// Length returns the actually-mapped length, which may exceed the
// requested size due to page rounding.
func (m *MapHandle) Length() uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.length
}

// Close unmaps the range. Idempotent.
func (m *MapHandle) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	if err := unmapNative(m.addr, m.length); err != nil {
		return err
	}
	m.closed = true
	runtime.SetFinalizer(m, nil)
	return nil
}

// Commit changes the protection of a page-aligned subrange and advises the
// kernel the pages will be used imminently (spec.md section 4.3). Calling
// Commit twice with identical arguments is observationally equivalent to
// once.
func (m *MapHandle) Commit(region Region, flag SectionFlag) error {
	r := roundRegionOutward(region)
	if err := protectNative(r, flag); err != nil {
		return err
	}
	return adviseWillNeedNative(r)
}

// Decommit advises the kernel the pages are no longer needed and drops
// protection to none.
func (m *MapHandle) Decommit(region Region) error {
	r := roundRegionOutward(region)
	if err := adviseDontNeedNative(r); err != nil {
		return err
	}
	return protectNative(r, 0)
}

// Zero punches a hole in region using the OS's best available advice for
// the page-aligned interior, falling back to an in-memory memset for the
// unaligned head/tail (spec.md section 4.3).
func (m *MapHandle) Zero(region Region) error {
	if region.Addr == 0 {
		return errLibrary("zero", KindInvalidArgument, "region pointer is nil")
	}

	page := osutil.PageSize()
	alignedStart := osutil.RoundUpPage(region.Addr)
	end := region.Addr + region.Length
	alignedEnd := (end / page) * page

	if region.Addr < alignedStart {
		headEnd := alignedStart
		if end < headEnd {
			headEnd = end
		}
		memsetRegion(Region{Addr: region.Addr, Length: headEnd - region.Addr})
	}
	if alignedEnd > alignedStart {
		if err := zeroHoleNative(Region{Addr: alignedStart, Length: alignedEnd - alignedStart}); err != nil {
			memsetRegion(Region{Addr: alignedStart, Length: alignedEnd - alignedStart})
		}
	}
	if end > alignedEnd && alignedEnd >= alignedStart {
		tailStart := alignedEnd
		if tailStart < alignedStart {
			tailStart = alignedStart
		}
		memsetRegion(Region{Addr: tailStart, Length: end - tailStart})
	}
	return nil
}

// DoNotStore discards region's page contents without changing protection.
// If the platform cannot express this, the returned Region's Length is
// zero but the call still succeeds (spec.md section 4.3 and section 9's
// open question: callers cannot distinguish "unsupported" from "empty").
func (m *MapHandle) DoNotStore(region Region) (Region, error) {
	if region.Addr == 0 {
		return Region{}, errLibrary("do_not_store", KindInvalidArgument, "region pointer is nil")
	}
	ok, err := doNotStoreNative(region)
	if err != nil {
		return Region{}, err
	}
	if !ok {
		return Region{Addr: region.Addr, Length: 0}, nil
	}
	return region, nil
}

// Prefetch issues an OS batch prefetch hint for regions. A no-op is a
// permitted degraded implementation (spec.md section 4.3).
func (m *MapHandle) Prefetch(regions []Region) error {
	return prefetchNative(regions)
}

var _ IoHandle = (*MapHandle)(nil)

// Read treats the mapped range as the source: each buffer's pointer is set
// to the in-map address starting at addr+request.Offset, clamped to the
// remaining mapped bytes; buffers past the end of the map get zero length
// (spec.md section 4.3). Deadlines are accepted for interface symmetry and
// ignored, since the operation cannot block.
func (m *MapHandle) Read(req IoRequest[Buffer], _ Deadline) (IoResult[Buffer], error) {
	m.mu.Lock()
	addr, length := m.addr, m.length
	m.mu.Unlock()

	cursor := req.Offset
	for i := range req.Buffers {
		buf := &req.Buffers[i]
		if cursor >= uint64(length) {
			buf.Data = buf.Data[:0]
			continue
		}
		remaining := uint64(length) - cursor
		n := uint64(len(buf.Data))
		if n > remaining {
			n = remaining
		}
		buf.Data = mapBytes(addr, length)[cursor : cursor+n]
		cursor += n
	}
	return IoResult[Buffer]{Buffers: req.Buffers}, nil
}

// Write is the symmetric counterpart of Read: it memcpys buffer contents
// into the mapped range starting at addr+request.Offset.
func (m *MapHandle) Write(req IoRequest[ConstBuffer], _ Deadline) (IoResult[ConstBuffer], error) {
	m.mu.Lock()
	addr, length := m.addr, m.length
	m.mu.Unlock()

	cursor := req.Offset
	for i := range req.Buffers {
		buf := &req.Buffers[i]
		if cursor >= uint64(length) {
			continue
		}
		remaining := uint64(length) - cursor
		n := uint64(len(buf.Data))
		if n > remaining {
			n = remaining
		}
		dst := mapBytes(addr, length)[cursor : cursor+n]
		copy(dst, buf.Data[:n])
		cursor += n
	}
	return IoResult[ConstBuffer]{Buffers: req.Buffers}, nil
}
