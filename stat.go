package llio

import "time"

// StatWant is a bit set selecting which Stat fields to populate, per
// spec.md section 4.7.
type StatWant uint32

const (
	StatDev StatWant = 1 << iota
	StatIno
	StatType
	StatNlink
	StatAtim
	StatMtim
	StatCtim
	StatSize
	StatAllocated
	StatBlocks
	StatBlksize
	StatBirthtim
	StatSparse
	StatCompressed
	StatReparsePoint
)

func (w StatWant) Has(bit StatWant) bool { return w&bit != 0 }

// FileType classifies a filesystem entry for Stat.Type.
type FileType int

const (
	TypeUnknown FileType = iota
	TypeRegular
	TypeDirectory
	TypeSymlink
	TypeBlockDevice
	TypeCharDevice
	TypeFifo
	TypeSocket
	TypeReparsePoint
)

// Stat is a read-only metadata extractor over a Handle (spec.md section
// 4.7). Only fields requested via the StatWant passed to Fill are
// populated; the rest retain their zero value.
type Stat struct {
	Dev          DeviceID
	Ino          Inode
	Type         FileType
	Nlink        uint64
	Atim         time.Time
	Mtim         time.Time
	Ctim         time.Time
	Birthtim     time.Time
	Size         uint64
	Allocated    uint64
	Blocks       uint64
	Blksize      uint64
	Sparse       bool
	Compressed   bool
	ReparsePoint bool
}

// Fill populates the fields of s selected by wants from h's underlying
// NativeHandle, preferring a single syscall when two or more fields are
// requested (spec.md section 4.7). It returns the number of fields
// populated.
func (s *Stat) Fill(h *Handle, wants StatWant) (int, error) {
	return fillStatNative(h.Native(), wants, s)
}
