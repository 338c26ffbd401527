package llio

// Mode selects what access a File open requests, per spec.md section 4.1.
type Mode int

const (
	ModeNone Mode = iota
	ModeAttrRead
	ModeAttrWrite
	ModeRead
	ModeWrite
	ModeAppend
)

func (m Mode) String() string {
	switch m {
	case ModeAttrRead:
		return "attr_read"
	case ModeAttrWrite:
		return "attr_write"
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeAppend:
		return "append"
	default:
		return "none"
	}
}

// Creation selects how File resolves an existing (or missing) path.
type Creation int

const (
	CreationOpenExisting Creation = iota
	CreationOnlyIfNotExist
	CreationIfNeeded
	CreationTruncate
)

func (c Creation) String() string {
	switch c {
	case CreationOnlyIfNotExist:
		return "only_if_not_exist"
	case CreationIfNeeded:
		return "if_needed"
	case CreationTruncate:
		return "truncate"
	default:
		return "open_existing"
	}
}

// Caching selects the handle's caching policy.
type Caching int

const (
	CachingNone Caching = iota
	CachingOnlyMetadata
	CachingReads
	CachingAll
	CachingSafetyFsync
	CachingTemporary
)

func (c Caching) String() string {
	switch c {
	case CachingOnlyMetadata:
		return "only_metadata"
	case CachingReads:
		return "reads"
	case CachingAll:
		return "all"
	case CachingSafetyFsync:
		return "safety_fsync"
	case CachingTemporary:
		return "temporary"
	default:
		return "none"
	}
}

// Flag is a bit set of handle-open options, per spec.md section 3.
type Flag uint32

const (
	FlagUnlinkOnClose Flag = 1 << iota
	FlagDisableSafetyFsyncs
	FlagOverlapped
	FlagByteLockInsanity
)

func (f Flag) Has(bit Flag) bool { return f&bit != 0 }
