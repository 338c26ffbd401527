package llio

import (
	"fmt"
	"runtime"

	"github.com/jacobsa/syncutil"
)

// Handle exclusively owns a NativeHandle plus its caching policy and open
// flags (spec.md section 3). It is move-only in spirit: Go cannot enforce
// that statically, so Handle is always used through a pointer and callers
// must not copy the pointee; Close is idempotent and a finalizer stands in
// for "destructor" semantics for handles a caller forgets to close.
type Handle struct {
	mu syncutil.InvariantMutex

	native  NativeHandle // GUARDED_BY(mu)
	closed  bool         // GUARDED_BY(mu)
	caching Caching
	flags   Flag
}

func (h *Handle) checkInvariants() {
	if h.closed && h.native.Valid() {
		panic("llio.Handle: closed is true but native handle is still valid")
	}
	if !h.closed && !h.native.Valid() {
		panic("llio.Handle: closed is false but native handle is invalid")
	}
}

// newHandle wraps an already-open NativeHandle, taking ownership of it.
func newHandle(native NativeHandle, caching Caching, flags Flag) *Handle {
	h := &Handle{native: native, caching: caching, flags: flags}
	h.mu = syncutil.NewInvariantMutex(h.checkInvariants)
	runtime.SetFinalizer(h, finalizeHandle)
	return h
}

// finalizeHandle stands in for Handle's destructor: if the caller let a
// still-open Handle become unreachable without calling Close, attempt the
// close now. Per spec.md section 5 ("a failed release aborts the process
// because no safe recovery exists"), a failure here is fatal.
func finalizeHandle(h *Handle) {
	h.mu.Lock()
	closed := h.closed
	native := h.native
	h.closed = true
	h.native = NativeHandle{fd: invalidFD}
	h.mu.Unlock()

	if closed {
		return
	}

	if err := closeNative(native); err != nil {
		panic(fmt.Sprintf("llio: fatal: handle finalized while open and close failed: %v", err))
	}
}

// Native returns the wrapped NativeHandle. Valid until Close is called.
func (h *Handle) Native() NativeHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.native
}

// Caching returns the handle's caching policy.
func (h *Handle) Caching() Caching { return h.caching }

// Flags returns the handle's open flags.
func (h *Handle) Flags() Flag { return h.flags }

// Close releases the underlying kernel handle. Closing an already-closed
// Handle is a no-op (spec.md section 4.1: "Close. Idempotent"). When the
// caching policy calls for it and the safety-fsync flag is not disabled,
// Close flushes before releasing the descriptor.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	if h.caching == CachingSafetyFsync && !h.flags.Has(FlagDisableSafetyFsyncs) {
		if err := fsyncNative(h.native); err != nil {
			return err
		}
	}

	if err := closeNative(h.native); err != nil {
		return err
	}

	h.closed = true
	h.native = NativeHandle{fd: invalidFD}
	runtime.SetFinalizer(h, nil)
	return nil
}

// Clone duplicates the kernel handle, producing a new Handle with
// identical capability bits (spec.md section 4.1).
func (h *Handle) Clone() (*Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, errLibrary("clone", KindInvalidArgument, "handle already closed")
	}

	dup, err := cloneNative(h.native)
	if err != nil {
		return nil, err
	}
	return newHandle(dup, h.caching, h.flags), nil
}
