package llio

import (
	"sync"
	"sync/atomic"

	"github.com/jacobsa/reqtrace"
)

type ioOperation int

const (
	ioOpRead ioOperation = iota
	ioOpWrite
)

// StateHandle is the opaque handle returned by AsyncRead/AsyncWrite
// (spec.md section 4.5). Dropping it blocks until the I/O settles or is
// cancelled; per spec.md section 5, destroying the underlying state while
// work is still in flight is fatal, so Close always waits instead.
type StateHandle interface {
	// Close blocks until the operation completes or is cancelled, then
	// releases the state. It is idempotent.
	Close() error
	// Cancel attempts to cancel the in-flight I/O, then blocks for
	// settlement the same way Close does.
	Cancel() error
}

// ioStateCore is the fields and lifecycle shared by ReadState and
// WriteState (spec.md section 4.5's "I/O state object"). It is not
// generic over the buffer type because only two concrete buffer kinds
// exist; see DESIGN.md for the reasoning.
type ioStateCore struct {
	mu        sync.Mutex
	parent    *AsyncFileHandle
	operation ioOperation
	items     int
	itemsToGo int32 // atomic
	done      chan struct{}
	closed    bool
	cancelled bool
	id        uint64

	cancelFunc func() // platform-specific best-effort cancel
	report     reqtrace.ReportFunc
}

func newIoStateCore(parent *AsyncFileHandle, op ioOperation, items int) ioStateCore {
	return ioStateCore{
		parent:    parent,
		operation: op,
		items:     items,
		itemsToGo: int32(items),
		done:      make(chan struct{}),
	}
}

// settle marks the state as fully complete; it is called exactly once, by
// the goroutine or completion port callback that finished the native
// operation. It must run on the IoService's Run goroutine for the
// completion callback to honor spec.md section 4.6 ("dispatch completions
// on the thread that calls run").
func (c *ioStateCore) settle() {
	atomic.StoreInt32(&c.itemsToGo, 0)
	close(c.done)
}

func (c *ioStateCore) itemsRemaining() int {
	return int(atomic.LoadInt32(&c.itemsToGo))
}

func (c *ioStateCore) wait() {
	<-c.done
}

func (c *ioStateCore) requestCancel() {
	c.mu.Lock()
	already := c.cancelled
	c.cancelled = true
	fn := c.cancelFunc
	c.mu.Unlock()

	if !already && fn != nil {
		fn()
	}
}

// ReadState is the StateHandle returned by AsyncFileHandle.AsyncRead.
type ReadState struct {
	ioStateCore
	request    IoRequest[Buffer]
	result     IoResult[Buffer]
	completion func(*AsyncFileHandle, IoResult[Buffer])
}

var _ StateHandle = (*ReadState)(nil)

// Close blocks until the read settles, per spec.md section 5.
func (s *ReadState) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.wait()
	return nil
}

// Cancel attempts to cancel the in-flight read and then waits for
// settlement, per spec.md section 5.
func (s *ReadState) Cancel() error {
	s.requestCancel()
	s.wait()
	return nil
}

// WriteState is the StateHandle returned by AsyncFileHandle.AsyncWrite.
type WriteState struct {
	ioStateCore
	request    IoRequest[ConstBuffer]
	result     IoResult[ConstBuffer]
	completion func(*AsyncFileHandle, IoResult[ConstBuffer])
}

var _ StateHandle = (*WriteState)(nil)

// Close blocks until the write settles, per spec.md section 5.
func (s *WriteState) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.wait()
	return nil
}

// Cancel attempts to cancel the in-flight write and then waits for
// settlement, per spec.md section 5.
func (s *WriteState) Cancel() error {
	s.requestCancel()
	s.wait()
	return nil
}
