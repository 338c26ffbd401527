package llio

import (
	"context"
	"sync"

	"github.com/jacobsa/reqtrace"
	"github.com/jacobsa/timeutil"
)

// IoService drains per-platform completion sources and dispatches
// completions on the thread that calls Run (spec.md section 4.6). It is
// neither a thread pool nor a reactor for sockets; its sole role is
// draining file-I/O completions. Exactly one goroutine may call Run (or
// RunUntilEmpty) at a time; nothing here enforces that beyond the pending
// map's own mutex, mirroring connection.go's single-reader assumption.
type IoService struct {
	mu      sync.Mutex
	pending map[uint64]*ioStateCore // GUARDED_BY(mu)
	nextID  uint64                  // GUARDED_BY(mu)
	clock   timeutil.Clock

	platform ioServicePlatform
}

// NewIoService constructs an IoService bound to the real clock.
func NewIoService() (*IoService, error) {
	s := &IoService{pending: make(map[uint64]*ioStateCore), clock: realClock}
	if err := initServicePlatform(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *IoService) register(c *ioStateCore) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.id = s.nextID
	s.pending[c.id] = c
	return c.id
}

func (s *IoService) unregister(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

func (s *IoService) pendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Run drains exactly one completion, blocking up to deadline, and
// dispatches its callback on the calling goroutine (spec.md section 4.6).
// A Deadline that expires before any completion arrives returns
// KindTimedOut.
func (s *IoService) Run(deadline Deadline) error {
	_, report := reqtrace.StartSpan(context.Background(), "llio.IoService.Run")
	err := runServicePlatform(s, deadline)
	report(err)
	return err
}

// RunUntilEmpty drains completions until no submissions remain pending.
func (s *IoService) RunUntilEmpty() error {
	for s.pendingCount() > 0 {
		if err := s.Run(DeadlineNone); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the service's platform completion source (the I/O
// completion port on Windows; a no-op on POSIX, which uses plain
// goroutines and channels rather than a kernel object).
func (s *IoService) Close() error {
	return closeServicePlatform(s)
}
