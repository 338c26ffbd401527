package llio

import (
	"testing"

	. "github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
)

func TestIoService(t *testing.T) { RunTests(t) }

type IoServiceTest struct {
	svc *IoService
	fh  *AsyncFileHandle
}

func init() { RegisterTestSuite(&IoServiceTest{}) }

func (t *IoServiceTest) SetUp(ti *TestInfo) {
	var err error
	t.svc, err = NewIoService()
	AssertEq(nil, err)

	t.fh, err = AsyncTempFile(t.svc, "", ModeWrite, CreationIfNeeded, CachingAll, 0)
	AssertEq(nil, err)
}

func (t *IoServiceTest) TearDown() {
	t.fh.Close()
	t.svc.Close()
}

func (t *IoServiceTest) RunTimesOutWhenNothingIsPending() {
	AssertEq(0, t.svc.pendingCount())
	err := t.svc.Run(DeadlineImmediate)
	AssertNe(nil, err)
	ExpectTrue(IsKind(err, KindTimedOut))
}

func (t *IoServiceTest) RunUntilEmptyDrainsASingleSubmission() {
	payload := []byte("hello")
	var settled bool
	state, err := t.fh.AsyncWrite(
		IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: payload}}},
		func(f *AsyncFileHandle, res IoResult[ConstBuffer]) {
			settled = true
			AssertEq(nil, res.Err)
		})
	AssertEq(nil, err)
	AssertNe(nil, state)

	AssertEq(nil, t.svc.RunUntilEmpty())
	ExpectTrue(settled)
	ExpectEq(0, t.svc.pendingCount())

	AssertEq(nil, state.Close())
}

func (t *IoServiceTest) CancelMarksResultCanceledWhenItWinsTheRace() {
	payload := make([]byte, 16)
	var gotErr error
	state, err := t.fh.AsyncRead(
		IoRequest[Buffer]{Buffers: []Buffer{{Data: payload}}},
		func(f *AsyncFileHandle, res IoResult[Buffer]) {
			gotErr = res.Err
		})
	AssertEq(nil, err)

	// The completion is only dispatched by a goroutine calling Run, per
	// spec.md section 4.6; a real caller always has one running
	// concurrently with Cancel, so drive one here too.
	drained := make(chan struct{})
	go func() {
		t.svc.RunUntilEmpty()
		close(drained)
	}()

	// Cancel races the background goroutine performing the read; either the
	// read already completed naturally (gotErr is nil) or Cancel won the
	// race and the completion is tagged canceled. Both are legal outcomes
	// per spec.md section 4.5; Cancel must not leave the state permanently
	// pending either way.
	AssertEq(nil, state.Cancel())
	<-drained
	if gotErr != nil {
		ExpectTrue(IsKind(gotErr, KindOperationCanceled))
	}
}

func (t *IoServiceTest) CloseOnAnAlreadySettledStateIsIdempotent() {
	state, err := t.fh.AsyncWrite(
		IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: []byte("x")}}},
		nil)
	AssertEq(nil, err)

	AssertEq(nil, t.svc.RunUntilEmpty())
	AssertEq(nil, state.Close())
	ExpectEq(nil, state.Close())
}
