package llio

import (
	"sync"
	"testing"
)

func TestAsyncReadScatterAcrossThreeBuffers(t *testing.T) {
	svc, err := NewIoService()
	if err != nil {
		t.Fatalf("NewIoService: %v", err)
	}
	defer svc.Close()

	fh, err := AsyncTempFile(svc, "", ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("AsyncTempFile: %v", err)
	}
	defer fh.Close()

	const total = 2500
	wreq := IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: make([]byte, total)}}}
	if _, err := fh.Write(wreq, DeadlineNone); err != nil {
		t.Fatalf("Write: %v", err)
	}

	bufs := []Buffer{
		{Data: make([]byte, 1024)},
		{Data: make([]byte, 1024)},
		{Data: make([]byte, 1024)},
	}
	var (
		mu   sync.Mutex
		done bool
		got  IoResult[Buffer]
	)
	_, err = fh.AsyncRead(IoRequest[Buffer]{Buffers: bufs}, func(_ *AsyncFileHandle, res IoResult[Buffer]) {
		mu.Lock()
		got = res
		done = true
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("AsyncRead: %v", err)
	}

	for {
		mu.Lock()
		finished := done
		mu.Unlock()
		if finished {
			break
		}
		if err := svc.Run(DeadlineNone); err != nil {
			t.Fatalf("Run: %v", err)
		}
	}

	if got.Err != nil {
		t.Fatalf("result err = %v", got.Err)
	}
	want := []int{1024, 1024, 452}
	for i, w := range want {
		if n := got.Buffers[i].Len(); n != w {
			t.Errorf("Buffers[%d].Len() = %d, want %d", i, n, w)
		}
	}
}

func TestAsyncWriteCloseBlocksUntilSettled(t *testing.T) {
	svc, err := NewIoService()
	if err != nil {
		t.Fatalf("NewIoService: %v", err)
	}
	defer svc.Close()

	fh, err := AsyncTempFile(svc, "", ModeWrite, CreationIfNeeded, CachingAll, 0)
	if err != nil {
		t.Fatalf("AsyncTempFile: %v", err)
	}
	defer fh.Close()

	payload := make([]byte, 8192)
	for i := range payload {
		payload[i] = byte(i)
	}
	state, err := fh.AsyncWrite(IoRequest[ConstBuffer]{Buffers: []ConstBuffer{{Data: payload}}}, nil)
	if err != nil {
		t.Fatalf("AsyncWrite: %v", err)
	}

	go func() {
		_ = svc.RunUntilEmpty()
	}()

	if err := state.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	length, err := fh.Length()
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	if length != uint64(len(payload)) {
		t.Errorf("Length() = %d, want %d", length, len(payload))
	}
}
