package host

import (
	"context"
	"testing"
	"time"
)

func TestRandomInclusiveBounds(t *testing.T) {
	h := NewNullHost(nil, 1)
	for i := 0; i < 200; i++ {
		v := h.Random(3, 7)
		if v < 3 || v > 7 {
			t.Fatalf("Random(3,7) out of bounds: %d", v)
		}
	}
}

func TestRandomHandlesReversedBounds(t *testing.T) {
	h := NewNullHost(nil, 1)
	v := h.Random(7, 3)
	if v < 3 || v > 7 {
		t.Fatalf("Random(7,3) out of bounds: %d", v)
	}
}

func TestSignalRoundTrip(t *testing.T) {
	h := NewNullHost(nil, 1)
	h.SetSignal(Signal{Code: 42})
	if got := h.ReadSignal().Code; got != 42 {
		t.Errorf("ReadSignal().Code = %d want 42", got)
	}
}

func TestSleepHonorsContextCancellation(t *testing.T) {
	h := NewNullHost(nil, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Sleep(ctx, 60_000)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Sleep did not honor context cancellation")
	}
}

func TestSleepZeroReturnsImmediately(t *testing.T) {
	h := NewNullHost(nil, 1)
	start := time.Now()
	h.Sleep(context.Background(), 0)
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("Sleep(0) took too long: %v", time.Since(start))
	}
}
