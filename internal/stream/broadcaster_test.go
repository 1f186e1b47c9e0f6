package stream

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroadcaster()
	if b.ListenerCount() != 0 {
		t.Errorf("Initial ListenerCount = %d, want 0", b.ListenerCount())
	}

	l1 := b.Subscribe()
	l2 := b.Subscribe()
	if b.ListenerCount() != 2 {
		t.Errorf("After 2 subscribes: ListenerCount = %d, want 2", b.ListenerCount())
	}

	b.Unsubscribe(l1)
	if b.ListenerCount() != 1 {
		t.Errorf("After 1 unsubscribe: ListenerCount = %d, want 1", b.ListenerCount())
	}
	b.Unsubscribe(l2)
	if b.ListenerCount() != 0 {
		t.Errorf("After all unsubscribed: ListenerCount = %d, want 0", b.ListenerCount())
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()
	b.Unsubscribe(l)
	b.Unsubscribe(l) // must not panic on double close

	select {
	case <-l.Done():
	default:
		t.Error("Done channel not closed after unsubscribe")
	}
}

func TestBroadcastDelivers(t *testing.T) {
	b := NewBroadcaster()
	l := b.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := make(chan []int16, 10)
	go b.Run(ctx, source)

	frame := []int16{100, 200, 300, 400}
	source <- frame

	select {
	case got := <-l.C:
		if len(got) != len(frame) {
			t.Fatalf("Received frame length %d, want %d", len(got), len(frame))
		}
		for i, v := range got {
			if v != frame[i] {
				t.Errorf("Frame[%d] = %d, want %d", i, v, frame[i])
			}
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for frame")
	}
	b.Unsubscribe(l)
}

func TestBroadcastMultipleListeners(t *testing.T) {
	b := NewBroadcaster()
	listeners := make([]*Listener, 5)
	for i := range listeners {
		listeners[i] = b.Subscribe()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := make(chan []int16, 10)
	go b.Run(ctx, source)

	source <- []int16{42, -42}

	for i, l := range listeners {
		select {
		case got := <-l.C:
			if got[0] != 42 {
				t.Errorf("Listener %d got frame[0]=%d, want 42", i, got[0])
			}
		case <-time.After(time.Second):
			t.Errorf("Listener %d timed out", i)
		}
	}
	for _, l := range listeners {
		b.Unsubscribe(l)
	}
}

func TestBroadcastDropsSlowListener(t *testing.T) {
	b := NewBroadcaster()
	slow := b.Subscribe()
	fast := b.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source := make(chan []int16, 200)
	go b.Run(ctx, source)

	// Overflow the slow listener's buffer without reading from it.
	for i := 0; i < 200; i++ {
		source <- []int16{int16(i)}
	}
	time.Sleep(100 * time.Millisecond)

	fastCount := 0
	for {
		select {
		case <-fast.C:
			fastCount++
			continue
		default:
		}
		break
	}
	slowCount := 0
	for {
		select {
		case <-slow.C:
			slowCount++
			continue
		default:
		}
		break
	}

	if slowCount > listenerBuffer {
		t.Errorf("Slow listener got %d frames, buffer caps at %d", slowCount, listenerBuffer)
	}
	if fastCount == 0 {
		t.Error("Fast listener got 0 frames")
	}
	if b.DroppedFrames() == 0 {
		t.Error("DroppedFrames = 0 after overflowing a listener")
	}

	b.Unsubscribe(slow)
	b.Unsubscribe(fast)
}

func TestBroadcastStopsOnContextCancel(t *testing.T) {
	b := NewBroadcaster()
	ctx, cancel := context.WithCancel(context.Background())
	source := make(chan []int16, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Run(ctx, source)
	}()

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcaster did not stop after context cancel")
	}
}

func TestBroadcastStopsOnSourceClose(t *testing.T) {
	b := NewBroadcaster()
	source := make(chan []int16, 10)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Run(context.Background(), source)
	}()

	close(source)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcaster did not stop after source closed")
	}
}
