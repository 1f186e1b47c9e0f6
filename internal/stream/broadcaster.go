// Package stream fans the mixed master signal out to whatever transports
// are listening: WebRTC peers, chunked MP3 connections, the local speaker.
package stream

import (
	"context"
	"sync"
	"sync/atomic"
)

// listenerBuffer holds ~3 seconds of 20ms frames per listener.
const listenerBuffer = 150

// Broadcaster fans out PCM frames from the mixer to N listeners.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[*Listener]struct{}
	dropped   atomic.Uint64
}

// Listener receives mixed PCM frames from the broadcaster.
type Listener struct {
	C    chan []int16
	done chan struct{}
}

// Done is closed when the listener has been unsubscribed.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		listeners: make(map[*Listener]struct{}),
	}
}

// Subscribe registers a new listener.
func (b *Broadcaster) Subscribe() *Listener {
	l := &Listener{
		C:    make(chan []int16, listenerBuffer),
		done: make(chan struct{}),
	}
	b.mu.Lock()
	b.listeners[l] = struct{}{}
	b.mu.Unlock()
	return l
}

// Unsubscribe removes a listener and signals it to stop.
func (b *Broadcaster) Unsubscribe(l *Listener) {
	b.mu.Lock()
	_, present := b.listeners[l]
	delete(b.listeners, l)
	b.mu.Unlock()
	if present {
		close(l.done)
	}
}

// ListenerCount returns the number of active listeners.
func (b *Broadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// DroppedFrames returns the total frames dropped across all listeners
// since startup.
func (b *Broadcaster) DroppedFrames() uint64 {
	return b.dropped.Load()
}

// Run reads frames from source and fans them out until the context ends
// or the source closes. A listener that falls behind loses frames rather
// than stalling the broadcast.
func (b *Broadcaster) Run(ctx context.Context, source <-chan []int16) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-source:
			if !ok {
				return
			}
			b.mu.RLock()
			for l := range b.listeners {
				select {
				case l.C <- frame:
				default:
					b.dropped.Add(1)
				}
			}
			b.mu.RUnlock()
		}
	}
}
