// Package queue fans change events out to live listeners.
package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

const (
	channelBuffer    = 256
	subscriberBuffer = 32
)

// Broadcaster delivers every published event to every current subscriber, in
// publish order. A subscriber that falls behind loses events rather than
// stalling the others.
type Broadcaster[E any] struct {
	in   chan E
	log  zerolog.Logger
	mu   sync.Mutex
	subs map[int]chan E
	next int
}

func NewBroadcaster[E any](log zerolog.Logger) *Broadcaster[E] {
	return &Broadcaster[E]{
		in:   make(chan E, channelBuffer),
		log:  log,
		subs: make(map[int]chan E),
	}
}

// Start runs the fan-out loop until ctx is cancelled, then closes every
// subscriber channel.
func (b *Broadcaster[E]) Start(ctx context.Context) {
	go func() {
		defer b.closeAll()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-b.in:
				b.fanOut(ev)
			}
		}
	}()
}

// Publish enqueues ev. It drops the event when the queue is full.
func (b *Broadcaster[E]) Publish(ev E) {
	select {
	case b.in <- ev:
	default:
		b.log.Warn().Msg("change queue full, dropping event")
	}
}

// Subscribe registers a listener. The returned func unregisters it and must
// be called once the listener is done.
func (b *Broadcaster[E]) Subscribe() (<-chan E, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan E, subscriberBuffer)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

func (b *Broadcaster[E]) fanOut(ev E) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.log.Warn().Int("subscriber", id).Msg("subscriber too slow, dropping event")
		}
	}
}

func (b *Broadcaster[E]) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
