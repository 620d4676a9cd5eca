package events

import (
	"context"
	"sync"
)

// Broadcaster fans BuildEvents out to subscribed channels. Slow subscribers
// drop events rather than block the emitter.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Envelope]struct{}
}

// Envelope pairs an event with the name it was emitted under.
type Envelope struct {
	Name  string     `json:"name"`
	Event BuildEvent `json:"event"`
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Envelope]struct{})}
}

// Subscribe registers a buffered channel that receives every emitted event
// until unsubscribe is called.
func (b *Broadcaster) Subscribe() (<-chan Envelope, func()) {
	ch := make(chan Envelope, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	unsubscribe := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish delivers the event to all subscribers without blocking.
func (b *Broadcaster) Publish(name string, evt BuildEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- Envelope{Name: name, Event: evt}:
		default:
		}
	}
}

// Install wires the broadcaster in as the process-wide emitter.
func (b *Broadcaster) Install() {
	SetCustomEmitter(func(ctx context.Context, name string, evt BuildEvent) {
		b.Publish(name, evt)
	})
}
