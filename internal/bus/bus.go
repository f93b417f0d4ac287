package bus

import (
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

// Bus is an in-process publish/subscribe event bus. Subscribers filter by
// kind prefix. Delivery never blocks: an event for a full subscriber is
// dropped and counted. A nil *Bus drops everything.
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]*subscription
	next    int
	dropped atomic.Uint64
}

type subscription struct {
	prefixes []string
	ch       chan Event
}

func (s *subscription) wants(kind string) bool {
	return slices.ContainsFunc(s.prefixes, func(p string) bool {
		return strings.HasPrefix(kind, p)
	})
}

func New() *Bus {
	return &Bus{subs: make(map[int]*subscription)}
}

// Publish hands evt to every subscriber with a matching prefix.
func (b *Bus) Publish(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !sub.wants(evt.Kind) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe is SubscribeMany with a single prefix.
func (b *Bus) Subscribe(prefix string, bufSize int) (<-chan Event, func()) {
	return b.SubscribeMany(bufSize, prefix)
}

// SubscribeMany returns one channel receiving every event whose kind
// starts with any of the prefixes, each event at most once. The returned
// cancel func may be called more than once.
func (b *Bus) SubscribeMany(bufSize int, prefixes ...string) (<-chan Event, func()) {
	sub := &subscription{prefixes: prefixes, ch: make(chan Event, bufSize)}
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = sub
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Dropped reports how many deliveries were skipped for full subscribers.
func (b *Bus) Dropped() uint64 {
	if b == nil {
		return 0
	}
	return b.dropped.Load()
}
