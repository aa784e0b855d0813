package history

import "sync"

// Bus provides in-memory pub/sub for live interview events, keyed by room.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan *Event
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan *Event)}
}

// Subscribe creates a channel that receives events for a room.
func (b *Bus) Subscribe(roomID string) chan *Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *Event, 64)
	b.subs[roomID] = append(b.subs[roomID], ch)
	return ch
}

// Unsubscribe removes a channel from the room's subscribers and closes it.
func (b *Bus) Unsubscribe(roomID string, ch chan *Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[roomID]
	for i, s := range subs {
		if s == ch {
			b.subs[roomID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish sends an event to all subscribers for a room.
func (b *Bus) Publish(roomID string, event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[roomID] {
		select {
		case ch <- event:
		default:
			// Drop event if subscriber is too slow.
		}
	}
}
