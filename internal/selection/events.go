package selection

import "time"

// EventType enumerates selection store changes.
type EventType string

const (
	EventSaved   EventType = "saved"
	EventRenamed EventType = "renamed"
	EventDeleted EventType = "deleted"
)

// Event describes one change to the store. Views subscribe instead of
// threading change callbacks through every component.
type Event struct {
	Type      EventType `json:"type"`
	Name      string    `json:"name"`
	OldName   string    `json:"old_name,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Subscribe registers a listener channel for store changes. The channel is
// buffered; slow consumers drop events rather than blocking a mutation.
func (s *Store) Subscribe() chan Event {
	ch := make(chan Event, 16)
	s.subsMu.Lock()
	s.subscribers[ch] = true
	s.subsMu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (s *Store) Unsubscribe(ch chan Event) {
	s.subsMu.Lock()
	if s.subscribers[ch] {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.subsMu.Unlock()
}

func (s *Store) notify(event Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber buffer full, skip
		}
	}
}
