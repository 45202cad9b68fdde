package order

import (
	"sync"

	"github.com/appetiteclub/apt"
	"github.com/misterg2020/bistro-chat-connect/pkg/event"
)

const streamBufferSize = 100

// EventStream fans order events out to in-process subscribers, one
// buffered channel per active SSE connection. Slow consumers lose
// events instead of blocking the broadcast; they can refetch state.
type EventStream struct {
	mu          sync.RWMutex
	subscribers map[string]chan event.OrderEvent
	logger      apt.Logger
}

func NewEventStream(logger apt.Logger) *EventStream {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &EventStream{
		subscribers: make(map[string]chan event.OrderEvent),
		logger:      logger,
	}
}

// Subscribe registers a consumer and returns its channel.
func (s *EventStream) Subscribe(id string) <-chan event.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan event.OrderEvent, streamBufferSize)
	s.subscribers[id] = ch
	s.logger.Debug("stream subscriber added", "id", id, "total", len(s.subscribers))
	return ch
}

// Unsubscribe removes a consumer and closes its channel.
func (s *EventStream) Unsubscribe(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subscribers[id]; ok {
		close(ch)
		delete(s.subscribers, id)
		s.logger.Debug("stream subscriber removed", "id", id, "total", len(s.subscribers))
	}
}

// Broadcast delivers an event to every subscriber without blocking.
func (s *EventStream) Broadcast(evt event.OrderEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- evt:
		default:
			s.logger.Debug("stream subscriber buffer full, dropping event", "id", id, "event", evt.EventType)
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (s *EventStream) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
