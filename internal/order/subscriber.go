package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/misterg2020/bistro-chat-connect/pkg/event"
)

// BoardRefresher is notified whenever the order collection changes so it
// can re-read it. The kitchen board cache implements it.
type BoardRefresher interface {
	Refresh(ctx context.Context) error
}

// EventSubscriber consumes order events from the broker, refreshes the
// kitchen board and rebroadcasts each event to connected SSE clients.
type EventSubscriber struct {
	subscriber events.Subscriber
	stream     *EventStream
	board      BoardRefresher
	logger     apt.Logger
}

func NewEventSubscriber(subscriber events.Subscriber, stream *EventStream, board BoardRefresher, logger apt.Logger) *EventSubscriber {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &EventSubscriber{
		subscriber: subscriber,
		stream:     stream,
		board:      board,
		logger:     logger,
	}
}

func (s *EventSubscriber) Start(ctx context.Context) error {
	s.logger.Info("Starting order EventSubscriber for topic: " + event.OrdersTopic)

	if err := s.subscriber.Subscribe(ctx, event.OrdersTopic, s.handleEvent); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", event.OrdersTopic, err)
	}

	s.logger.Info("Order EventSubscriber started successfully")
	return nil
}

func (s *EventSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Errorf("Failed to unmarshal order event: %v", err)
		return nil
	}

	switch evt.EventType {
	case event.EventOrderCreated, event.EventOrderStatusChanged, event.EventOrdersCleared:
		// Any change triggers a full board refresh. Cheap at expected
		// order volumes and immune to missed increments.
		if s.board != nil {
			if err := s.board.Refresh(ctx); err != nil {
				s.logger.Errorf("Failed to refresh kitchen board: %v", err)
			}
		}
		s.stream.Broadcast(evt)
	default:
		s.logger.Infof("Unknown event type: %s", evt.EventType)
	}

	return nil
}
