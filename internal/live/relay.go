package live

import (
	"context"
	"encoding/json"
	"time"

	"hospital-portal/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// Projector computes the current view served on a topic.
type Projector interface {
	Project(ctx context.Context, topic string) (interface{}, error)
}

// Relay consumes changes and refreshes every affected topic that has clients.
type Relay struct {
	subscriber Subscriber
	hub        *Hub
	projector  Projector
	log        *logrus.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewRelay(subscriber Subscriber, hub *Hub, projector Projector, log *logrus.Logger, m *metrics.Metrics) *Relay {
	return &Relay{
		subscriber: subscriber,
		hub:        hub,
		projector:  projector,
		log:        log,
		metrics:    m,
		now:        time.Now,
	}
}

// Run blocks until ctx is cancelled or the change feed closes.
func (r *Relay) Run(ctx context.Context) error {
	changes, err := r.subscriber.Subscribe(ctx)
	if err != nil {
		return err
	}

	r.log.Info("Live relay started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			r.metrics.ChangesReceived.Inc()
			r.Refresh(ctx, change.Topics()...)
		}
	}
}

// Refresh recomputes and pushes the view of each topic that has listeners.
func (r *Relay) Refresh(ctx context.Context, topics ...string) {
	for _, topic := range topics {
		if r.hub.TopicCount(topic) == 0 {
			continue
		}
		msg, err := r.View(ctx, topic)
		if err != nil {
			r.log.WithField("topic", topic).Warnf("Failed to project live view: %+v", err)
			continue
		}
		r.hub.Broadcast(topic, *msg)
	}
}

// View builds the message carrying the current view of topic.
func (r *Relay) View(ctx context.Context, topic string) (*Message, error) {
	view, err := r.projector.Project(ctx, topic)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      MessageTypeView,
		Topic:     topic,
		Timestamp: r.now().UTC(),
		Data:      data,
	}, nil
}
