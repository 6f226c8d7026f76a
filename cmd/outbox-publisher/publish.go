package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox/registry"
	"github.com/google/uuid"
)

type publisherFactory func(topic string) publisher

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
	// Resume lets an ordering key publish again after a failure paused it.
	Resume(orderingKey string)
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// errUnroutable marks an event whose topic has no publisher.
type errUnroutable struct{ topic string }

func (e errUnroutable) Error() string {
	return fmt.Sprintf("no publisher for topic %s", e.topic)
}

// route is where one event goes and which stock it touches.
type route struct {
	topic       string
	orderingKey string
	partIDs     []uuid.UUID
	stockMoved  bool
}

func (r route) partList() string {
	ids := make([]string, len(r.partIDs))
	for i, id := range r.partIDs {
		ids[i] = id.String()
	}
	return strings.Join(ids, ",")
}

// routeFor keys an event by the single part it moves, so subscribers see that
// part's movements in commit order. Events touching several parts, or none,
// are keyed by their aggregate.
func routeFor(event models.OutboxEvent, resolved *registry.ResolvedEvent) route {
	rt := route{topic: resolved.Descriptor.Topic}
	seen := make(map[uuid.UUID]struct{})
	add := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			rt.partIDs = append(rt.partIDs, id)
		}
	}

	switch p := resolved.Payload.(type) {
	case *payloads.ProcurementEvent:
		add(p.PartID)
		if p.PreviousPartID != nil {
			add(*p.PreviousPartID)
		}
		rt.stockMoved = p.QtyDelta != 0 || len(rt.partIDs) > 1
	case *payloads.DeploymentEvent:
		for _, line := range p.Lines {
			add(line.PartID)
		}
		for id, delta := range p.QtyChanges {
			add(id)
			rt.stockMoved = rt.stockMoved || delta != 0
		}
	case *payloads.PartStateChangedEvent:
		add(p.PartID)
	case *payloads.StockDriftDetectedEvent:
		add(p.PartID)
		rt.stockMoved = p.Repaired
	}
	sort.Slice(rt.partIDs, func(i, j int) bool {
		return rt.partIDs[i].String() < rt.partIDs[j].String()
	})

	if len(rt.partIDs) == 1 {
		rt.orderingKey = "part:" + rt.partIDs[0].String()
	} else {
		rt.orderingKey = string(event.AggregateType) + ":" + event.AggregateID.String()
	}
	return rt
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent, resolved *registry.ResolvedEvent, rt route) error {
	pub := s.publishers(rt.topic)
	if pub == nil {
		return errUnroutable{topic: rt.topic}
	}

	attrs := map[string]string{
		"event_id":       resolved.Envelope.EventID,
		"event_type":     string(event.EventType),
		"aggregate_type": string(event.AggregateType),
		"aggregate_id":   event.AggregateID.String(),
		"created_at":     event.CreatedAt.Format(time.RFC3339Nano),
		"stock_moved":    fmt.Sprintf("%t", rt.stockMoved),
	}
	if len(rt.partIDs) > 0 {
		attrs["part_ids"] = rt.partList()
	}
	if resolved.Envelope.Actor != nil {
		attrs["actor_user_id"] = resolved.Envelope.Actor.UserID.String()
	}

	publishCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
	defer cancel()
	result := pub.Publish(publishCtx, &gcppubsub.Message{
		Data:        event.Payload,
		Attributes:  attrs,
		OrderingKey: rt.orderingKey,
	})
	if result == nil {
		return registry.NewNonRetryableError(fmt.Errorf("publisher returned nil for topic %s", rt.topic))
	}
	if _, err := result.Get(publishCtx); err != nil {
		pub.Resume(rt.orderingKey)
		return err
	}
	return nil
}

// topicPublishers keeps one ordered publisher per topic for the life of the
// process.
type topicPublishers struct {
	client pubSubClient

	mu      sync.Mutex
	byTopic map[string]*gcppubsub.Publisher
}

func newTopicPublishers(client pubSubClient) *topicPublishers {
	return &topicPublishers{client: client, byTopic: make(map[string]*gcppubsub.Publisher)}
}

func (t *topicPublishers) get(topic string) publisher {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.byTopic[topic]
	if !ok {
		p = t.client.Publisher(topic)
		if p == nil {
			return nil
		}
		p.EnableMessageOrdering = true
		t.byTopic[topic] = p
	}
	return gcpPublisher{p}
}

// stop flushes and releases every cached publisher.
func (t *topicPublishers) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for topic, p := range t.byTopic {
		p.Stop()
		delete(t.byTopic, topic)
	}
}

type gcpPublisher struct {
	p *gcppubsub.Publisher
}

func (g gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return gcpPublishResult{g.p.Publish(ctx, msg)}
}

func (g gcpPublisher) Resume(orderingKey string) {
	if orderingKey != "" {
		g.p.ResumePublish(orderingKey)
	}
}

type gcpPublishResult struct {
	r *gcppubsub.PublishResult
}

func (g gcpPublishResult) Get(ctx context.Context) (string, error) {
	if g.r == nil {
		return "", errors.New("publish result is nil")
	}
	return g.r.Get(ctx)
}
