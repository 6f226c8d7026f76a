package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/pkg/config"
	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate/topic/payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	Topic          string
	PayloadFactory func() interface{}
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    interface{}
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the dispatcher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

// Error implements error.
func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

// Unwrap exposes the wrapped error.
func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewEventRegistry routes every inventory event to the configured topic.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	if cfg.InventoryTopic == "" {
		return nil, fmt.Errorf("inventory topic is required")
	}
	topic := cfg.InventoryTopic

	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	procurementEvent := func() interface{} { return &payloads.ProcurementEvent{} }
	deploymentEvent := func() interface{} { return &payloads.DeploymentEvent{} }
	partEvent := func() interface{} { return &payloads.PartStateChangedEvent{} }

	for _, eventType := range []enums.OutboxEventType{
		enums.EventProcurementCreated,
		enums.EventProcurementUpdated,
		enums.EventProcurementSoftDeleted,
		enums.EventProcurementHardDeleted,
		enums.EventProcurementRestored,
	} {
		reg.register(EventDescriptor{EventType: eventType, AggregateType: enums.AggregateProcurement, Topic: topic, PayloadFactory: procurementEvent})
	}
	for _, eventType := range []enums.OutboxEventType{
		enums.EventDeploymentCreated,
		enums.EventDeploymentUpdated,
		enums.EventDeploymentSoftDeleted,
		enums.EventDeploymentHardDeleted,
		enums.EventDeploymentRestored,
	} {
		reg.register(EventDescriptor{EventType: eventType, AggregateType: enums.AggregateDeployment, Topic: topic, PayloadFactory: deploymentEvent})
	}
	reg.register(EventDescriptor{EventType: enums.EventPartDeactivated, AggregateType: enums.AggregatePart, Topic: topic, PayloadFactory: partEvent})
	reg.register(EventDescriptor{EventType: enums.EventPartReactivated, AggregateType: enums.AggregatePart, Topic: topic, PayloadFactory: partEvent})
	reg.register(EventDescriptor{
		EventType:      enums.EventStockDriftDetected,
		AggregateType:  enums.AggregatePart,
		Topic:          topic,
		PayloadFactory: func() interface{} { return &payloads.StockDriftDetectedEvent{} },
	})

	return reg, nil
}

func (r *EventRegistry) register(desc EventDescriptor) {
	if desc.PayloadFactory == nil {
		return
	}
	r.entries[desc.EventType] = desc
}

// Descriptor returns the registered descriptor for eventType.
func (r *EventRegistry) Descriptor(eventType enums.OutboxEventType) (EventDescriptor, bool) {
	desc, ok := r.entries[eventType]
	return desc, ok
}

// Resolve validates the row and decodes its typed payload.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("unsupported event type %s", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType))
	}
	if event.AggregateID == uuid.Nil {
		return nil, NewNonRetryableError(fmt.Errorf("missing aggregate_id"))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}

	trimmed := bytes.TrimSpace(envelope.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewNonRetryableError(fmt.Errorf("payload missing for %s", event.EventType))
	}

	payload := desc.PayloadFactory()
	if err := json.Unmarshal(envelope.Data, payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
	}, nil
}

// NewNonRetryableError wraps an error to signal no retries.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}
