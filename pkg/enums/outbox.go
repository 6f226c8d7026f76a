package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregatePart        OutboxAggregateType = "part"
	AggregateProcurement OutboxAggregateType = "procurement"
	AggregateDeployment  OutboxAggregateType = "deployment"
	AggregateReconcile   OutboxAggregateType = "reconciliation_run"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregatePart,
	AggregateProcurement,
	AggregateDeployment,
	AggregateReconcile,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventProcurementCreated     OutboxEventType = "procurement_created"
	EventProcurementUpdated     OutboxEventType = "procurement_updated"
	EventProcurementSoftDeleted OutboxEventType = "procurement_soft_deleted"
	EventProcurementHardDeleted OutboxEventType = "procurement_hard_deleted"
	EventProcurementRestored    OutboxEventType = "procurement_restored"
	EventDeploymentCreated      OutboxEventType = "deployment_created"
	EventDeploymentUpdated      OutboxEventType = "deployment_updated"
	EventDeploymentSoftDeleted  OutboxEventType = "deployment_soft_deleted"
	EventDeploymentHardDeleted  OutboxEventType = "deployment_hard_deleted"
	EventDeploymentRestored     OutboxEventType = "deployment_restored"
	EventPartDeactivated        OutboxEventType = "part_deactivated"
	EventPartReactivated        OutboxEventType = "part_reactivated"
	EventStockDriftDetected     OutboxEventType = "stock_drift_detected"
)

var validOutboxEventTypes = []OutboxEventType{
	EventProcurementCreated,
	EventProcurementUpdated,
	EventProcurementSoftDeleted,
	EventProcurementHardDeleted,
	EventProcurementRestored,
	EventDeploymentCreated,
	EventDeploymentUpdated,
	EventDeploymentSoftDeleted,
	EventDeploymentHardDeleted,
	EventDeploymentRestored,
	EventPartDeactivated,
	EventPartReactivated,
	EventStockDriftDetected,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// AllOutboxEventTypes returns every supported event type in declaration order.
func AllOutboxEventTypes() []OutboxEventType {
	out := make([]OutboxEventType, len(validOutboxEventTypes))
	copy(out, validOutboxEventTypes)
	return out
}
