package payloads

import (
	"time"

	"github.com/google/uuid"
)

// PartStateChangedEvent is emitted when a part is deactivated or reactivated.
type PartStateChangedEvent struct {
	PartID    uuid.UUID `json:"part_id"`
	PartName  string    `json:"part_name"`
	BrandName string    `json:"brand_name"`
	QtyLeft   int       `json:"qty_left"`
	Reason    string    `json:"reason"`
}

// ProcurementEvent covers every procurement lifecycle transition.
type ProcurementEvent struct {
	ProcurementID  uuid.UUID  `json:"procurement_id"`
	Seq            int        `json:"seq"`
	PartID         uuid.UUID  `json:"part_id"`
	PreviousPartID *uuid.UUID `json:"previous_part_id,omitempty"`
	QuantityBought int        `json:"quantity_bought"`
	QtyDelta       int        `json:"qty_delta"`
	Deleted        bool       `json:"deleted"`
}

// DeploymentLine is one part usage inside a deployment event.
type DeploymentLine struct {
	PartID       uuid.UUID `json:"part_id"`
	QuantityUsed int       `json:"quantity_used"`
}

// DeploymentEvent covers every deployment lifecycle transition.
type DeploymentEvent struct {
	DeploymentID uuid.UUID         `json:"deployment_id"`
	Seq          int               `json:"seq"`
	TrackCode    string            `json:"track_code"`
	RepairStatus string            `json:"repair_status"`
	Lines        []DeploymentLine  `json:"lines"`
	QtyChanges   map[uuid.UUID]int `json:"qty_changes,omitempty"`
	Deleted      bool              `json:"deleted"`
}

// StockDriftDetectedEvent is emitted per part by reconciliation.
type StockDriftDetectedEvent struct {
	RunID       uuid.UUID `json:"run_id"`
	PartID      uuid.UUID `json:"part_id"`
	ExpectedQty int       `json:"expected_qty"`
	RecordedQty int       `json:"recorded_qty"`
	Repaired    bool      `json:"repaired"`
	DetectedAt  time.Time `json:"detected_at"`
}
