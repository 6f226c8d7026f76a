package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconciliationReport records a part whose stored qty_left disagreed with its active records.
type ReconciliationReport struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	RunID       uuid.UUID `gorm:"column:run_id;type:uuid;not null;index"`
	PartID      uuid.UUID `gorm:"column:part_id;type:uuid;not null;index"`
	ExpectedQty int       `gorm:"column:expected_qty;not null"`
	RecordedQty int       `gorm:"column:recorded_qty;not null"`
	Drift       int       `gorm:"column:drift;not null"`
	Repaired    bool      `gorm:"column:repaired;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (r *ReconciliationReport) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
