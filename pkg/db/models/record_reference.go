package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/autoshop-backend/pkg/enums"
)

// RecordReference indexes a procurement or deployment under a part or user.
// The owner does not own the record; removing an entry never touches the record.
type RecordReference struct {
	ID         uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OwnerType  enums.ReferenceOwner `gorm:"column:owner_type;not null;uniqueIndex:ux_record_references_entry"`
	OwnerID    uuid.UUID            `gorm:"column:owner_id;type:uuid;not null;uniqueIndex:ux_record_references_entry"`
	RecordType enums.RecordType     `gorm:"column:record_type;not null;uniqueIndex:ux_record_references_entry"`
	RecordID   uuid.UUID            `gorm:"column:record_id;type:uuid;not null;uniqueIndex:ux_record_references_entry;index"`
	CreatedAt  time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (r *RecordReference) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
