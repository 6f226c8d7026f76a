package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Part is a stock record identified by its (part_name, brand_name) pair.
type Part struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PartName  string     `gorm:"column:part_name;not null;uniqueIndex:ux_parts_name_brand"`
	BrandName string     `gorm:"column:brand_name;not null;uniqueIndex:ux_parts_name_brand"`
	QtyLeft   int        `gorm:"column:qty_left;not null;default:0"`
	Deleted   bool       `gorm:"column:deleted;not null;default:false"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Part) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
