package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Procurement is a stock-in record against a single part.
type Procurement struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Seq            int             `gorm:"column:seq;not null;index"`
	Date           string          `gorm:"column:date;not null"`
	SupplierName   string          `gorm:"column:supplier_name;not null"`
	Reference      string          `gorm:"column:reference;not null"`
	TIN            string          `gorm:"column:tin;not null"`
	Address        string          `gorm:"column:address;not null"`
	PartID         uuid.UUID       `gorm:"column:part_id;type:uuid;not null;index"`
	Part           *Part           `gorm:"foreignKey:PartID;references:ID"`
	Description    string          `gorm:"column:description"`
	QuantityBought int             `gorm:"column:quantity_bought;not null"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	NetOfVAT       decimal.Decimal `gorm:"column:net_of_vat;type:numeric(14,2);not null"`
	InputVAT       decimal.Decimal `gorm:"column:input_vat;type:numeric(14,2);not null"`
	IsNonVAT       bool            `gorm:"column:is_non_vat;not null;default:false"`
	NoValidReceipt bool            `gorm:"column:no_valid_receipt;not null;default:false"`
	CreatorID      uuid.UUID       `gorm:"column:creator_id;type:uuid;not null"`
	Deleted        bool            `gorm:"column:deleted;not null;default:false"`
	DeletedAt      *time.Time      `gorm:"column:deleted_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Procurement) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
