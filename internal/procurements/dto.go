package procurements

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/autoshop-backend/internal/parts"
	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
)

// CreateProcurementDTO is the request body for recording a stock-in.
type CreateProcurementDTO struct {
	CreatorEmail   string          `json:"creatorEmail" validate:"required,email"`
	Seq            *int            `json:"seq,omitempty" validate:"omitempty,gt=0"`
	Date           string          `json:"date" validate:"required"`
	SupplierName   string          `json:"supplierName"`
	Reference      string          `json:"reference"`
	TIN            string          `json:"tin"`
	Address        string          `json:"address"`
	Part           string          `json:"part,omitempty"`
	PartName       string          `json:"partName,omitempty"`
	BrandName      string          `json:"brandName,omitempty"`
	Description    string          `json:"description"`
	QuantityBought int             `json:"quantityBought" validate:"gt=0"`
	Amount         decimal.Decimal `json:"amount"`
	NetOfVAT       decimal.Decimal `json:"netOfVAT"`
	InputVAT       decimal.Decimal `json:"inputVAT"`
	IsNonVAT       bool            `json:"isNonVat"`
	NoValidReceipt bool            `json:"noValidReceipt"`
}

// UpdateProcurementDTO patches a procurement. Absent fields keep their stored value.
type UpdateProcurementDTO struct {
	Seq            *int             `json:"seq,omitempty" validate:"omitempty,gt=0"`
	Date           *string          `json:"date,omitempty" validate:"omitempty,min=1"`
	SupplierName   *string          `json:"supplierName,omitempty"`
	Reference      *string          `json:"reference,omitempty"`
	TIN            *string          `json:"tin,omitempty"`
	Address        *string          `json:"address,omitempty"`
	Part           *string          `json:"part,omitempty"`
	PartName       *string          `json:"partName,omitempty"`
	BrandName      *string          `json:"brandName,omitempty"`
	Description    *string          `json:"description,omitempty"`
	QuantityBought *int             `json:"quantityBought,omitempty" validate:"omitempty,gt=0"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	NetOfVAT       *decimal.Decimal `json:"netOfVAT,omitempty"`
	InputVAT       *decimal.Decimal `json:"inputVAT,omitempty"`
	IsNonVAT       *bool            `json:"isNonVat,omitempty"`
	NoValidReceipt *bool            `json:"noValidReceipt,omitempty"`
}

// ProcurementDTO is the response shape, with the part names inlined.
type ProcurementDTO struct {
	ID             uuid.UUID       `json:"id"`
	Seq            int             `json:"seq"`
	Date           string          `json:"date"`
	SupplierName   string          `json:"supplierName"`
	Reference      string          `json:"reference"`
	TIN            string          `json:"tin"`
	Address        string          `json:"address"`
	PartID         uuid.UUID       `json:"partId"`
	PartName       string          `json:"partName"`
	BrandName      string          `json:"brandName"`
	Description    string          `json:"description"`
	QuantityBought int             `json:"quantityBought"`
	Amount         decimal.Decimal `json:"amount"`
	NetOfVAT       decimal.Decimal `json:"netOfVAT"`
	InputVAT       decimal.Decimal `json:"inputVAT"`
	IsNonVAT       bool            `json:"isNonVat"`
	NoValidReceipt bool            `json:"noValidReceipt"`
	CreatorID      uuid.UUID       `json:"creatorId"`
	Deleted        bool            `json:"deleted"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ListQuery carries the list endpoint's range, sort and search parameters.
type ListQuery struct {
	Start        int
	End          int
	Sort         string
	Order        string
	SupplierLike string
	SearchField  string
	SearchValue  string
}

// partKey reads the part reference from either the composite "part" field
// or the separate name fields.
func (c CreateProcurementDTO) partKey() (parts.Key, error) {
	if strings.TrimSpace(c.Part) != "" {
		return parts.ParseKey(c.Part)
	}
	return keyFromNames(c.PartName, c.BrandName)
}

// partKey merges the patch over the current key.
func (u UpdateProcurementDTO) partKey(current parts.Key) (parts.Key, error) {
	if u.Part != nil {
		return parts.ParseKey(*u.Part)
	}
	if u.PartName == nil && u.BrandName == nil {
		return current, nil
	}
	name, brand := current.PartName, current.BrandName
	if u.PartName != nil {
		name = *u.PartName
	}
	if u.BrandName != nil {
		brand = *u.BrandName
	}
	return keyFromNames(name, brand)
}

func keyFromNames(name, brand string) (parts.Key, error) {
	if strings.TrimSpace(name) == "" && strings.TrimSpace(brand) == "" {
		return parts.Key{}, pkgerrors.New(pkgerrors.CodeValidation, "part is required")
	}
	return parts.ParseKey(name + parts.KeySeparator + brand)
}

// FromModel converts a procurement with its part preloaded.
func FromModel(p *models.Procurement) *ProcurementDTO {
	if p == nil {
		return nil
	}
	dto := &ProcurementDTO{
		ID:             p.ID,
		Seq:            p.Seq,
		Date:           p.Date,
		SupplierName:   p.SupplierName,
		Reference:      p.Reference,
		TIN:            p.TIN,
		Address:        p.Address,
		PartID:         p.PartID,
		Description:    p.Description,
		QuantityBought: p.QuantityBought,
		Amount:         p.Amount,
		NetOfVAT:       p.NetOfVAT,
		InputVAT:       p.InputVAT,
		IsNonVAT:       p.IsNonVAT,
		NoValidReceipt: p.NoValidReceipt,
		CreatorID:      p.CreatorID,
		Deleted:        p.Deleted,
		DeletedAt:      p.DeletedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.Part != nil {
		dto.PartName = p.Part.PartName
		dto.BrandName = p.Part.BrandName
	}
	return dto
}
