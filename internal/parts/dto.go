package parts

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
)

// PartDTO is the API shape of a part. The id lists are filled on detail reads.
type PartDTO struct {
	ID             uuid.UUID   `json:"id"`
	PartName       string      `json:"partName"`
	BrandName      string      `json:"brandName"`
	Key            string      `json:"key"`
	QtyLeft        int         `json:"qtyLeft"`
	Deleted        bool        `json:"deleted"`
	DeletedAt      *time.Time  `json:"deletedAt,omitempty"`
	ProcurementIDs []uuid.UUID `json:"procurementIds,omitempty"`
	DeploymentIDs  []uuid.UUID `json:"deploymentIds,omitempty"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// ListQuery carries the part list parameters.
type ListQuery struct {
	Start          int
	End            int
	Sort           string
	Order          string
	Search         string
	IncludeDeleted bool
}

func FromModel(p *models.Part) *PartDTO {
	if p == nil {
		return nil
	}
	return &PartDTO{
		ID:        p.ID,
		PartName:  p.PartName,
		BrandName: p.BrandName,
		Key:       Key{PartName: p.PartName, BrandName: p.BrandName}.String(),
		QtyLeft:   p.QtyLeft,
		Deleted:   p.Deleted,
		DeletedAt: p.DeletedAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
