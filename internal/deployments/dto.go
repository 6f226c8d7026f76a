package deployments

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
)

// LineInput references a part as "partName|brandName".
type LineInput struct {
	Part         string `json:"part"`
	QuantityUsed int    `json:"quantityUsed"`
}

// CreateDeploymentDTO is the request body for opening a repair job.
type CreateDeploymentDTO struct {
	CreatorEmail     string      `json:"creatorEmail" validate:"required,email"`
	Seq              *int        `json:"seq,omitempty" validate:"omitempty,gt=0"`
	Date             string      `json:"date" validate:"required"`
	ClientName       string      `json:"clientName" validate:"required"`
	VehicleModel     string      `json:"vehicleModel" validate:"required"`
	ArrivalDate      string      `json:"arrivalDate" validate:"required"`
	Lines            []LineInput `json:"parts"`
	DeploymentStatus bool        `json:"deploymentStatus"`
	DeploymentDate   *string     `json:"deploymentDate,omitempty"`
	ReleaseStatus    bool        `json:"releaseStatus"`
	ReleaseDate      *string     `json:"releaseDate,omitempty"`
	RepairStatus     string      `json:"repairStatus,omitempty"`
	RepairedDate     *string     `json:"repairedDate,omitempty"`
	TrackCode        string      `json:"trackCode,omitempty" validate:"omitempty,max=32,alphanum"`
}

// UpdateDeploymentDTO patches a deployment. A non-nil Lines replaces every
// line; nil leaves the parts untouched.
type UpdateDeploymentDTO struct {
	Seq              *int         `json:"seq,omitempty" validate:"omitempty,gt=0"`
	Date             *string      `json:"date,omitempty" validate:"omitempty,min=1"`
	ClientName       *string      `json:"clientName,omitempty" validate:"omitempty,min=1"`
	VehicleModel     *string      `json:"vehicleModel,omitempty" validate:"omitempty,min=1"`
	ArrivalDate      *string      `json:"arrivalDate,omitempty" validate:"omitempty,min=1"`
	Lines            *[]LineInput `json:"parts,omitempty"`
	DeploymentStatus *bool        `json:"deploymentStatus,omitempty"`
	DeploymentDate   *string      `json:"deploymentDate,omitempty"`
	ReleaseStatus    *bool        `json:"releaseStatus,omitempty"`
	ReleaseDate      *string      `json:"releaseDate,omitempty"`
	RepairStatus     *string      `json:"repairStatus,omitempty"`
	RepairedDate     *string      `json:"repairedDate,omitempty"`
}

type LineDTO struct {
	PartID       uuid.UUID `json:"partId"`
	PartName     string    `json:"partName"`
	BrandName    string    `json:"brandName"`
	QuantityUsed int       `json:"quantityUsed"`
}

// DeploymentDTO is the response shape with every line's part resolved.
type DeploymentDTO struct {
	ID               uuid.UUID          `json:"id"`
	Seq              int                `json:"seq"`
	Date             string             `json:"date"`
	ClientName       string             `json:"clientName"`
	VehicleModel     string             `json:"vehicleModel"`
	ArrivalDate      string             `json:"arrivalDate"`
	Parts            []LineDTO          `json:"parts"`
	DeploymentStatus bool               `json:"deploymentStatus"`
	DeploymentDate   *string            `json:"deploymentDate"`
	ReleaseStatus    bool               `json:"releaseStatus"`
	ReleaseDate      *string            `json:"releaseDate"`
	RepairStatus     enums.RepairStatus `json:"repairStatus"`
	RepairedDate     *string            `json:"repairedDate"`
	TrackCode        string             `json:"trackCode"`
	CreatorID        uuid.UUID          `json:"creatorId"`
	Deleted          bool               `json:"deleted"`
	DeletedAt        *time.Time         `json:"deletedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// TrackedPart is a line as shown on the client portal.
type TrackedPart struct {
	PartName     string `json:"partName"`
	BrandName    string `json:"brandName"`
	QuantityUsed int    `json:"quantityUsed"`
}

// TrackingView is the client-facing status of a repair job.
type TrackingView struct {
	Seq           int                `json:"seq"`
	Date          string             `json:"date"`
	ClientName    string             `json:"clientName"`
	VehicleModel  string             `json:"vehicleModel"`
	ArrivalDate   string             `json:"arrivalDate"`
	Parts         []TrackedPart      `json:"parts"`
	ReleaseStatus bool               `json:"releaseStatus"`
	ReleaseDate   *string            `json:"releaseDate"`
	RepairStatus  enums.RepairStatus `json:"repairStatus"`
	RepairedDate  *string            `json:"repairedDate"`
	TrackCode     string             `json:"trackCode"`
}

// ListQuery carries the list endpoint's range, sort and search parameters.
type ListQuery struct {
	Start       int
	End         int
	Sort        string
	Order       string
	SearchField string
	SearchValue string
}

// FromModel converts a deployment with its lines and parts preloaded.
func FromModel(d *models.Deployment) *DeploymentDTO {
	if d == nil {
		return nil
	}
	lines := make([]LineDTO, 0, len(d.Lines))
	for _, line := range d.Lines {
		dto := LineDTO{PartID: line.PartID, QuantityUsed: line.QuantityUsed}
		if line.Part != nil {
			dto.PartName = line.Part.PartName
			dto.BrandName = line.Part.BrandName
		}
		lines = append(lines, dto)
	}
	return &DeploymentDTO{
		ID:               d.ID,
		Seq:              d.Seq,
		Date:             d.Date,
		ClientName:       d.ClientName,
		VehicleModel:     d.VehicleModel,
		ArrivalDate:      d.ArrivalDate,
		Parts:            lines,
		DeploymentStatus: d.DeploymentStatus,
		DeploymentDate:   d.DeploymentDate,
		ReleaseStatus:    d.ReleaseStatus,
		ReleaseDate:      d.ReleaseDate,
		RepairStatus:     d.RepairStatus.OrDefault(),
		RepairedDate:     d.RepairedDate,
		TrackCode:        d.TrackCode,
		CreatorID:        d.CreatorID,
		Deleted:          d.Deleted,
		DeletedAt:        d.DeletedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

const (
	unknownPart  = "Unknown Part"
	unknownBrand = "Unknown Brand"
)

func toTrackingView(d *models.Deployment) *TrackingView {
	tracked := make([]TrackedPart, 0, len(d.Lines))
	for _, line := range d.Lines {
		item := TrackedPart{PartName: unknownPart, BrandName: unknownBrand, QuantityUsed: line.QuantityUsed}
		if line.Part != nil {
			item.PartName = line.Part.PartName
			item.BrandName = line.Part.BrandName
		}
		tracked = append(tracked, item)
	}
	return &TrackingView{
		Seq:           d.Seq,
		Date:          d.Date,
		ClientName:    d.ClientName,
		VehicleModel:  d.VehicleModel,
		ArrivalDate:   d.ArrivalDate,
		Parts:         tracked,
		ReleaseStatus: d.ReleaseStatus,
		ReleaseDate:   d.ReleaseDate,
		RepairStatus:  d.RepairStatus.OrDefault(),
		RepairedDate:  d.RepairedDate,
		TrackCode:     d.TrackCode,
	}
}
