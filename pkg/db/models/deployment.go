package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/autoshop-backend/pkg/enums"
)

// Deployment is a vehicle repair job that consumes parts through its lines.
type Deployment struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Seq              int                `gorm:"column:seq;not null;index"`
	Date             string             `gorm:"column:date;not null"`
	ClientName       string             `gorm:"column:client_name;not null"`
	VehicleModel     string             `gorm:"column:vehicle_model;not null"`
	ArrivalDate      string             `gorm:"column:arrival_date;not null"`
	Lines            []DeploymentLine   `gorm:"foreignKey:DeploymentID;references:ID"`
	DeploymentStatus bool               `gorm:"column:deployment_status;not null;default:false"`
	DeploymentDate   *string            `gorm:"column:deployment_date"`
	ReleaseStatus    bool               `gorm:"column:release_status;not null;default:false"`
	ReleaseDate      *string            `gorm:"column:release_date"`
	RepairStatus     enums.RepairStatus `gorm:"column:repair_status;not null;default:'Pending'"`
	RepairedDate     *string            `gorm:"column:repaired_date"`
	TrackCode        string             `gorm:"column:track_code;not null;uniqueIndex:ux_deployments_track_code"`
	CreatorID        uuid.UUID          `gorm:"column:creator_id;type:uuid;not null"`
	Deleted          bool               `gorm:"column:deleted;not null;default:false"`
	DeletedAt        *time.Time         `gorm:"column:deleted_at"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Deployment) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// DeploymentLine records the quantity of one part used by a deployment.
type DeploymentLine struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	DeploymentID uuid.UUID `gorm:"column:deployment_id;type:uuid;not null;uniqueIndex:ux_deployment_lines_part"`
	PartID       uuid.UUID `gorm:"column:part_id;type:uuid;not null;uniqueIndex:ux_deployment_lines_part;index"`
	Part         *Part     `gorm:"foreignKey:PartID;references:ID"`
	QuantityUsed int       `gorm:"column:quantity_used;not null"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (l *DeploymentLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
