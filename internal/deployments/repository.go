package deployments

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/pagination"
)

// Repository persists deployments and their lines.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return r.db
	}
	return r.db.WithContext(ctx)
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") }).
		Preload("Lines.Part")
}

// FindByID loads a deployment with lines in their stored order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deployment, error) {
	var d models.Deployment
	if err := withLines(r.conn(ctx)).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindActiveByTrackCode returns the deployment behind a tracking code unless it is soft-deleted.
func (r *Repository) FindActiveByTrackCode(ctx context.Context, code string) (*models.Deployment, error) {
	var d models.Deployment
	err := withLines(r.conn(ctx)).
		Where("track_code = ? AND deleted = ?", code, false).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) TrackCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Deployment{}).Where("track_code = ?", code).Count(&count).Error
	return count > 0, err
}

// NextSeq returns one past the highest seq in use.
func (r *Repository) NextSeq(ctx context.Context) (int, error) {
	var max int
	err := r.conn(ctx).Model(&models.Deployment{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create inserts the deployment and then its lines.
func (r *Repository) Create(ctx context.Context, d *models.Deployment, lines []models.DeploymentLine) error {
	if err := r.conn(ctx).Omit(clause.Associations).Create(d).Error; err != nil {
		return err
	}
	return r.insertLines(ctx, d.ID, lines)
}

// Save writes every column of d. Lines are managed by ReplaceLines.
func (r *Repository) Save(ctx context.Context, d *models.Deployment) error {
	return r.conn(ctx).Omit(clause.Associations).Save(d).Error
}

// ReplaceLines swaps the deployment's lines for the given set.
func (r *Repository) ReplaceLines(ctx context.Context, deploymentID uuid.UUID, lines []models.DeploymentLine) error {
	if err := r.conn(ctx).Where("deployment_id = ?", deploymentID).Delete(&models.DeploymentLine{}).Error; err != nil {
		return err
	}
	return r.insertLines(ctx, deploymentID, lines)
}

func (r *Repository) insertLines(ctx context.Context, deploymentID uuid.UUID, lines []models.DeploymentLine) error {
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.DeploymentLine, len(lines))
	for i, line := range lines {
		line.ID = uuid.Nil
		line.DeploymentID = deploymentID
		line.Position = i
		line.Part = nil
		rows[i] = line
	}
	return r.conn(ctx).Omit(clause.Associations).Create(&rows).Error
}

func (r *Repository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool, at *time.Time) error {
	return r.conn(ctx).Model(&models.Deployment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted":    deleted,
			"deleted_at": at,
			"updated_at": time.Now().UTC(),
		}).Error
}

// Delete removes the deployment and its lines permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.conn(ctx).Where("deployment_id = ?", id).Delete(&models.DeploymentLine{}).Error; err != nil {
		return err
	}
	return r.conn(ctx).Where("id = ?", id).Delete(&models.Deployment{}).Error
}

// ListFilter narrows the deployment listing.
type ListFilter struct {
	SearchField string
	SearchValue string
}

var deploymentSortColumns = map[string]string{
	"seq":          "seq",
	"date":         "date",
	"clientName":   "client_name",
	"vehicleModel": "vehicle_model",
	"arrivalDate":  "arrival_date",
	"repairStatus": "repair_status",
	"createdAt":    "created_at",
}

var deploymentSearchColumns = map[string]string{
	"clientName":   "client_name",
	"vehicleModel": "vehicle_model",
	"trackCode":    "track_code",
}

// List returns a page of deployments, soft-deleted ones included.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Deployment, int64, error) {
	q := r.conn(ctx).Model(&models.Deployment{})
	if value := strings.TrimSpace(filter.SearchValue); value != "" {
		if filter.SearchField == "seq" {
			if seq, err := strconv.Atoi(value); err == nil {
				q = q.Where("seq = ?", seq)
			}
		} else if column, ok := deploymentSearchColumns[filter.SearchField]; ok {
			q = q.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(value)+"%")
		}
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Deployment
	err := withLines(q).
		Order(page.OrderClause(deploymentSortColumns, "seq")).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
