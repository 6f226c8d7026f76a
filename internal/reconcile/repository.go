package reconcile

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
)

// Repository runs the aggregate reads behind reconciliation.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

type partTotal struct {
	PartID uuid.UUID `gorm:"column:part_id"`
	Total  int       `gorm:"column:total"`
}

// ExpectedQuantities returns, per part id, active procured units minus
// units used by active deployments. Parts with no active records are absent.
func (r *Repository) ExpectedQuantities(ctx context.Context) (map[uuid.UUID]int, error) {
	return r.expected(ctx, nil)
}

// ExpectedQuantity is ExpectedQuantities narrowed to a single part.
func (r *Repository) ExpectedQuantity(ctx context.Context, partID uuid.UUID) (int, error) {
	totals, err := r.expected(ctx, &partID)
	if err != nil {
		return 0, err
	}
	return totals[partID], nil
}

func (r *Repository) expected(ctx context.Context, partID *uuid.UUID) (map[uuid.UUID]int, error) {
	bought := r.conn(ctx).Model(&models.Procurement{}).
		Select("part_id, COALESCE(SUM(quantity_bought), 0) AS total").
		Where("deleted = ?", false)
	used := r.conn(ctx).Table("deployment_lines AS dl").
		Select("dl.part_id AS part_id, COALESCE(SUM(dl.quantity_used), 0) AS total").
		Joins("JOIN deployments AS d ON d.id = dl.deployment_id").
		Where("d.deleted = ?", false)
	if partID != nil {
		bought = bought.Where("part_id = ?", *partID)
		used = used.Where("dl.part_id = ?", *partID)
	}

	var in, out []partTotal
	if err := bought.Group("part_id").Scan(&in).Error; err != nil {
		return nil, err
	}
	if err := used.Group("dl.part_id").Scan(&out).Error; err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]int, len(in))
	for _, row := range in {
		totals[row.PartID] += row.Total
	}
	for _, row := range out {
		totals[row.PartID] -= row.Total
	}
	return totals, nil
}

// ListParts returns every part, soft-deleted ones included.
func (r *Repository) ListParts(ctx context.Context) ([]models.Part, error) {
	var rows []models.Part
	err := r.conn(ctx).Order("part_name ASC, brand_name ASC").Find(&rows).Error
	return rows, err
}

// LockPart reads the part with a row lock, so stock changes that have not
// committed yet finish before the expected quantity is summed.
func (r *Repository) LockPart(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *Repository) InsertReport(ctx context.Context, report *models.ReconciliationReport) error {
	return r.conn(ctx).Create(report).Error
}

// ListReports returns the drift rows written by one run.
func (r *Repository) ListReports(ctx context.Context, runID uuid.UUID) ([]models.ReconciliationReport, error) {
	var rows []models.ReconciliationReport
	err := r.conn(ctx).
		Where("run_id = ?", runID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
