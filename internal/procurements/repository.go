package procurements

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

// Repository persists procurements.
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

// FindByID loads a procurement with its part, soft-deleted or not.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Procurement, error) {
	var p models.Procurement
	if err := r.conn(ctx).Preload("Part").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *models.Procurement) error {
	return r.conn(ctx).Omit(clause.Associations).Create(p).Error
}

// Save writes every column of p. The preloaded part is never written.
func (r *Repository) Save(ctx context.Context, p *models.Procurement) error {
	return r.conn(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *Repository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool, at *time.Time) error {
	return r.conn(ctx).Model(&models.Procurement{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted":    deleted,
			"deleted_at": at,
			"updated_at": time.Now().UTC(),
		}).Error
}

// Delete removes the row permanently.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.conn(ctx).Where("id = ?", id).Delete(&models.Procurement{}).Error
}

// NextSeq returns one past the highest seq in use.
func (r *Repository) NextSeq(ctx context.Context) (int, error) {
	var max int
	err := r.conn(ctx).Model(&models.Procurement{}).
		Select("COALESCE(MAX(seq), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// ListFilter narrows the procurement listing.
type ListFilter struct {
	SupplierLike string
	SearchField  string
	SearchValue  string
}

var procurementSortColumns = map[string]string{
	"seq":            "seq",
	"date":           "date",
	"supplierName":   "supplier_name",
	"quantityBought": "quantity_bought",
	"amount":         "amount",
	"createdAt":      "created_at",
}

var procurementSearchColumns = map[string]string{
	"supplierName": "supplier_name",
	"reference":    "reference",
	"description":  "description",
}

// List returns a page of procurements, soft-deleted ones included, with their parts.
func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Procurement, int64, error) {
	q := r.conn(ctx).Model(&models.Procurement{})
	if filter.SupplierLike != "" {
		q = q.Where("LOWER(supplier_name) LIKE ?", likePattern(filter.SupplierLike))
	}
	if value := strings.TrimSpace(filter.SearchValue); value != "" {
		if filter.SearchField == "seq" {
			if seq, err := strconv.Atoi(value); err == nil {
				q = q.Where("seq = ?", seq)
			}
		} else if column, ok := procurementSearchColumns[filter.SearchField]; ok {
			q = q.Where("LOWER("+column+") LIKE ?", likePattern(value))
		}
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Procurement
	err := q.Preload("Part").
		Order(page.OrderClause(procurementSortColumns, "seq")).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func likePattern(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
