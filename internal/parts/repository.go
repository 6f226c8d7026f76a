package parts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/pagination"
)

// Repository persists parts.
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

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	return r.first(r.conn(ctx).Where("id = ?", id))
}

func (r *Repository) FindByKey(ctx context.Context, key Key) (*models.Part, error) {
	return r.first(r.conn(ctx).Where("part_name = ? AND brand_name = ?", key.PartName, key.BrandName))
}

// LockByID reads the part with a row lock held until the transaction ends.
func (r *Repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	return r.first(r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

// LockByKey is LockByID for a composite key.
func (r *Repository) LockByKey(ctx context.Context, key Key) (*models.Part, error) {
	return r.first(r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("part_name = ? AND brand_name = ?", key.PartName, key.BrandName))
}

func (r *Repository) first(q *gorm.DB) (*models.Part, error) {
	var part models.Part
	if err := q.First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// FindByIDs returns the parts keyed by id. Missing ids are absent from the map.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Part, error) {
	out := make(map[uuid.UUID]models.Part, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Part
	if err := r.conn(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CreateIfAbsent inserts the part unless the composite key already exists.
// It reports whether this call inserted the row.
func (r *Repository) CreateIfAbsent(ctx context.Context, part *models.Part) (bool, error) {
	res := r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "part_name"}, {Name: "brand_name"}},
			DoNothing: true,
		}).
		Create(part)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddQty applies delta to qty_left in a single statement. With guard set,
// decrements only match when the result stays non-negative, so zero rows
// affected means the part is missing or the stock is insufficient.
func (r *Repository) AddQty(ctx context.Context, id uuid.UUID, delta int, guard bool) (int64, error) {
	q := r.conn(ctx).Model(&models.Part{}).Where("id = ?", id)
	if guard && delta < 0 {
		q = q.Where("qty_left + ? >= 0", delta)
	}
	res := q.Updates(map[string]any{
		"qty_left":   gorm.Expr("qty_left + ?", delta),
		"updated_at": time.Now().UTC(),
	})
	return res.RowsAffected, res.Error
}

// ShiftQty moves qty_left from one value to another, matching only while the
// row still holds from. Zero rows affected means someone else wrote first.
func (r *Repository) ShiftQty(ctx context.Context, id uuid.UUID, from, to int) (int64, error) {
	res := r.conn(ctx).Model(&models.Part{}).
		Where("id = ? AND qty_left = ?", id, from).
		Updates(map[string]any{
			"qty_left":   gorm.Expr("qty_left + ?", to-from),
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *Repository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool, at *time.Time) error {
	return r.conn(ctx).Model(&models.Part{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted":    deleted,
			"deleted_at": at,
			"updated_at": time.Now().UTC(),
		}).Error
}

// CountActiveProcurements counts procurements referencing the part that are not soft-deleted.
func (r *Repository) CountActiveProcurements(ctx context.Context, partID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Procurement{}).
		Where("part_id = ? AND deleted = ?", partID, false).
		Count(&count).Error
	return count, err
}

// ListFilter narrows the part listing.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
}

var partSortColumns = map[string]string{
	"partName":  "part_name",
	"brandName": "brand_name",
	"qtyLeft":   "qty_left",
	"createdAt": "created_at",
}

func (r *Repository) List(ctx context.Context, filter ListFilter, page pagination.Params) ([]models.Part, int64, error) {
	q := r.conn(ctx).Model(&models.Part{})
	if !filter.IncludeDeleted {
		q = q.Where("deleted = ?", false)
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		q = q.Where("(LOWER(part_name) LIKE ? OR LOWER(brand_name) LIKE ?)", like, like)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Part
	err := q.Order(page.OrderClause(partSortColumns, "part_name")).
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
