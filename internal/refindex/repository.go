// Package refindex stores the back-references from parts and users to the
// procurements and deployments that mention them.
package refindex

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
)

// Owner names the entity holding a reference.
type Owner struct {
	Type enums.ReferenceOwner
	ID   uuid.UUID
}

func PartOwner(id uuid.UUID) Owner {
	return Owner{Type: enums.ReferenceOwnerPart, ID: id}
}

func UserOwner(id uuid.UUID) Owner {
	return Owner{Type: enums.ReferenceOwnerUser, ID: id}
}

// Repository persists record_references rows.
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

// Add indexes the record under every owner. Existing entries are left untouched.
func (r *Repository) Add(ctx context.Context, recordType enums.RecordType, recordID uuid.UUID, owners ...Owner) error {
	if len(owners) == 0 {
		return nil
	}
	rows := make([]models.RecordReference, 0, len(owners))
	for _, owner := range owners {
		rows = append(rows, models.RecordReference{
			OwnerType:  owner.Type,
			OwnerID:    owner.ID,
			RecordType: recordType,
			RecordID:   recordID,
		})
	}
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "owner_type"},
				{Name: "owner_id"},
				{Name: "record_type"},
				{Name: "record_id"},
			},
			DoNothing: true,
		}).
		Create(&rows).Error
}

// Remove drops the entries linking the record to the given owners.
func (r *Repository) Remove(ctx context.Context, recordType enums.RecordType, recordID uuid.UUID, owners ...Owner) error {
	for _, owner := range owners {
		err := r.conn(ctx).
			Where("owner_type = ? AND owner_id = ? AND record_type = ? AND record_id = ?",
				owner.Type, owner.ID, recordType, recordID).
			Delete(&models.RecordReference{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// RemoveRecord drops every entry pointing at the record, whatever the owner.
func (r *Repository) RemoveRecord(ctx context.Context, recordType enums.RecordType, recordID uuid.UUID) error {
	return r.conn(ctx).
		Where("record_type = ? AND record_id = ?", recordType, recordID).
		Delete(&models.RecordReference{}).Error
}

// ListRecordIDs returns the ids of recordType records indexed under owner, oldest entry first.
func (r *Repository) ListRecordIDs(ctx context.Context, owner Owner, recordType enums.RecordType) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.conn(ctx).Model(&models.RecordReference{}).
		Where("owner_type = ? AND owner_id = ? AND record_type = ?", owner.Type, owner.ID, recordType).
		Order("created_at ASC").
		Order("record_id ASC").
		Pluck("record_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
