package procurements

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/autoshop-backend/internal/lifecycle"
	"github.com/angelmondragon/autoshop-backend/internal/parts"
	"github.com/angelmondragon/autoshop-backend/internal/refindex"
	dbpkg "github.com/angelmondragon/autoshop-backend/pkg/db"
	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/autoshop-backend/pkg/pagination"
)

type creatorResolver interface {
	ResolveCreator(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// ServiceParams wires the procurement lifecycle.
type ServiceParams struct {
	DB         dbpkg.TxRunner
	Repository *Repository
	Ledger     *parts.Ledger
	Users      creatorResolver
	References *refindex.Repository
	Events     eventEmitter
	Policy     enums.RestorePolicy
	Logger     *logger.Logger
	Now        func() time.Time
}

// Service runs every procurement write as one transaction against the part ledger.
type Service struct {
	db       dbpkg.TxRunner
	repo     *Repository
	ledger   *parts.Ledger
	users    creatorResolver
	refs     *refindex.Repository
	events   eventEmitter
	policy   enums.RestorePolicy
	logg     *logger.Logger
	now      func() time.Time
	validate *validator.Validate
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, errors.New("transaction runner required")
	}
	if params.Repository == nil {
		return nil, errors.New("procurement repository required")
	}
	if params.Ledger == nil {
		return nil, errors.New("part ledger required")
	}
	if params.Users == nil {
		return nil, errors.New("creator resolver required")
	}
	if params.References == nil {
		return nil, errors.New("reference index required")
	}
	policy := params.Policy
	if policy == "" {
		policy = enums.RestorePolicyReactivateOnly
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("invalid restore policy %q", policy)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		db:       params.DB,
		repo:     params.Repository,
		ledger:   params.Ledger,
		users:    params.Users,
		refs:     params.References,
		events:   params.Events,
		policy:   policy,
		logg:     params.Logger,
		now:      now,
		validate: validator.New(),
	}, nil
}

func (s *Service) List(ctx context.Context, query ListQuery) ([]ProcurementDTO, int64, error) {
	page := pagination.Params{
		Start: query.Start,
		End:   query.End,
		Sort:  query.Sort,
		Order: pagination.ParseOrder(query.Order),
	}
	filter := ListFilter{
		SupplierLike: query.SupplierLike,
		SearchField:  query.SearchField,
		SearchValue:  query.SearchValue,
	}
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list procurements")
	}
	out := make([]ProcurementDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ProcurementDTO, error) {
	p, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(p), nil
}

// Create records a stock-in: the part is resolved or created, reactivated if
// needed and credited with the bought quantity.
func (s *Service) Create(ctx context.Context, input CreateProcurementDTO) (*ProcurementDTO, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}
	key, err := input.partKey()
	if err != nil {
		return nil, err
	}

	created, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (*models.Procurement, error) {
		repo := s.repo.WithTx(tx)

		creator, err := s.users.ResolveCreator(ctx, tx, input.CreatorEmail)
		if err != nil {
			return nil, err
		}
		part, err := s.ledger.Resolve(ctx, tx, key)
		if err != nil {
			return nil, err
		}
		if _, err := s.ledger.ReactivateIfDeleted(ctx, tx, part, "procurement created"); err != nil {
			return nil, err
		}
		if err := s.ledger.AdjustStockIn(ctx, tx, part.ID, input.QuantityBought); err != nil {
			return nil, err
		}

		seq, err := s.resolveSeq(ctx, repo, input.Seq)
		if err != nil {
			return nil, err
		}
		vat := normalizeVAT(vatFields{
			SupplierName:   input.SupplierName,
			Reference:      input.Reference,
			TIN:            input.TIN,
			Address:        input.Address,
			Amount:         input.Amount,
			NetOfVAT:       input.NetOfVAT,
			InputVAT:       input.InputVAT,
			IsNonVAT:       input.IsNonVAT,
			NoValidReceipt: input.NoValidReceipt,
		})
		record := &models.Procurement{
			Seq:            seq,
			Date:           strings.TrimSpace(input.Date),
			PartID:         part.ID,
			Description:    input.Description,
			QuantityBought: input.QuantityBought,
			CreatorID:      creator.ID,
		}
		applyVAT(record, vat)
		if err := repo.Create(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create procurement")
		}

		if err := s.refs.WithTx(tx).Add(ctx, enums.RecordTypeProcurement, record.ID,
			refindex.PartOwner(part.ID), refindex.UserOwner(creator.ID)); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: index procurement")
		}
		if err := s.emit(ctx, tx, enums.EventProcurementCreated, record, nil, input.QuantityBought); err != nil {
			return nil, err
		}
		return s.load(ctx, repo, record.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logRecord(ctx, created.ID, "procurement.created")
	return FromModel(created), nil
}

// Update rewrites a procurement. When the part or quantity changes the ledger
// moves the difference. Lowering a purchase is never blocked by stock that was
// already used.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProcurementDTO) (*ProcurementDTO, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid procurement")
	}
	if err := validateMoney(input.Amount, input.NetOfVAT, input.InputVAT); err != nil {
		return nil, err
	}

	updated, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (*models.Procurement, error) {
		repo := s.repo.WithTx(tx)

		record, err := s.load(ctx, repo, id)
		if err != nil {
			return nil, err
		}
		if record.Deleted {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deleted procurements cannot be updated; restore it first")
		}
		if record.Part == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("procurement %s references missing part %s", record.ID, record.PartID))
		}
		oldPartID := record.PartID
		oldQty := record.QuantityBought

		currentKey := parts.Key{PartName: record.Part.PartName, BrandName: record.Part.BrandName}
		newKey, err := input.partKey(currentKey)
		if err != nil {
			return nil, err
		}
		newQty := oldQty
		if input.QuantityBought != nil {
			newQty = *input.QuantityBought
		}

		moved := newKey != currentKey
		oldChange := newQty - oldQty
		if moved {
			oldChange = -oldQty
		}

		newPart := record.Part
		changes := map[uuid.UUID]int{oldPartID: oldChange}
		if moved {
			newPart, err = s.ledger.Resolve(ctx, tx, newKey)
			if err != nil {
				return nil, err
			}
			changes[newPart.ID] = newQty
		}
		if _, err := s.ledger.ReactivateIfDeleted(ctx, tx, newPart, "procurement updated"); err != nil {
			return nil, err
		}
		if err := s.ledger.ApplyStockIn(ctx, tx, changes); err != nil {
			return nil, err
		}

		applyPatch(record, input)
		record.PartID = newPart.ID
		record.QuantityBought = newQty
		record.Part = nil
		if err := repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update procurement")
		}

		var previous *uuid.UUID
		if moved {
			previous = &oldPartID
			refs := s.refs.WithTx(tx)
			if err := refs.Remove(ctx, enums.RecordTypeProcurement, record.ID, refindex.PartOwner(oldPartID)); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unindex procurement")
			}
			if err := refs.Add(ctx, enums.RecordTypeProcurement, record.ID, refindex.PartOwner(newPart.ID)); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: index procurement")
			}
			if _, err := s.ledger.CascadeSoftDeleteIfOrphaned(ctx, tx, oldPartID); err != nil {
				return nil, err
			}
		}
		if err := s.emit(ctx, tx, enums.EventProcurementUpdated, record, previous, newQty-oldQty); err != nil {
			return nil, err
		}
		return s.load(ctx, repo, record.ID)
	})
	if err != nil {
		return nil, err
	}
	s.logRecord(ctx, updated.ID, "procurement.updated")
	return FromModel(updated), nil
}

// Delete runs the two-phase delete for a comma-joined id list in one transaction.
func (s *Service) Delete(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error) {
	ids, err := lifecycle.ParseIDs(rawIDs)
	if err != nil {
		return lifecycle.BatchResult{}, err
	}

	result, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (lifecycle.BatchResult, error) {
		repo := s.repo.WithTx(tx)
		return lifecycle.RunDelete(ctx, ids, lifecycle.DeleteSteps[*models.Procurement]{
			Load:      s.batchLoader(repo),
			IsDeleted: func(p *models.Procurement) bool { return p.Deleted },
			SoftDelete: func(ctx context.Context, p *models.Procurement) error {
				at := s.now().UTC()
				if err := repo.SetDeleted(ctx, p.ID, true, &at); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: soft delete procurement")
				}
				p.Deleted = true
				p.DeletedAt = &at
				if err := s.ledger.AdjustStockIn(ctx, tx, p.PartID, -p.QuantityBought); err != nil {
					return err
				}
				if _, err := s.ledger.CascadeSoftDeleteIfOrphaned(ctx, tx, p.PartID); err != nil {
					return err
				}
				return s.emit(ctx, tx, enums.EventProcurementSoftDeleted, p, nil, -p.QuantityBought)
			},
			HardDelete: func(ctx context.Context, p *models.Procurement) error {
				if err := repo.Delete(ctx, p.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete procurement")
				}
				if err := s.refs.WithTx(tx).RemoveRecord(ctx, enums.RecordTypeProcurement, p.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unindex procurement")
				}
				return s.emit(ctx, tx, enums.EventProcurementHardDeleted, p, nil, 0)
			},
		})
	})
	if err != nil {
		return lifecycle.BatchResult{}, err
	}
	s.logBatch(ctx, "procurement.deleted", result)
	return result, nil
}

// Restore brings soft-deleted procurements back. A deleted part is
// reactivated and re-credited; an active part is re-credited only under
// the always_readd policy.
func (s *Service) Restore(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error) {
	ids, err := lifecycle.ParseIDs(rawIDs)
	if err != nil {
		return lifecycle.BatchResult{}, err
	}

	result, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (lifecycle.BatchResult, error) {
		repo := s.repo.WithTx(tx)
		return lifecycle.RunRestore(ctx, ids, lifecycle.RestoreSteps[*models.Procurement]{
			Load:      s.batchLoader(repo),
			IsDeleted: func(p *models.Procurement) bool { return p.Deleted },
			Restore: func(ctx context.Context, p *models.Procurement) error {
				outcome, err := s.ledger.CascadeRestoreIfDeleted(ctx, tx, p.PartID, p.QuantityBought, s.policy)
				if err != nil {
					return err
				}
				if err := repo.SetDeleted(ctx, p.ID, false, nil); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore procurement")
				}
				p.Deleted = false
				p.DeletedAt = nil
				delta := 0
				if outcome.Applied {
					delta = p.QuantityBought
				}
				return s.emit(ctx, tx, enums.EventProcurementRestored, p, nil, delta)
			},
		})
	})
	if err != nil {
		return lifecycle.BatchResult{}, err
	}
	s.logBatch(ctx, "procurement.restored", result)
	return result, nil
}

func (s *Service) validateCreate(input CreateProcurementDTO) error {
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid procurement")
	}
	if !input.NoValidReceipt && strings.TrimSpace(input.SupplierName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplierName is required unless noValidReceipt is set")
	}
	return validateMoney(&input.Amount, &input.NetOfVAT, &input.InputVAT)
}

func validateMoney(values ...*decimal.Decimal) error {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "amounts must not be negative")
		}
	}
	return nil
}

func (s *Service) resolveSeq(ctx context.Context, repo *Repository, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	seq, err := repo.NextSeq(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next procurement seq")
	}
	return seq, nil
}

func (s *Service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Procurement, error) {
	p, err := repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "procurement not found").
				WithDetails(map[string]any{"id": id.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find procurement")
	}
	return p, nil
}

func (s *Service) batchLoader(repo *Repository) lifecycle.Loader[*models.Procurement] {
	return func(ctx context.Context, id uuid.UUID) (*models.Procurement, error) {
		p, err := repo.FindByID(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				return nil, lifecycle.ErrNotLoaded
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find procurement")
		}
		return p, nil
	}
}

func applyPatch(record *models.Procurement, input UpdateProcurementDTO) {
	if input.Seq != nil {
		record.Seq = *input.Seq
	}
	if input.Date != nil {
		record.Date = strings.TrimSpace(*input.Date)
	}
	if input.Description != nil {
		record.Description = *input.Description
	}
	vat := vatFields{
		SupplierName:   record.SupplierName,
		Reference:      record.Reference,
		TIN:            record.TIN,
		Address:        record.Address,
		Amount:         record.Amount,
		NetOfVAT:       record.NetOfVAT,
		InputVAT:       record.InputVAT,
		IsNonVAT:       record.IsNonVAT,
		NoValidReceipt: record.NoValidReceipt,
	}
	if input.SupplierName != nil {
		vat.SupplierName = *input.SupplierName
	}
	if input.Reference != nil {
		vat.Reference = *input.Reference
	}
	if input.TIN != nil {
		vat.TIN = *input.TIN
	}
	if input.Address != nil {
		vat.Address = *input.Address
	}
	if input.Amount != nil {
		vat.Amount = *input.Amount
	}
	if input.NetOfVAT != nil {
		vat.NetOfVAT = *input.NetOfVAT
	}
	if input.InputVAT != nil {
		vat.InputVAT = *input.InputVAT
	}
	if input.IsNonVAT != nil {
		vat.IsNonVAT = *input.IsNonVAT
	}
	if input.NoValidReceipt != nil {
		vat.NoValidReceipt = *input.NoValidReceipt
	}
	applyVAT(record, normalizeVAT(vat))
}

func applyVAT(record *models.Procurement, vat vatFields) {
	record.SupplierName = vat.SupplierName
	record.Reference = vat.Reference
	record.TIN = vat.TIN
	record.Address = vat.Address
	record.Amount = vat.Amount
	record.NetOfVAT = vat.NetOfVAT
	record.InputVAT = vat.InputVAT
	record.IsNonVAT = vat.IsNonVAT
	record.NoValidReceipt = vat.NoValidReceipt
}

func (s *Service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, p *models.Procurement, previousPartID *uuid.UUID, delta int) error {
	if s.events == nil {
		return nil
	}
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateProcurement,
		AggregateID:   p.ID,
		Version:       1,
		Data: payloads.ProcurementEvent{
			ProcurementID:  p.ID,
			Seq:            p.Seq,
			PartID:         p.PartID,
			PreviousPartID: previousPartID,
			QuantityBought: p.QuantityBought,
			QtyDelta:       delta,
			Deleted:        p.Deleted,
		},
	}
	if err := s.events.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit procurement event")
	}
	return nil
}

func (s *Service) logRecord(ctx context.Context, id uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithRecord(ctx, string(enums.RecordTypeProcurement), id.String()), msg)
}

func (s *Service) logBatch(ctx context.Context, msg string, result lifecycle.BatchResult) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"soft_deleted": len(result.SoftDeleted),
		"hard_deleted": len(result.HardDeleted),
		"restored":     len(result.Restored),
		"skipped":      len(result.Skipped),
	})
	s.logg.Info(logCtx, msg)
}
