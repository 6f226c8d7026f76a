package deployments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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

// ServiceParams wires the deployment lifecycle.
type ServiceParams struct {
	DB              dbpkg.TxRunner
	Repository      *Repository
	Ledger          *parts.Ledger
	Users           creatorResolver
	References      *refindex.Repository
	Events          eventEmitter
	TrackCodeLength int
	Logger          *logger.Logger
	Now             func() time.Time
	NewTrackCode    func(length int) string
}

// Service consumes part stock through deployment lines.
type Service struct {
	db           dbpkg.TxRunner
	repo         *Repository
	ledger       *parts.Ledger
	users        creatorResolver
	refs         *refindex.Repository
	events       eventEmitter
	codeLength   int
	logg         *logger.Logger
	now          func() time.Time
	newTrackCode func(length int) string
	validate     *validator.Validate
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, errors.New("transaction runner required")
	}
	if params.Repository == nil {
		return nil, errors.New("deployment repository required")
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
	codeLength := params.TrackCodeLength
	if codeLength <= 0 {
		codeLength = DefaultTrackCodeLength
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	gen := params.NewTrackCode
	if gen == nil {
		gen = newTrackCode
	}
	return &Service{
		db:           params.DB,
		repo:         params.Repository,
		ledger:       params.Ledger,
		users:        params.Users,
		refs:         params.References,
		events:       params.Events,
		codeLength:   codeLength,
		logg:         params.Logger,
		now:          now,
		newTrackCode: gen,
		validate:     validator.New(),
	}, nil
}

// parsedLine is a line whose composite key has been validated.
type parsedLine struct {
	Key parts.Key
	Qty int
}

// parseLines validates every line before any database access.
func parseLines(lines []LineInput) ([]parsedLine, error) {
	out := make([]parsedLine, 0, len(lines))
	seen := make(map[parts.Key]struct{}, len(lines))
	for i, line := range lines {
		key, err := parts.ParseKey(line.Part)
		if err != nil {
			return nil, err
		}
		if line.QuantityUsed <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("parts[%d].quantityUsed must be greater than zero", i)).
				WithDetails(map[string]any{"partKey": key.String(), "quantityUsed": line.QuantityUsed})
		}
		if _, dup := seen[key]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("part %q is listed more than once", key.String())).
				WithDetails(map[string]any{"partKey": key.String()})
		}
		seen[key] = struct{}{}
		out = append(out, parsedLine{Key: key, Qty: line.QuantityUsed})
	}
	return out, nil
}

// resolvedLine pairs a parsed line with its part row.
type resolvedLine struct {
	Part models.Part
	Qty  int
}

// resolveLines finds each referenced part. Deployments never create parts.
func (s *Service) resolveLines(ctx context.Context, tx *gorm.DB, lines []parsedLine) ([]resolvedLine, error) {
	out := make([]resolvedLine, 0, len(lines))
	for _, line := range lines {
		part, err := s.ledger.Find(ctx, tx, line.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, resolvedLine{Part: *part, Qty: line.Qty})
	}
	return out, nil
}

func requireActive(line resolvedLine) error {
	if !line.Part.Deleted {
		return nil
	}
	key := parts.Key{PartName: line.Part.PartName, BrandName: line.Part.BrandName}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("part %q not found", key.String())).
		WithDetails(map[string]any{"partKey": key.String(), "deleted": true})
}

func toLineModels(lines []resolvedLine) []models.DeploymentLine {
	out := make([]models.DeploymentLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.DeploymentLine{PartID: line.Part.ID, QuantityUsed: line.Qty})
	}
	return out
}

func (s *Service) List(ctx context.Context, query ListQuery) ([]DeploymentDTO, int64, error) {
	page := pagination.Params{
		Start: query.Start,
		End:   query.End,
		Sort:  query.Sort,
		Order: pagination.ParseOrder(query.Order),
	}
	rows, total, err := s.repo.List(ctx, ListFilter{SearchField: query.SearchField, SearchValue: query.SearchValue}, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list deployments")
	}
	out := make([]DeploymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*DeploymentDTO, error) {
	d, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return FromModel(d), nil
}

// Track returns the client-portal view for a tracking code.
func (s *Service) Track(ctx context.Context, code string) (*TrackingView, error) {
	normalized := NormalizeTrackCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Please provide a valid tracking code")
	}
	d, err := s.repo.FindActiveByTrackCode(ctx, normalized)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "No vehicle found with that tracking code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find deployment by track code")
	}
	return toTrackingView(d), nil
}

// Create opens a repair job. Every line is resolved and the combined stock
// demand is checked before any quantity moves.
func (s *Service) Create(ctx context.Context, input CreateDeploymentDTO) (*DeploymentDTO, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deployment")
	}
	lines, err := parseLines(input.Lines)
	if err != nil {
		return nil, err
	}
	record := &models.Deployment{
		Date:         strings.TrimSpace(input.Date),
		ClientName:   strings.TrimSpace(input.ClientName),
		VehicleModel: strings.TrimSpace(input.VehicleModel),
		ArrivalDate:  strings.TrimSpace(input.ArrivalDate),
	}
	status := statusPatch{
		DeploymentStatus: &input.DeploymentStatus,
		DeploymentDate:   input.DeploymentDate,
		ReleaseStatus:    &input.ReleaseStatus,
		ReleaseDate:      input.ReleaseDate,
		RepairedDate:     input.RepairedDate,
	}
	if input.RepairStatus != "" {
		status.RepairStatus = &input.RepairStatus
	}
	if err := applyStatus(record, status); err != nil {
		return nil, err
	}

	created, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (*models.Deployment, error) {
		repo := s.repo.WithTx(tx)

		creator, err := s.users.ResolveCreator(ctx, tx, input.CreatorEmail)
		if err != nil {
			return nil, err
		}
		resolved, err := s.resolveLines(ctx, tx, lines)
		if err != nil {
			return nil, err
		}
		changes := make(map[uuid.UUID]int, len(resolved))
		for _, line := range resolved {
			if err := requireActive(line); err != nil {
				return nil, err
			}
			changes[line.Part.ID] -= line.Qty
		}
		if err := s.ledger.CheckAvailable(ctx, tx, changes); err != nil {
			return nil, err
		}

		code, err := s.assignTrackCode(ctx, repo, input.TrackCode)
		if err != nil {
			return nil, err
		}
		seq := 0
		if input.Seq != nil {
			seq = *input.Seq
		} else if seq, err = repo.NextSeq(ctx); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next deployment seq")
		}

		if err := s.ledger.ApplyChanges(ctx, tx, changes); err != nil {
			return nil, err
		}

		record.Seq = seq
		record.TrackCode = code
		record.CreatorID = creator.ID
		if err := repo.Create(ctx, record, toLineModels(resolved)); err != nil {
			if dbpkg.IsUniqueViolation(err, "ux_deployments_track_code") {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "track code already in use")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create deployment")
		}

		owners := []refindex.Owner{refindex.UserOwner(creator.ID)}
		for _, line := range resolved {
			owners = append(owners, refindex.PartOwner(line.Part.ID))
		}
		if err := s.refs.WithTx(tx).Add(ctx, enums.RecordTypeDeployment, record.ID, owners...); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: index deployment")
		}

		out, err := s.load(ctx, repo, record.ID)
		if err != nil {
			return nil, err
		}
		if err := s.emit(ctx, tx, enums.EventDeploymentCreated, out, changes); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.logRecord(ctx, created.ID, "deployment.created")
	return FromModel(created), nil
}

// Update patches a deployment. A new lines list is diffed against the stored
// one by part; every resulting change is validated before the first write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateDeploymentDTO) (*DeploymentDTO, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid deployment")
	}
	var lines []parsedLine
	if input.Lines != nil {
		parsed, err := parseLines(*input.Lines)
		if err != nil {
			return nil, err
		}
		lines = parsed
	}

	updated, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (*models.Deployment, error) {
		repo := s.repo.WithTx(tx)

		record, err := s.load(ctx, repo, id)
		if err != nil {
			return nil, err
		}
		if record.Deleted {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deleted deployments cannot be updated; restore it first")
		}

		if err := applyStatus(record, statusPatch{
			DeploymentStatus: input.DeploymentStatus,
			DeploymentDate:   input.DeploymentDate,
			ReleaseStatus:    input.ReleaseStatus,
			ReleaseDate:      input.ReleaseDate,
			RepairStatus:     input.RepairStatus,
			RepairedDate:     input.RepairedDate,
		}); err != nil {
			return nil, err
		}

		var (
			changes  map[uuid.UUID]int
			resolved []resolvedLine
			added    []uuid.UUID
			removed  []uuid.UUID
		)
		if input.Lines != nil {
			resolved, err = s.resolveLines(ctx, tx, lines)
			if err != nil {
				return nil, err
			}
			changes, added, removed, err = diffLines(record.Lines, resolved)
			if err != nil {
				return nil, err
			}
			if err := s.ledger.CheckAvailable(ctx, tx, changes); err != nil {
				return nil, err
			}
		}

		applyFields(record, input)
		record.Lines = nil
		if err := repo.Save(ctx, record); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update deployment")
		}

		if input.Lines != nil {
			if err := s.ledger.ApplyChanges(ctx, tx, changes); err != nil {
				return nil, err
			}
			if err := repo.ReplaceLines(ctx, record.ID, toLineModels(resolved)); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace deployment lines")
			}
			refs := s.refs.WithTx(tx)
			if err := refs.Remove(ctx, enums.RecordTypeDeployment, record.ID, partOwners(removed)...); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unindex deployment")
			}
			if err := refs.Add(ctx, enums.RecordTypeDeployment, record.ID, partOwners(added)...); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: index deployment")
			}
		}

		out, err := s.load(ctx, repo, record.ID)
		if err != nil {
			return nil, err
		}
		if err := s.emit(ctx, tx, enums.EventDeploymentUpdated, out, changes); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	s.logRecord(ctx, updated.ID, "deployment.updated")
	return FromModel(updated), nil
}

// diffLines computes the signed stock change per part when current lines are
// replaced by next. Parts that newly appear must be active.
func diffLines(current []models.DeploymentLine, next []resolvedLine) (changes map[uuid.UUID]int, added, removed []uuid.UUID, err error) {
	old := make(map[uuid.UUID]int, len(current))
	for _, line := range current {
		old[line.PartID] += line.QuantityUsed
	}
	changes = make(map[uuid.UUID]int, len(current)+len(next))
	seen := make(map[uuid.UUID]struct{}, len(next))
	for _, line := range next {
		seen[line.Part.ID] = struct{}{}
		prev, existed := old[line.Part.ID]
		if !existed {
			if err := requireActive(line); err != nil {
				return nil, nil, nil, err
			}
			added = append(added, line.Part.ID)
		}
		if delta := prev - line.Qty; delta != 0 {
			changes[line.Part.ID] = delta
		}
	}
	for partID, qty := range old {
		if _, kept := seen[partID]; kept {
			continue
		}
		changes[partID] = qty
		removed = append(removed, partID)
	}
	return changes, parts.SortedIDs(added), parts.SortedIDs(removed), nil
}

func partOwners(ids []uuid.UUID) []refindex.Owner {
	owners := make([]refindex.Owner, 0, len(ids))
	for _, id := range ids {
		owners = append(owners, refindex.PartOwner(id))
	}
	return owners
}

func applyFields(d *models.Deployment, input UpdateDeploymentDTO) {
	if input.Seq != nil {
		d.Seq = *input.Seq
	}
	if input.Date != nil {
		d.Date = strings.TrimSpace(*input.Date)
	}
	if input.ClientName != nil {
		d.ClientName = strings.TrimSpace(*input.ClientName)
	}
	if input.VehicleModel != nil {
		d.VehicleModel = strings.TrimSpace(*input.VehicleModel)
	}
	if input.ArrivalDate != nil {
		d.ArrivalDate = strings.TrimSpace(*input.ArrivalDate)
	}
}

// Delete runs the two-phase delete for a comma-joined id list in one
// transaction. The first phase returns every line's quantity to stock.
func (s *Service) Delete(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error) {
	ids, err := lifecycle.ParseIDs(rawIDs)
	if err != nil {
		return lifecycle.BatchResult{}, err
	}

	result, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (lifecycle.BatchResult, error) {
		repo := s.repo.WithTx(tx)
		return lifecycle.RunDelete(ctx, ids, lifecycle.DeleteSteps[*models.Deployment]{
			Load:      s.batchLoader(repo),
			IsDeleted: func(d *models.Deployment) bool { return d.Deleted },
			SoftDelete: func(ctx context.Context, d *models.Deployment) error {
				at := s.now().UTC()
				if err := repo.SetDeleted(ctx, d.ID, true, &at); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: soft delete deployment")
				}
				d.Deleted = true
				d.DeletedAt = &at
				changes := lineChanges(d.Lines, 1)
				if err := s.ledger.ApplyChanges(ctx, tx, changes); err != nil {
					return err
				}
				return s.emit(ctx, tx, enums.EventDeploymentSoftDeleted, d, changes)
			},
			HardDelete: func(ctx context.Context, d *models.Deployment) error {
				if err := repo.Delete(ctx, d.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete deployment")
				}
				if err := s.refs.WithTx(tx).RemoveRecord(ctx, enums.RecordTypeDeployment, d.ID); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: unindex deployment")
				}
				return s.emit(ctx, tx, enums.EventDeploymentHardDeleted, d, nil)
			},
		})
	})
	if err != nil {
		return lifecycle.BatchResult{}, err
	}
	s.logBatch(ctx, "deployment.deleted", result)
	return result, nil
}

// Restore re-consumes the stock of soft-deleted deployments. A line whose
// part is gone or soft-deleted rejects the whole call.
func (s *Service) Restore(ctx context.Context, rawIDs string) (lifecycle.BatchResult, error) {
	ids, err := lifecycle.ParseIDs(rawIDs)
	if err != nil {
		return lifecycle.BatchResult{}, err
	}

	result, err := dbpkg.InTx(ctx, s.db, func(tx *gorm.DB) (lifecycle.BatchResult, error) {
		repo := s.repo.WithTx(tx)
		return lifecycle.RunRestore(ctx, ids, lifecycle.RestoreSteps[*models.Deployment]{
			Load:      s.batchLoader(repo),
			IsDeleted: func(d *models.Deployment) bool { return d.Deleted },
			Restore: func(ctx context.Context, d *models.Deployment) error {
				if err := s.guardRestore(ctx, tx, d); err != nil {
					return err
				}
				changes := lineChanges(d.Lines, -1)
				if err := s.ledger.CheckAvailable(ctx, tx, changes); err != nil {
					return err
				}
				if err := s.ledger.ApplyChanges(ctx, tx, changes); err != nil {
					return err
				}
				if err := repo.SetDeleted(ctx, d.ID, false, nil); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore deployment")
				}
				d.Deleted = false
				d.DeletedAt = nil
				return s.emit(ctx, tx, enums.EventDeploymentRestored, d, changes)
			},
		})
	})
	if err != nil {
		return lifecycle.BatchResult{}, err
	}
	s.logBatch(ctx, "deployment.restored", result)
	return result, nil
}

func (s *Service) guardRestore(ctx context.Context, tx *gorm.DB, d *models.Deployment) error {
	ids := make([]uuid.UUID, 0, len(d.Lines))
	for _, line := range d.Lines {
		ids = append(ids, line.PartID)
	}
	found, err := parts.NewRepository(tx).FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load deployment parts")
	}
	for _, line := range d.Lines {
		part, ok := found[line.PartID]
		if ok && !part.Deleted {
			continue
		}
		details := map[string]any{"deploymentId": d.ID.String(), "partId": line.PartID.String()}
		msg := fmt.Sprintf("cannot restore deployment %d: part %s no longer exists", d.Seq, line.PartID)
		if ok {
			key := parts.Key{PartName: part.PartName, BrandName: part.BrandName}.String()
			details["partKey"] = key
			msg = fmt.Sprintf("cannot restore deployment %d: part %q is deleted", d.Seq, key)
		}
		return pkgerrors.New(pkgerrors.CodeCannotRestore, msg).WithDetails(details)
	}
	return nil
}

// lineChanges maps every line to sign*quantity on its part.
func lineChanges(lines []models.DeploymentLine, sign int) map[uuid.UUID]int {
	changes := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		changes[line.PartID] += sign * line.QuantityUsed
	}
	return changes
}

func (s *Service) assignTrackCode(ctx context.Context, repo *Repository, requested string) (string, error) {
	if code := NormalizeTrackCode(requested); code != "" {
		exists, err := repo.TrackCodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check track code")
		}
		if exists {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "track code already in use").
				WithDetails(map[string]any{"trackCode": code})
		}
		return code, nil
	}
	for attempt := 0; attempt < trackCodeAttempts; attempt++ {
		code := s.newTrackCode(s.codeLength)
		exists, err := repo.TrackCodeExists(ctx, code)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check track code")
		}
		if !exists {
			return code, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, "could not allocate a unique track code")
}

func (s *Service) load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Deployment, error) {
	d, err := repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deployment not found").
				WithDetails(map[string]any{"id": id.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find deployment")
	}
	return d, nil
}

func (s *Service) batchLoader(repo *Repository) lifecycle.Loader[*models.Deployment] {
	return func(ctx context.Context, id uuid.UUID) (*models.Deployment, error) {
		d, err := repo.FindByID(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				return nil, lifecycle.ErrNotLoaded
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find deployment")
		}
		return d, nil
	}
}

func (s *Service) emit(ctx context.Context, tx *gorm.DB, eventType enums.OutboxEventType, d *models.Deployment, changes map[uuid.UUID]int) error {
	if s.events == nil {
		return nil
	}
	lines := make([]payloads.DeploymentLine, 0, len(d.Lines))
	for _, line := range d.Lines {
		lines = append(lines, payloads.DeploymentLine{PartID: line.PartID, QuantityUsed: line.QuantityUsed})
	}
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateDeployment,
		AggregateID:   d.ID,
		Version:       1,
		Data: payloads.DeploymentEvent{
			DeploymentID: d.ID,
			Seq:          d.Seq,
			TrackCode:    d.TrackCode,
			RepairStatus: d.RepairStatus.OrDefault().String(),
			Lines:        lines,
			QtyChanges:   changes,
			Deleted:      d.Deleted,
		},
	}
	if err := s.events.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit deployment event")
	}
	return nil
}

func (s *Service) logRecord(ctx context.Context, id uuid.UUID, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Info(s.logg.WithRecord(ctx, string(enums.RecordTypeDeployment), id.String()), msg)
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
