package deployments

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/autoshop-backend/internal/parts"
	"github.com/angelmondragon/autoshop-backend/internal/procurements"
	"github.com/angelmondragon/autoshop-backend/internal/refindex"
	"github.com/angelmondragon/autoshop-backend/internal/users"
	"github.com/angelmondragon/autoshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox"
)

const creatorEmail = "mech@shop.example"

type harness struct {
	svc   *Service
	procs *procurements.Service
	conn  *gorm.DB
	refs  *refindex.Repository
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	client, conn := dbtest.Client(t)
	logg := logger.New(logger.Options{ServiceName: "deployments-test", Output: io.Discard})

	events, err := outbox.NewService(outbox.NewRepository(conn), logg)
	require.NoError(t, err)
	ledger, err := parts.NewLedger(parts.LedgerParams{
		Repository: parts.NewRepository(conn),
		Events:     events,
		Logger:     logg,
	})
	require.NoError(t, err)
	userSvc, err := users.NewService(users.NewRepository(conn))
	require.NoError(t, err)
	refs := refindex.NewRepository(conn)

	procs, err := procurements.NewService(procurements.ServiceParams{
		DB:         client,
		Repository: procurements.NewRepository(conn),
		Ledger:     ledger,
		Users:      userSvc,
		References: refs,
		Events:     events,
		Policy:     enums.RestorePolicyReactivateOnly,
		Logger:     logg,
	})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		DB:         client,
		Repository: NewRepository(conn),
		Ledger:     ledger,
		Users:      userSvc,
		References: refs,
		Events:     events,
		Logger:     logg,
	})
	require.NoError(t, err)

	dbtest.MustCreateUser(t, conn, creatorEmail)
	return &harness{svc: svc, procs: procs, conn: conn, refs: refs}
}

func (h *harness) stock(t *testing.T, part string, qty int) *procurements.ProcurementDTO {
	t.Helper()
	out, err := h.procs.Create(context.Background(), procurements.CreateProcurementDTO{
		CreatorEmail:   creatorEmail,
		Date:           "2024-03-01",
		SupplierName:   "Acme Parts",
		Part:           part,
		QuantityBought: qty,
		Amount:         decimal.NewFromInt(int64(qty * 50)),
		NetOfVAT:       decimal.NewFromInt(int64(qty * 45)),
		InputVAT:       decimal.NewFromInt(int64(qty * 5)),
	})
	require.NoError(t, err)
	return out
}

func newJob(lines ...LineInput) CreateDeploymentDTO {
	return CreateDeploymentDTO{
		CreatorEmail: creatorEmail,
		Date:         "2024-03-05",
		ClientName:   "Dana Reyes",
		VehicleModel: "Toyota Vios 2019",
		ArrivalDate:  "2024-03-04",
		Lines:        lines,
	}
}

func line(part string, qty int) LineInput {
	return LineInput{Part: part, QuantityUsed: qty}
}

func (h *harness) qty(t *testing.T, id uuid.UUID) int {
	t.Helper()
	return dbtest.MustLoadPart(t, h.conn, id).QtyLeft
}

func (h *harness) deployment(t *testing.T, id uuid.UUID) models.Deployment {
	t.Helper()
	var d models.Deployment
	require.NoError(t, h.conn.First(&d, "id = ?", id).Error)
	return d
}

func TestDeploymentLifecycleReturnsStockOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Brake Pad|Brembo", 10)
	job, err := h.svc.Create(ctx, newJob(line("Brake Pad|Brembo", 4)))
	require.NoError(t, err)
	require.Equal(t, 6, h.qty(t, p.PartID))
	require.Len(t, job.Parts, 1)
	require.Equal(t, "Brake Pad", job.Parts[0].PartName)
	require.Equal(t, enums.RepairStatusPending, job.RepairStatus)
	require.Len(t, job.TrackCode, DefaultTrackCodeLength)
	require.Equal(t, 1, job.Seq)

	ids, err := h.refs.ListRecordIDs(ctx, refindex.PartOwner(p.PartID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{job.ID}, ids)

	res, err := h.svc.Delete(ctx, job.ID.String())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{job.ID}, res.SoftDeleted)
	require.Equal(t, 10, h.qty(t, p.PartID))

	res, err = h.svc.Delete(ctx, job.ID.String())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{job.ID}, res.HardDeleted)
	require.Equal(t, 10, h.qty(t, p.PartID))

	var lines int64
	require.NoError(t, h.conn.Model(&models.DeploymentLine{}).Count(&lines).Error)
	require.Zero(t, lines)
	ids, err = h.refs.ListRecordIDs(ctx, refindex.PartOwner(p.PartID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestCreateIsAllOrNothingAcrossLines(t *testing.T) {
	h := newHarness(t)

	pads := h.stock(t, "Brake Pad|Brembo", 10)
	oil := h.stock(t, "Engine Oil|Shell", 2)

	_, err := h.svc.Create(context.Background(), newJob(
		line("Brake Pad|Brembo", 4),
		line("Engine Oil|Shell", 3),
	))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientQuantity), "got %v", err)
	require.Equal(t, 10, h.qty(t, pads.PartID))
	require.Equal(t, 2, h.qty(t, oil.PartID))

	var n int64
	require.NoError(t, h.conn.Model(&models.Deployment{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestCreateValidatesLines(t *testing.T) {
	h := newHarness(t)
	h.stock(t, "Brake Pad|Brembo", 10)
	ctx := context.Background()

	_, err := h.svc.Create(ctx, newJob(line("Brake Pad", 1)))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeMalformedCompositeKey), "got %v", err)

	_, err = h.svc.Create(ctx, newJob(line("Brake Pad|Brembo", 0)))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = h.svc.Create(ctx, newJob(line("Brake Pad|Brembo", 1), line(" Brake Pad | Brembo", 2)))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = h.svc.Create(ctx, newJob(line("Wiper|Bosch", 1)))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)

	job := newJob()
	job.CreatorEmail = "ghost@shop.example"
	_, err = h.svc.Create(ctx, job)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestCreateRejectsSoftDeletedPart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Radiator|Denso", 2)
	_, err := h.procs.Delete(ctx, p.ID.String())
	require.NoError(t, err)

	_, err = h.svc.Create(ctx, newJob(line("Radiator|Denso", 1)))
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestDeletingUsedProcurementStillCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Filter|Denso", 10)
	_, err := h.svc.Create(ctx, newJob(line("Filter|Denso", 4)))
	require.NoError(t, err)

	_, err = h.procs.Delete(ctx, p.ID.String())
	require.NoError(t, err)
	part := dbtest.MustLoadPart(t, h.conn, p.PartID)
	require.Equal(t, -4, part.QtyLeft)
	require.True(t, part.Deleted)
}

func TestUpdateRaisingLineBeyondStockChangesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Spark Plug|NGK", 5)
	job, err := h.svc.Create(ctx, newJob(line("Spark Plug|NGK", 3)))
	require.NoError(t, err)
	require.Equal(t, 2, h.qty(t, p.PartID))

	lines := []LineInput{line("Spark Plug|NGK", 7)}
	_, err = h.svc.Update(ctx, job.ID, UpdateDeploymentDTO{Lines: &lines})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientQuantity), "got %v", err)

	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, 4, details["requested"])
	require.Equal(t, 2, details["available"])

	require.Equal(t, 2, h.qty(t, p.PartID))
	got, err := h.svc.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, 3, got.Parts[0].QuantityUsed)
}

func TestUpdateLinesAppliesPerPartDiff(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	plugs := h.stock(t, "Spark Plug|NGK", 10)
	belts := h.stock(t, "Timing Belt|Gates", 4)
	coils := h.stock(t, "Ignition Coil|Denso", 6)

	job, err := h.svc.Create(ctx, newJob(line("Spark Plug|NGK", 4), line("Timing Belt|Gates", 1)))
	require.NoError(t, err)

	lines := []LineInput{line("Spark Plug|NGK", 2), line("Ignition Coil|Denso", 5)}
	out, err := h.svc.Update(ctx, job.ID, UpdateDeploymentDTO{Lines: &lines})
	require.NoError(t, err)
	require.Len(t, out.Parts, 2)

	require.Equal(t, 8, h.qty(t, plugs.PartID))
	require.Equal(t, 4, h.qty(t, belts.PartID))
	require.Equal(t, 1, h.qty(t, coils.PartID))

	ids, err := h.refs.ListRecordIDs(ctx, refindex.PartOwner(belts.PartID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Empty(t, ids)
	ids, err = h.refs.ListRecordIDs(ctx, refindex.PartOwner(coils.PartID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{job.ID}, ids)
}

func TestUpdateWithoutLinesKeepsStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Alternator|Bosch", 3)
	job, err := h.svc.Create(ctx, newJob(line("Alternator|Bosch", 1)))
	require.NoError(t, err)

	name := "Dana R. Reyes"
	repaired := "Repaired"
	date := "2024-03-07"
	out, err := h.svc.Update(ctx, job.ID, UpdateDeploymentDTO{ClientName: &name, RepairStatus: &repaired, RepairedDate: &date})
	require.NoError(t, err)
	require.Equal(t, name, out.ClientName)
	require.Equal(t, enums.RepairStatusRepaired, out.RepairStatus)
	require.Equal(t, &date, out.RepairedDate)
	require.Len(t, out.Parts, 1)
	require.Equal(t, 2, h.qty(t, p.PartID))
}

func TestReleaseRequiresRepaired(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	job := newJob()
	job.ReleaseStatus = true
	_, err := h.svc.Create(ctx, job)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict), "got %v", err)

	job.RepairStatus = "repaired"
	created, err := h.svc.Create(ctx, job)
	require.NoError(t, err)
	require.True(t, created.ReleaseStatus)

	pending := "Pending"
	_, err = h.svc.Update(ctx, created.ID, UpdateDeploymentDTO{RepairStatus: &pending})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict), "got %v", err)
}

func TestUpdateDeletedDeploymentIsRejected(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	job, err := h.svc.Create(ctx, newJob())
	require.NoError(t, err)
	_, err = h.svc.Delete(ctx, job.ID.String())
	require.NoError(t, err)

	name := "Someone Else"
	_, err = h.svc.Update(ctx, job.ID, UpdateDeploymentDTO{ClientName: &name})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict), "got %v", err)
}

func TestBulkDeleteWithMalformedIDTouchesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Fan Belt|Gates", 5)
	a, err := h.svc.Create(ctx, newJob(line("Fan Belt|Gates", 1)))
	require.NoError(t, err)
	b, err := h.svc.Create(ctx, newJob(line("Fan Belt|Gates", 2)))
	require.NoError(t, err)

	_, err = h.svc.Delete(ctx, a.ID.String()+",abc,"+b.ID.String())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidIDFormat), "got %v", err)
	require.False(t, h.deployment(t, a.ID).Deleted)
	require.False(t, h.deployment(t, b.ID).Deleted)
	require.Equal(t, 2, h.qty(t, p.PartID))
}

func TestRestoreReconsumesStock(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Air Filter|K&N", 5)
	job, err := h.svc.Create(ctx, newJob(line("Air Filter|K&N", 2)))
	require.NoError(t, err)
	_, err = h.svc.Delete(ctx, job.ID.String())
	require.NoError(t, err)
	require.Equal(t, 5, h.qty(t, p.PartID))

	res, err := h.svc.Restore(ctx, job.ID.String())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{job.ID}, res.Restored)
	require.Equal(t, 3, h.qty(t, p.PartID))
	require.False(t, h.deployment(t, job.ID).Deleted)

	_, err = h.svc.Restore(ctx, job.ID.String())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNothingToRestore), "got %v", err)
}

func TestRestoreBlockedByDeletedPart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Brake Pad|Brembo", 5)
	job, err := h.svc.Create(ctx, newJob(line("Brake Pad|Brembo", 2)))
	require.NoError(t, err)
	_, err = h.svc.Delete(ctx, job.ID.String())
	require.NoError(t, err)
	_, err = h.procs.Delete(ctx, p.ID.String())
	require.NoError(t, err)
	require.True(t, dbtest.MustLoadPart(t, h.conn, p.PartID).Deleted)

	_, err = h.svc.Restore(ctx, job.ID.String())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeCannotRestore), "got %v", err)
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Brake Pad|Brembo", details["partKey"])
	require.True(t, h.deployment(t, job.ID).Deleted)
}

func TestRestoreFailsWhenStockWasConsumed(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	p := h.stock(t, "Wiper|Bosch", 3)
	first, err := h.svc.Create(ctx, newJob(line("Wiper|Bosch", 2)))
	require.NoError(t, err)
	_, err = h.svc.Delete(ctx, first.ID.String())
	require.NoError(t, err)
	_, err = h.svc.Create(ctx, newJob(line("Wiper|Bosch", 2)))
	require.NoError(t, err)

	_, err = h.svc.Restore(ctx, first.ID.String())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeInsufficientQuantity), "got %v", err)
	require.Equal(t, 1, h.qty(t, p.PartID))
}

func TestTrackCodeHandling(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.stock(t, "Oil Filter|Bosch", 5)
	job := newJob(line("Oil Filter|Bosch", 1))
	job.TrackCode = "abcd1234"
	created, err := h.svc.Create(ctx, job)
	require.NoError(t, err)
	require.Equal(t, "ABCD1234", created.TrackCode)

	_, err = h.svc.Create(ctx, job)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict), "got %v", err)

	view, err := h.svc.Track(ctx, " abcd1234 ")
	require.NoError(t, err)
	require.Equal(t, "ABCD1234", view.TrackCode)
	require.Equal(t, "Dana Reyes", view.ClientName)
	require.Len(t, view.Parts, 1)
	require.Equal(t, "Oil Filter", view.Parts[0].PartName)

	_, err = h.svc.Track(ctx, "   ")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), "got %v", err)

	_, err = h.svc.Delete(ctx, created.ID.String())
	require.NoError(t, err)
	_, err = h.svc.Track(ctx, "ABCD1234")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound), "got %v", err)
}

func TestTrackCodeGenerationRetriesCollisions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	codes := []string{"AAAA1111", "AAAA1111", "BBBB2222"}
	h.svc.newTrackCode = func(int) string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	first, err := h.svc.Create(ctx, newJob())
	require.NoError(t, err)
	second, err := h.svc.Create(ctx, newJob())
	require.NoError(t, err)
	require.Equal(t, "AAAA1111", first.TrackCode)
	require.Equal(t, "BBBB2222", second.TrackCode)
	require.Equal(t, 2, second.Seq)
}

func TestListSearchesAndIncludesDeleted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a, err := h.svc.Create(ctx, newJob())
	require.NoError(t, err)
	other := newJob()
	other.ClientName = "Marco Lim"
	other.VehicleModel = "Honda City"
	_, err = h.svc.Create(ctx, other)
	require.NoError(t, err)
	_, err = h.svc.Delete(ctx, a.ID.String())
	require.NoError(t, err)

	all, total, err := h.svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, all, 2)

	found, total, err := h.svc.List(ctx, ListQuery{SearchField: "vehicleModel", SearchValue: "honda"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "Marco Lim", found[0].ClientName)
}

func TestGetMissingDeployment(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Get(context.Background(), uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
