package refindex

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/autoshop-backend/pkg/db/dbtest"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
)

func TestRepositoryAddIsIdempotent(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	partID := uuid.New()
	recordID := uuid.New()

	require.NoError(t, repo.Add(ctx, enums.RecordTypeProcurement, recordID, PartOwner(partID)))
	require.NoError(t, repo.Add(ctx, enums.RecordTypeProcurement, recordID, PartOwner(partID)))

	ids, err := repo.ListRecordIDs(ctx, PartOwner(partID), enums.RecordTypeProcurement)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{recordID}, ids)
}

func TestRepositoryRemoveOnlyTouchesNamedOwner(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	partID := uuid.New()
	userID := uuid.New()
	recordID := uuid.New()

	require.NoError(t, repo.Add(ctx, enums.RecordTypeDeployment, recordID, PartOwner(partID), UserOwner(userID)))
	require.NoError(t, repo.Remove(ctx, enums.RecordTypeDeployment, recordID, PartOwner(partID)))

	partIDs, err := repo.ListRecordIDs(ctx, PartOwner(partID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Empty(t, partIDs)

	userIDs, err := repo.ListRecordIDs(ctx, UserOwner(userID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{recordID}, userIDs)
}

func TestRepositoryRemoveRecordDetachesEveryOwner(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	partID := uuid.New()
	userID := uuid.New()
	recordID := uuid.New()
	other := uuid.New()

	require.NoError(t, repo.Add(ctx, enums.RecordTypeProcurement, recordID, PartOwner(partID), UserOwner(userID)))
	require.NoError(t, repo.Add(ctx, enums.RecordTypeProcurement, other, PartOwner(partID)))
	require.NoError(t, repo.RemoveRecord(ctx, enums.RecordTypeProcurement, recordID))

	partIDs, err := repo.ListRecordIDs(ctx, PartOwner(partID), enums.RecordTypeProcurement)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{other}, partIDs)

	userIDs, err := repo.ListRecordIDs(ctx, UserOwner(userID), enums.RecordTypeProcurement)
	require.NoError(t, err)
	require.Empty(t, userIDs)
}

func TestRepositoryListSeparatesRecordTypes(t *testing.T) {
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	partID := uuid.New()
	procurementID := uuid.New()
	deploymentID := uuid.New()

	require.NoError(t, repo.Add(ctx, enums.RecordTypeProcurement, procurementID, PartOwner(partID)))
	require.NoError(t, repo.Add(ctx, enums.RecordTypeDeployment, deploymentID, PartOwner(partID)))

	ids, err := repo.ListRecordIDs(ctx, PartOwner(partID), enums.RecordTypeDeployment)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{deploymentID}, ids)
}
