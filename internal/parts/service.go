package parts

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/angelmondragon/autoshop-backend/internal/refindex"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
	"github.com/angelmondragon/autoshop-backend/pkg/pagination"
)

// Service serves read access to parts. Stock changes go through Ledger.
type Service struct {
	repo *Repository
	refs *refindex.Repository
}

func NewService(repo *Repository, refs *refindex.Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New("part repository required")
	}
	if refs == nil {
		return nil, errors.New("reference index required")
	}
	return &Service{repo: repo, refs: refs}, nil
}

func (s *Service) List(ctx context.Context, query ListQuery) ([]PartDTO, int64, error) {
	page := pagination.Params{
		Start: query.Start,
		End:   query.End,
		Sort:  query.Sort,
		Order: pagination.ParseOrder(query.Order),
	}
	rows, total, err := s.repo.List(ctx, ListFilter{Search: query.Search, IncludeDeleted: query.IncludeDeleted}, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list parts")
	}
	out := make([]PartDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, total, nil
}

// Get returns a part with the ids of every procurement and deployment indexed under it.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PartDTO, error) {
	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found").
				WithDetails(map[string]any{"id": id.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find part")
	}
	out := FromModel(part)

	owner := refindex.PartOwner(id)
	if out.ProcurementIDs, err = s.refs.ListRecordIDs(ctx, owner, enums.RecordTypeProcurement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list part procurements")
	}
	if out.DeploymentIDs, err = s.refs.ListRecordIDs(ctx, owner, enums.RecordTypeDeployment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list part deployments")
	}
	return out, nil
}
