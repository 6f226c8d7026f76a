package deployments

import (
	"strings"

	"github.com/angelmondragon/autoshop-backend/pkg/db/models"
	"github.com/angelmondragon/autoshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/autoshop-backend/pkg/errors"
)

// statusPatch carries the independently updatable status fields.
type statusPatch struct {
	DeploymentStatus *bool
	DeploymentDate   *string
	ReleaseStatus    *bool
	ReleaseDate      *string
	RepairStatus     *string
	RepairedDate     *string
}

// applyStatus merges patch into d. A date survives only while its status
// holds, and a vehicle can be released only once it is repaired.
func applyStatus(d *models.Deployment, patch statusPatch) error {
	repair := d.RepairStatus.OrDefault()
	if patch.RepairStatus != nil && strings.TrimSpace(*patch.RepairStatus) != "" {
		parsed, err := enums.ParseRepairStatus(*patch.RepairStatus)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid repairStatus").
				WithDetails(map[string]any{"repairStatus": *patch.RepairStatus})
		}
		repair = parsed
	}

	release := d.ReleaseStatus
	if patch.ReleaseStatus != nil {
		release = *patch.ReleaseStatus
	}
	if release && repair != enums.RepairStatusRepaired {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "a vehicle can only be released once its repair status is Repaired").
			WithDetails(map[string]any{"repairStatus": repair.String()})
	}

	if patch.DeploymentStatus != nil {
		d.DeploymentStatus = *patch.DeploymentStatus
	}
	d.DeploymentDate = dateWhile(d.DeploymentStatus, d.DeploymentDate, patch.DeploymentDate)

	d.RepairStatus = repair
	d.RepairedDate = dateWhile(repair == enums.RepairStatusRepaired, d.RepairedDate, patch.RepairedDate)

	d.ReleaseStatus = release
	d.ReleaseDate = dateWhile(release, d.ReleaseDate, patch.ReleaseDate)
	return nil
}

// dateWhile keeps a status date only while the status holds.
func dateWhile(active bool, current, next *string) *string {
	if !active {
		return nil
	}
	if next != nil {
		trimmed := strings.TrimSpace(*next)
		if trimmed == "" {
			return nil
		}
		return &trimmed
	}
	return current
}
