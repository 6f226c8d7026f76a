package enums

import (
	"fmt"
	"strings"
)

// RepairStatus maps to the repair_status enum in Postgres.
type RepairStatus string

const (
	RepairStatusPending    RepairStatus = "Pending"
	RepairStatusInProgress RepairStatus = "In Progress"
	RepairStatusRepaired   RepairStatus = "Repaired"
	RepairStatusCancelled  RepairStatus = "Cancelled"
)

var validRepairStatuses = []RepairStatus{
	RepairStatusPending,
	RepairStatusInProgress,
	RepairStatusRepaired,
	RepairStatusCancelled,
}

func (s RepairStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical repair status enum.
func (s RepairStatus) IsValid() bool {
	for _, candidate := range validRepairStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRepairStatus converts raw input into RepairStatus. Matching is case-insensitive.
func ParseRepairStatus(value string) (RepairStatus, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validRepairStatuses {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid repair status %q", value)
}

// OrDefault returns Pending for the zero value.
func (s RepairStatus) OrDefault() RepairStatus {
	if s == "" {
		return RepairStatusPending
	}
	return s
}
