package enums

import (
	"fmt"
	"strings"
)

// RestorePolicy controls how a procurement restore treats a part that is still active.
type RestorePolicy string

const (
	// RestorePolicyReactivateOnly re-adds quantity only when the part was soft-deleted.
	RestorePolicyReactivateOnly RestorePolicy = "reactivate_only"
	// RestorePolicyAlwaysReadd re-adds quantity whether or not the part was soft-deleted.
	RestorePolicyAlwaysReadd RestorePolicy = "always_readd"
)

var validRestorePolicies = []RestorePolicy{
	RestorePolicyReactivateOnly,
	RestorePolicyAlwaysReadd,
}

func (p RestorePolicy) String() string {
	return string(p)
}

func (p RestorePolicy) IsValid() bool {
	for _, candidate := range validRestorePolicies {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseRestorePolicy converts raw input into RestorePolicy. Empty input yields the default.
func ParseRestorePolicy(value string) (RestorePolicy, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return RestorePolicyReactivateOnly, nil
	}
	for _, candidate := range validRestorePolicies {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid restore policy %q", value)
}
