package instance

import (
	"os"

	"github.com/angelmondragon/autoshop-backend/pkg/env"
)

// GetID identifies the running process in logs and lock diagnostics.
// Explicit ids win over the platform dyno name, then the hostname.
func GetID() string {
	if id := env.First("", "AUTOSHOP_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
