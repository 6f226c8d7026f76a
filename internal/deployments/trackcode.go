package deployments

import (
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultTrackCodeLength = 8
	maxTrackCodeLength     = 32
	minTrackCodeLength     = 4
	trackCodeAttempts      = 5
)

// newTrackCode returns an upper-case hex code of the given length.
func newTrackCode(length int) string {
	if length < minTrackCodeLength {
		length = DefaultTrackCodeLength
	}
	if length > maxTrackCodeLength {
		length = maxTrackCodeLength
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:length])
}

// NormalizeTrackCode trims and upper-cases a client-supplied code.
func NormalizeTrackCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
