package enums

import "fmt"

// OutboxDLQErrorReason records why an inventory event was parked in outbox_dlq.
type OutboxDLQErrorReason string

const (
	// OutboxDLQReasonMaxAttempts means the broker kept rejecting the event.
	OutboxDLQReasonMaxAttempts OutboxDLQErrorReason = "max_attempts"
	// OutboxDLQReasonNonRetryable means the broker refused the event outright.
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
	// OutboxDLQReasonMalformed means the stored row no longer decodes into a known event.
	OutboxDLQReasonMalformed OutboxDLQErrorReason = "malformed_event"
	// OutboxDLQReasonUnroutable means no publisher exists for the event's topic.
	OutboxDLQReasonUnroutable OutboxDLQErrorReason = "unroutable"
)

var validOutboxDLQErrorReasons = []OutboxDLQErrorReason{
	OutboxDLQReasonMaxAttempts,
	OutboxDLQReasonNonRetryable,
	OutboxDLQReasonMalformed,
	OutboxDLQReasonUnroutable,
}

func (r OutboxDLQErrorReason) IsValid() bool {
	for _, candidate := range validOutboxDLQErrorReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// Replayable reports whether an operator can requeue the event unchanged once
// the broker or topic is fixed. Malformed rows need a data fix first.
func (r OutboxDLQErrorReason) Replayable() bool {
	return r.IsValid() && r != OutboxDLQReasonMalformed
}

// ParseOutboxDLQErrorReason converts a stored error_reason into its enum.
func ParseOutboxDLQErrorReason(value string) (OutboxDLQErrorReason, error) {
	for _, candidate := range validOutboxDLQErrorReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dlq error reason %q", value)
}
