package model

import "time"

// CancellationState is the lifecycle state of a cancellation request.
type CancellationState string

// Cancellation states.
const (
	CancellationIdle       CancellationState = "IDLE"
	CancellationConfirming CancellationState = "CONFIRMING"
	CancellationCancelled  CancellationState = "CANCELLED"
	CancellationAborted    CancellationState = "ABORTED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s CancellationState) IsTerminal() bool {
	return s == CancellationCancelled || s == CancellationAborted
}

// CancellationRequest is the ephemeral token for one cancellation attempt.
type CancellationRequest struct {
	CreatedAt       time.Time
	ID              string
	TargetServiceID string
	State           CancellationState
}
