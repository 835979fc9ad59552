// Package cancellation gates destructive removal of a service behind an
// explicit two-step confirm or abort.
package cancellation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/google/uuid"
)

// Registry is what the workflow needs from the service registry.
type Registry interface {
	Exists(id string) bool
	Remove(id string) error
}

// Workflow holds at most one outstanding cancellation request.
//
//	Idle -> Confirming -> Cancelled | Aborted
//
// Cancelled and Aborted are terminal for the request; the workflow itself
// returns to Idle so a fresh request can be started.
type Workflow struct {
	registry Registry
	now      func() time.Time
	current  *model.CancellationRequest
	mu       sync.Mutex
}

// NewWorkflow creates an idle workflow bound to a registry.
func NewWorkflow(reg Registry) *Workflow {
	return &Workflow{
		registry: reg,
		now:      time.Now,
	}
}

// State returns Idle or Confirming.
func (w *Workflow) State() model.CancellationState {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return model.CancellationIdle
	}
	return w.current.State
}

// Current returns the outstanding request, if any.
func (w *Workflow) Current() (model.CancellationRequest, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return model.CancellationRequest{}, false
	}
	return *w.current, true
}

// RequestCancel moves Idle to Confirming for serviceID. Asking again for the
// same service while confirming returns the existing request unchanged;
// asking for a different service fails.
func (w *Workflow) RequestCancel(serviceID string) (model.CancellationRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current != nil {
		if w.current.TargetServiceID == serviceID {
			return *w.current, nil
		}
		return model.CancellationRequest{}, fmt.Errorf("%w: already confirming cancellation of %s",
			common.ErrInvalidState, w.current.TargetServiceID)
	}

	if !w.registry.Exists(serviceID) {
		return model.CancellationRequest{}, fmt.Errorf("%w: %s", common.ErrNotFound, serviceID)
	}

	w.current = &model.CancellationRequest{
		ID:              uuid.New().String(),
		TargetServiceID: serviceID,
		State:           model.CancellationConfirming,
		CreatedAt:       w.now(),
	}

	slog.Debug("Cancellation requested", "service", serviceID, "request_id", w.current.ID)
	return *w.current, nil
}

// Confirm removes the target service and completes the request as Cancelled.
// If removal fails the request stays in Confirming.
func (w *Workflow) Confirm() (model.CancellationRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return model.CancellationRequest{}, fmt.Errorf("%w: confirm from %s",
			common.ErrInvalidState, model.CancellationIdle)
	}

	if err := w.registry.Remove(w.current.TargetServiceID); err != nil {
		return *w.current, fmt.Errorf("failed to cancel %s: %w", w.current.TargetServiceID, err)
	}

	done := *w.current
	done.State = model.CancellationCancelled
	w.current = nil

	slog.Info("Subscription cancelled", "service", done.TargetServiceID, "request_id", done.ID)
	return done, nil
}

// Abort completes the request as Aborted without touching the registry.
func (w *Workflow) Abort() (model.CancellationRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current == nil {
		return model.CancellationRequest{}, fmt.Errorf("%w: abort from %s",
			common.ErrInvalidState, model.CancellationIdle)
	}

	done := *w.current
	done.State = model.CancellationAborted
	w.current = nil

	slog.Debug("Cancellation aborted", "service", done.TargetServiceID, "request_id", done.ID)
	return done, nil
}
