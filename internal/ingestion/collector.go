// Package ingestion collects survey responses per submission cycle and
// commits them to service history when the cycle closes.
package ingestion

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
)

// History is the part of the registry the collector writes through.
type History interface {
	Exists(id string) bool
	AppendResponses(batch []model.Submission) error
}

// Collector tracks which services have answered in the open cycle.
// At most one response per service is accepted per cycle.
type Collector struct {
	history History
	now     func() time.Time
	pending map[string]model.Response
	order   []string
	cycle   int
	open    bool
	mu      sync.Mutex
}

// NewCollector creates a collector with no open cycle.
func NewCollector(history History) *Collector {
	return &Collector{
		history: history,
		now:     time.Now,
		pending: make(map[string]model.Response),
	}
}

// OpenCycle starts a new cycle. Calling it while a cycle is open is a no-op.
func (c *Collector) OpenCycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.openLocked()
	return c.cycle
}

func (c *Collector) openLocked() {
	if c.open {
		return
	}
	c.open = true
	c.cycle++
	c.pending = make(map[string]model.Response)
	c.order = nil
	slog.Debug("Opened survey cycle", "cycle", c.cycle)
}

// RecordResponse stores a pending response for a service in the open cycle.
// Raw scores bypass aggregation and cannot be recorded.
func (c *Collector) RecordResponse(serviceID string, resp model.Response) error {
	if err := resp.Validate(); err != nil {
		return err
	}
	if resp.Kind == model.KindRawScore {
		return fmt.Errorf("%w: raw scores are supplied on the service, not recorded", common.ErrInvalidResponse)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return fmt.Errorf("%w: no open cycle", common.ErrInvalidState)
	}
	if !c.history.Exists(serviceID) {
		return fmt.Errorf("%w: %s", common.ErrNotFound, serviceID)
	}
	if _, answered := c.pending[serviceID]; answered {
		return fmt.Errorf("%w: %s", common.ErrDuplicateSubmission, serviceID)
	}

	if resp.RecordedAt.IsZero() {
		resp.RecordedAt = c.now()
	}
	c.pending[serviceID] = resp
	c.order = append(c.order, serviceID)
	return nil
}

// Answered reports whether the service already has a response in the open cycle.
func (c *Collector) Answered(serviceID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.pending[serviceID]
	return ok
}

// Pending returns the responses waiting in the open cycle, in record order.
func (c *Collector) Pending() []model.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *Collector) pendingLocked() []model.Submission {
	out := make([]model.Submission, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, model.Submission{ServiceID: id, Response: c.pending[id]})
	}
	return out
}

// Discard drops a pending response, for example after the service was removed.
func (c *Collector) Discard(serviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[serviceID]; !ok {
		return
	}
	delete(c.pending, serviceID)
	for i, id := range c.order {
		if id == serviceID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Cycle returns the current cycle number, starting at 1 for the first cycle.
func (c *Collector) Cycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// IsOpen reports whether a cycle is accepting responses.
func (c *Collector) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// CloseCycle commits every pending response to history in one batch and opens
// the next cycle. It returns how many responses were committed. Closing with
// nothing pending commits nothing and keeps the current cycle open. If the
// batch fails, pending state is left untouched.
func (c *Collector) CloseCycle() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return 0, fmt.Errorf("%w: no open cycle", common.ErrInvalidState)
	}
	if len(c.order) == 0 {
		return 0, nil
	}

	batch := c.pendingLocked()
	if err := c.history.AppendResponses(batch); err != nil {
		return 0, fmt.Errorf("failed to close cycle %d: %w", c.cycle, err)
	}

	slog.Debug("Closed survey cycle", "cycle", c.cycle, "responses", len(batch))

	c.open = false
	c.openLocked()
	return len(batch), nil
}
