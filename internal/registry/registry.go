// Package registry holds the authoritative, in-memory set of tracked services.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/usage"
)

// Scorer produces the score used to order summary views.
type Scorer interface {
	Score(svc model.Service) float64
}

type entry struct {
	service model.Service
	seq     uint64
}

// Registry owns every Service and its response history.
// All mutations are serialized; reads return deep copies.
type Registry struct {
	scorer   Scorer
	services map[string]*entry
	nextSeq  uint64
	mu       sync.RWMutex
}

// New creates an empty registry. A nil scorer uses the default usage engine.
func New(scorer Scorer) *Registry {
	if scorer == nil {
		scorer = usage.DefaultEngine()
	}
	return &Registry{
		scorer:   scorer,
		services: make(map[string]*entry),
	}
}

// Register adds a service. The id must be unique.
func (r *Registry) Register(svc model.Service) error {
	if err := validateID(svc.ID); err != nil {
		return err
	}
	for i, resp := range svc.History {
		if err := validateHistoryEntry(resp); err != nil {
			return fmt.Errorf("history entry %d: %w", i, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[svc.ID]; exists {
		return fmt.Errorf("%w: %s", common.ErrDuplicateService, svc.ID)
	}

	r.services[svc.ID] = &entry{service: svc.Clone(), seq: r.nextSeq}
	r.nextSeq++

	slog.Debug("Registered service", "service", svc.ID, "responses", len(svc.History))
	return nil
}

// Get returns a copy of the service with the given id.
func (r *Registry) Get(id string) (model.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.services[id]
	if !ok {
		return model.Service{}, fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	return e.service.Clone(), nil
}

// Exists reports whether a service with the given id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.services[id]
	return ok
}

// Remove deletes a service and all of its history. This cannot be undone.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return fmt.Errorf("%w: %s", common.ErrNotFound, id)
	}
	delete(r.services, id)

	slog.Debug("Removed service", "service", id)
	return nil
}

// Len returns the number of registered services.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

// List returns a snapshot in registration order, or by score descending
// when sortByScoreDesc is set. Equal scores keep registration order.
func (r *Registry) List(sortByScoreDesc bool) []model.Service {
	entries := r.snapshot()

	if sortByScoreDesc {
		scores := make(map[uint64]float64, len(entries))
		for _, e := range entries {
			scores[e.seq] = r.scorer.Score(e.service)
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return scores[entries[i].seq] > scores[entries[j].seq]
		})
	}

	out := make([]model.Service, len(entries))
	for i, e := range entries {
		out[i] = e.service
	}
	return out
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	entries := r.snapshot()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.service.ID
	}
	return ids
}

// AppendResponses appends a batch of responses to the named services.
// Either every submission is appended or, if any is invalid or names an
// unknown service, none are.
func (r *Registry) AppendResponses(batch []model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range batch {
		if _, ok := r.services[sub.ServiceID]; !ok {
			return fmt.Errorf("%w: %s", common.ErrNotFound, sub.ServiceID)
		}
		if err := validateHistoryEntry(sub.Response); err != nil {
			return fmt.Errorf("service %s: %w", sub.ServiceID, err)
		}
	}

	for _, sub := range batch {
		e := r.services[sub.ServiceID]
		e.service.History = append(e.service.History, sub.Response)
	}

	slog.Debug("Appended responses", "responses", len(batch))
	return nil
}

// RenewingWithin returns services whose renewal date falls between now's
// calendar day and window after it, soonest first. Renewal dates are calendar
// dates: they are compared by day against now's date in now's own zone.
func (r *Registry) RenewingWithin(now time.Time, window time.Duration) []model.Service {
	start := calendarDay(now)
	end := start.Add(window)

	var due []model.Service
	for _, svc := range r.List(false) {
		if svc.RenewalDate == nil {
			continue
		}
		d := calendarDay(*svc.RenewalDate)
		if d.Before(start) || d.After(end) {
			continue
		}
		due = append(due, svc)
	}

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].RenewalDate.Before(*due[j].RenewalDate)
	})
	return due
}

// snapshot copies entries out in registration order.
func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]entry, 0, len(r.services))
	for _, e := range r.services {
		entries = append(entries, entry{service: e.service.Clone(), seq: e.seq})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	return entries
}
