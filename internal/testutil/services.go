// Package testutil provides fluent builders for seeding registries in tests.
//
// Example:
//
//	reg := testutil.SetupRegistry(t,
//		testutil.NewService("Netflix").WithVotes(2).Build(),
//		testutil.NewService("Slack").WithAnswers(model.AnswerNotAtAll).Build(),
//	)
package testutil

import (
	"testing"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/registry"
)

// ServiceBuilder constructs a model.Service with a prepared history.
type ServiceBuilder struct {
	svc model.Service
}

// NewService starts a builder for the service with the given id.
func NewService(id string) *ServiceBuilder {
	return &ServiceBuilder{svc: model.Service{ID: id}}
}

// WithAnswers appends survey answers to the history.
func (b *ServiceBuilder) WithAnswers(answers ...model.Answer) *ServiceBuilder {
	for _, a := range answers {
		b.svc.History = append(b.svc.History, model.SurveyResponse(a))
	}
	return b
}

// WithVotes appends n vote increments to the history.
func (b *ServiceBuilder) WithVotes(n int) *ServiceBuilder {
	for range n {
		b.svc.History = append(b.svc.History, model.VoteResponse())
	}
	return b
}

// WithRawScore sets the seeded 0-100 usage score.
func (b *ServiceBuilder) WithRawScore(score int) *ServiceBuilder {
	b.svc.UsageScore = &score
	return b
}

// RenewsOn sets the renewal date.
func (b *ServiceBuilder) RenewsOn(d time.Time) *ServiceBuilder {
	b.svc.RenewalDate = &d
	return b
}

// Build returns a copy of the constructed service.
func (b *ServiceBuilder) Build() model.Service {
	return b.svc.Clone()
}

// SetupRegistry creates a registry with the default scorer and registers
// every service, failing the test on error.
func SetupRegistry(t *testing.T, services ...model.Service) *registry.Registry {
	t.Helper()

	reg := registry.New(nil)
	for _, svc := range services {
		if err := reg.Register(svc); err != nil {
			t.Fatalf("failed to register %q: %v", svc.ID, err)
		}
	}
	return reg
}

// Date parses a YYYY-MM-DD date in UTC or fails the test.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}
