// Package engine orchestrates check-in sessions: it drives survey cycles,
// presents classifications and runs the cancellation workflow.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/cancellation"
	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/ingestion"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/prompt"
	"github.com/Veraticus/the-subs-must-go/internal/registry"
	"github.com/Veraticus/the-subs-must-go/internal/usage"
)

// SurveyMode selects which question style a check-in uses.
type SurveyMode string

// Survey modes.
const (
	// ModeUsage asks every service Yes / Rarely / Not at all.
	ModeUsage SurveyMode = "usage"
	// ModeVote asks which sampled show was watched and records one vote.
	ModeVote SurveyMode = "vote"
)

// ParseSurveyMode validates a mode name.
func ParseSurveyMode(s string) (SurveyMode, error) {
	switch SurveyMode(s) {
	case ModeUsage, ModeVote:
		return SurveyMode(s), nil
	default:
		return "", fmt.Errorf("%w: unknown survey mode %q", common.ErrInvalidConfig, s)
	}
}

// Engine wires the registry, scoring, ingestion and cancellation together
// for one process lifetime.
type Engine struct {
	registry  *registry.Registry
	scorer    *usage.Engine
	collector *ingestion.Collector
	workflow  *cancellation.Workflow
	sampler   *prompt.Sampler
	prompter  Prompter
}

// New creates an engine over an existing registry.
func New(reg *registry.Registry, scorer *usage.Engine, sampler *prompt.Sampler, prompter Prompter) *Engine {
	return &Engine{
		registry:  reg,
		scorer:    scorer,
		collector: ingestion.NewCollector(reg),
		workflow:  cancellation.NewWorkflow(reg),
		sampler:   sampler,
		prompter:  prompter,
	}
}

// Registry returns the underlying registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// Collector returns the ingestion collector.
func (e *Engine) Collector() *ingestion.Collector { return e.collector }

// Workflow returns the cancellation workflow.
func (e *Engine) Workflow() *cancellation.Workflow { return e.workflow }

// Classify returns the current classification for a service.
func (e *Engine) Classify(serviceID string) (model.Classification, error) {
	return e.scorer.ClassifyByID(e.registry, serviceID)
}

// Analysis classifies every service, optionally ordered by score.
func (e *Engine) Analysis(sortByScoreDesc bool) []model.ServiceUsage {
	return e.withClassification(e.registry.List(sortByScoreDesc))
}

// Renewals classifies services renewing within window of now.
func (e *Engine) Renewals(now time.Time, window time.Duration) []model.ServiceUsage {
	return e.withClassification(e.registry.RenewingWithin(now, window))
}

func (e *Engine) withClassification(services []model.Service) []model.ServiceUsage {
	out := make([]model.ServiceUsage, len(services))
	for i, svc := range services {
		out[i] = model.ServiceUsage{Service: svc, Classification: e.scorer.Classify(svc)}
	}
	return out
}

// RunSurvey asks one round of questions and commits the answers as one cycle.
// It returns how many responses were committed.
func (e *Engine) RunSurvey(ctx context.Context, mode SurveyMode) (int, error) {
	e.collector.OpenCycle()
	common.LogDebug("Survey round opened", common.Fields{"mode": mode, "services": e.registry.Len()})

	switch mode {
	case ModeVote:
		if err := e.collectVote(ctx); err != nil {
			return 0, err
		}
	default:
		if err := e.collectUsage(ctx); err != nil {
			return 0, err
		}
	}

	committed, err := e.collector.CloseCycle()
	if err != nil {
		return 0, err
	}

	slog.Info("Check-in submitted", "mode", mode, "responses", committed)
	return committed, nil
}

func (e *Engine) collectUsage(ctx context.Context) error {
	ids := e.registry.IDs()
	if reporter, ok := e.prompter.(ProgressReporter); ok {
		reporter.StartSurvey(len(ids))
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.collector.Answered(id) {
			continue
		}

		answer, answered, err := e.prompter.AskUsage(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to ask about %s: %w", id, err)
		}
		if !answered {
			continue
		}
		if err := e.collector.RecordResponse(id, model.SurveyResponse(answer)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) collectVote(ctx context.Context) error {
	if e.sampler == nil {
		return fmt.Errorf("%w: vote survey needs show titles", common.ErrMissingConfig)
	}

	prompts := e.sampler.Sample(e.registry.IDs())
	if len(prompts) == 0 {
		return fmt.Errorf("%w: no services have show titles", common.ErrMissingConfig)
	}

	id, voted, err := e.prompter.AskVote(ctx, prompts)
	if err != nil {
		return fmt.Errorf("failed to ask for a vote: %w", err)
	}
	if !voted {
		return nil
	}
	return e.collector.RecordResponse(id, model.VoteResponse())
}

// RequestCancel starts confirming the cancellation of serviceID.
func (e *Engine) RequestCancel(serviceID string) (model.CancellationRequest, error) {
	return e.workflow.RequestCancel(serviceID)
}

// ConfirmCancel removes the pending target and drops any of its uncommitted
// responses.
func (e *Engine) ConfirmCancel() (model.CancellationRequest, error) {
	done, err := e.workflow.Confirm()
	if err != nil {
		return done, err
	}
	e.collector.Discard(done.TargetServiceID)
	return done, nil
}

// AbortCancel keeps the pending target.
func (e *Engine) AbortCancel() (model.CancellationRequest, error) {
	return e.workflow.Abort()
}

// Cancel runs the confirm/abort workflow for one service and returns the
// finished request.
func (e *Engine) Cancel(ctx context.Context, serviceID string) (model.CancellationRequest, error) {
	req, err := e.RequestCancel(serviceID)
	if err != nil {
		return model.CancellationRequest{}, err
	}
	common.LogDebug("Awaiting cancellation confirmation", common.Fields{"service": serviceID, "request": req.ID})

	confirmed, err := e.prompter.ConfirmCancel(ctx, serviceID)
	if err != nil {
		e.abortQuietly(serviceID)
		return model.CancellationRequest{}, fmt.Errorf("failed to confirm cancellation: %w", err)
	}

	if !confirmed {
		return e.AbortCancel()
	}

	done, err := e.ConfirmCancel()
	if err != nil {
		e.abortQuietly(serviceID)
		return done, err
	}
	return done, nil
}

func (e *Engine) abortQuietly(serviceID string) {
	if _, err := e.AbortCancel(); err != nil {
		common.LogError(err, "Failed to abort cancellation", common.Fields{"service": serviceID})
	}
}

// RunCheckin loops survey, analysis and optional cancellation until the user
// declines another round.
func (e *Engine) RunCheckin(ctx context.Context, mode SurveyMode) error {
	for {
		if _, err := e.RunSurvey(ctx, mode); err != nil {
			return err
		}

		if err := e.reviewAnalysis(ctx, mode == ModeVote); err != nil {
			return err
		}

		again, err := e.prompter.AskAnotherRound(ctx)
		if err != nil {
			return err
		}
		if !again || e.registry.Len() == 0 {
			return nil
		}
	}
}

func (e *Engine) reviewAnalysis(ctx context.Context, sortByScore bool) error {
	for {
		analysis := e.Analysis(sortByScore)
		if err := e.prompter.ShowAnalysis(ctx, analysis); err != nil {
			return err
		}
		if len(analysis) == 0 {
			return nil
		}

		id, chosen, err := e.prompter.ChooseCancel(ctx, analysis)
		if err != nil {
			return err
		}
		if !chosen {
			return nil
		}

		if _, err := e.Cancel(ctx, id); err != nil {
			if common.IsRecoverable(err) {
				common.LogInfo("Cancellation skipped", common.Fields{"service": id, "reason": err.Error()})
				continue
			}
			return err
		}
	}
}
