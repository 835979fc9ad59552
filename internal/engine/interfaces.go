package engine

import (
	"context"

	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/prompt"
)

// Prompter defines the contract for user interaction during a check-in.
type Prompter interface {
	// AskUsage asks how often a service is used. answered is false when the
	// user skips the question.
	AskUsage(ctx context.Context, serviceID string) (answer model.Answer, answered bool, err error)
	// AskVote asks which sampled title the user watched.
	AskVote(ctx context.Context, prompts []prompt.Prompt) (serviceID string, voted bool, err error)
	ShowAnalysis(ctx context.Context, usage []model.ServiceUsage) error
	// ChooseCancel lets the user pick a service to cancel from the analysis.
	ChooseCancel(ctx context.Context, usage []model.ServiceUsage) (serviceID string, chosen bool, err error)
	ConfirmCancel(ctx context.Context, serviceID string) (bool, error)
	AskAnotherRound(ctx context.Context) (bool, error)
}

// ProgressReporter is implemented by prompters that show survey progress.
type ProgressReporter interface {
	StartSurvey(total int)
}
