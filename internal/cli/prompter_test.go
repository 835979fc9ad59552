package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-subs-must-go/internal/engine"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/prompt"
)

var _ engine.Prompter = (*Prompter)(nil)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewCLIPrompter(strings.NewReader(input), out), out
}

func TestPrompter_AskUsage(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expected     model.Answer
		expectAnswer bool
		expectError  bool
	}{
		{name: "yes", input: "y\n", expected: model.AnswerYes, expectAnswer: true},
		{name: "rarely uppercase", input: "R\n", expected: model.AnswerRarely, expectAnswer: true},
		{name: "not at all", input: "n\n", expected: model.AnswerNotAtAll, expectAnswer: true},
		{name: "skip", input: "s\n"},
		{name: "blank skips", input: "\n"},
		{name: "invalid then valid", input: "maybe\ny\n", expected: model.AnswerYes, expectAnswer: true},
		{name: "eof", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)

			answer, answered, err := p.AskUsage(context.Background(), "Notion")
			if tt.expectError {
				assert.ErrorIs(t, err, ErrInputTerminated)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectAnswer, answered)
			assert.Equal(t, tt.expected, answer)
			assert.Contains(t, out.String(), "Do you use Notion?")
		})
	}
}

func TestPrompter_AskUsageInvalidChoiceMessage(t *testing.T) {
	p, out := newTestPrompter("x\nn\n")

	_, _, err := p.AskUsage(context.Background(), "Slack")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Invalid choice")
}

func TestPrompter_AskUsageCanceled(t *testing.T) {
	p, _ := newTestPrompter("y\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := p.AskUsage(ctx, "Notion")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPrompter_AskVote(t *testing.T) {
	prompts := []prompt.Prompt{
		{ServiceID: "Netflix", Title: "Wednesday"},
		{ServiceID: "Prime Video", Title: "Reacher"},
	}

	tests := []struct {
		name      string
		input     string
		expected  string
		expectVot bool
	}{
		{name: "first", input: "1\n", expected: "Netflix", expectVot: true},
		{name: "second", input: "2\n", expected: "Prime Video", expectVot: true},
		{name: "none", input: "0\n"},
		{name: "out of range then valid", input: "3\n2\n", expected: "Prime Video", expectVot: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, out := newTestPrompter(tt.input)

			id, voted, err := p.AskVote(context.Background(), prompts)
			require.NoError(t, err)
			assert.Equal(t, tt.expectVot, voted)
			assert.Equal(t, tt.expected, id)
			assert.Contains(t, out.String(), "Wednesday")
			assert.Contains(t, out.String(), "Reacher")
		})
	}
}

func TestPrompter_ChooseAndConfirmCancel(t *testing.T) {
	usage := []model.ServiceUsage{
		{Service: model.Service{ID: "Slack"}},
		{Service: model.Service{ID: "Figma"}},
	}

	p, out := newTestPrompter("2\ny\n\n")

	id, chosen, err := p.ChooseCancel(context.Background(), usage)
	require.NoError(t, err)
	assert.True(t, chosen)
	assert.Equal(t, "Figma", id)

	confirmed, err := p.ConfirmCancel(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, confirmed)
	assert.Contains(t, out.String(), "Cancelled Figma")

	_, chosen, err = p.ChooseCancel(context.Background(), usage)
	require.NoError(t, err)
	assert.False(t, chosen)
}

func TestPrompter_ConfirmCancelDefaultsToNo(t *testing.T) {
	p, out := newTestPrompter("\n")

	confirmed, err := p.ConfirmCancel(context.Background(), "Slack")
	require.NoError(t, err)
	assert.False(t, confirmed)
	assert.Contains(t, out.String(), "Kept Slack")
}

func TestPrompter_AskAnotherRound(t *testing.T) {
	p, _ := newTestPrompter("yes\nno\n")

	again, err := p.AskAnotherRound(context.Background())
	require.NoError(t, err)
	assert.True(t, again)

	again, err = p.AskAnotherRound(context.Background())
	require.NoError(t, err)
	assert.False(t, again)
}

func TestPrompter_StartSurveyProgress(t *testing.T) {
	p, out := newTestPrompter("y\n")
	p.StartSurvey(1)

	_, _, err := p.AskUsage(context.Background(), "Notion")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Checking in")
}

func TestRenderAnalysis(t *testing.T) {
	usage := []model.ServiceUsage{
		{Service: model.Service{ID: "Notion"}, Classification: model.Classification{Label: model.LabelKeep, Score: 1}},
		{Service: model.Service{ID: "Slack"}, Classification: model.Classification{Label: model.LabelRecommendCancel, Score: 0}},
	}

	out := RenderAnalysis(usage)
	assert.Contains(t, out, "Usage Analysis")
	assert.Contains(t, out, "Notion")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "Keep It")
	assert.Contains(t, out, "Recommended to Cancel")

	assert.Contains(t, RenderAnalysis(nil), "No subscriptions")
}

func TestRenderRenewals(t *testing.T) {
	due := time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC)
	usage := []model.ServiceUsage{{
		Service:        model.Service{ID: "Spotify", RenewalDate: &due},
		Classification: model.Classification{Label: model.LabelModerate, Score: 0.3},
	}}

	out := RenderRenewals(usage, 30)
	assert.Contains(t, out, "Spotify")
	assert.Contains(t, out, "Sep 12, 2025")
	assert.Contains(t, out, "30%")
	assert.Contains(t, out, model.LabelModerate.Advice())

	assert.Contains(t, RenderRenewals(nil, 30), "No renewals in the next 30 days")
}

func TestUsageBar(t *testing.T) {
	assert.Empty(t, UsageBar(model.Classification{Score: 0.5}, 0))

	bar := UsageBar(model.Classification{Label: model.LabelModerate, Score: 0.5}, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))
}
