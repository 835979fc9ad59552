package ingestion

import (
	"testing"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, ids ...string) (*registry.Registry, *Collector) {
	t.Helper()
	reg := registry.New(nil)
	for _, id := range ids {
		require.NoError(t, reg.Register(model.Service{ID: id}))
	}
	return reg, NewCollector(reg)
}

func historyLen(t *testing.T, reg *registry.Registry, id string) int {
	t.Helper()
	svc, err := reg.Get(id)
	require.NoError(t, err)
	return len(svc.History)
}

func TestCollector_RecordRequiresOpenCycle(t *testing.T) {
	_, c := setup(t, "Notion")

	err := c.RecordResponse("Notion", model.SurveyResponse(model.AnswerYes))
	assert.ErrorIs(t, err, common.ErrInvalidState)

	assert.Equal(t, 1, c.OpenCycle())
	assert.Equal(t, 1, c.OpenCycle(), "opening an open cycle is a no-op")
	assert.NoError(t, c.RecordResponse("Notion", model.SurveyResponse(model.AnswerYes)))
}

func TestCollector_RecordErrors(t *testing.T) {
	_, c := setup(t, "Notion")
	c.OpenCycle()

	tests := []struct {
		wantErr   error
		name      string
		serviceID string
		response  model.Response
	}{
		{
			name:      "unknown service",
			serviceID: "Missing",
			response:  model.SurveyResponse(model.AnswerYes),
			wantErr:   common.ErrNotFound,
		},
		{
			name:      "invalid answer",
			serviceID: "Notion",
			response:  model.SurveyResponse("Sometimes"),
			wantErr:   common.ErrInvalidResponse,
		},
		{
			name:      "raw score is not recordable",
			serviceID: "Notion",
			response:  model.RawScoreResponse(50),
			wantErr:   common.ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.RecordResponse(tt.serviceID, tt.response)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, c.Pending())
}

func TestCollector_DuplicateSubmission(t *testing.T) {
	reg, c := setup(t, "Notion", "Figma")
	c.OpenCycle()

	require.NoError(t, c.RecordResponse("Notion", model.SurveyResponse(model.AnswerYes)))
	err := c.RecordResponse("Notion", model.SurveyResponse(model.AnswerNotAtAll))
	assert.ErrorIs(t, err, common.ErrDuplicateSubmission)

	assert.True(t, c.Answered("Notion"))
	assert.False(t, c.Answered("Figma"))
	assert.Equal(t, 0, historyLen(t, reg, "Notion"), "pending responses are not history yet")

	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, model.AnswerYes, pending[0].Response.Answer)
	assert.False(t, pending[0].Response.RecordedAt.IsZero())
}

func TestCollector_CloseCycleCommitsAndReopens(t *testing.T) {
	reg, c := setup(t, "Notion", "Figma", "Slack")
	fixed := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }
	c.OpenCycle()

	require.NoError(t, c.RecordResponse("Notion", model.SurveyResponse(model.AnswerYes)))
	require.NoError(t, c.RecordResponse("Slack", model.SurveyResponse(model.AnswerRarely)))

	n, err := c.CloseCycle()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, c.Cycle())
	assert.True(t, c.IsOpen())

	assert.Equal(t, 1, historyLen(t, reg, "Notion"))
	assert.Equal(t, 0, historyLen(t, reg, "Figma"))
	assert.Equal(t, 1, historyLen(t, reg, "Slack"))

	svc, err := reg.Get("Notion")
	require.NoError(t, err)
	assert.Equal(t, fixed, svc.History[0].RecordedAt)

	// Re-opening keeps history and forgets who answered.
	c.OpenCycle()
	assert.False(t, c.Answered("Notion"))
	assert.Equal(t, 1, historyLen(t, reg, "Notion"))
	require.NoError(t, c.RecordResponse("Notion", model.SurveyResponse(model.AnswerNotAtAll)))

	_, err = c.CloseCycle()
	require.NoError(t, err)
	svc, err = reg.Get("Notion")
	require.NoError(t, err)
	require.Len(t, svc.History, 2)
	assert.Equal(t, model.AnswerYes, svc.History[0].Answer)
	assert.Equal(t, model.AnswerNotAtAll, svc.History[1].Answer)
}

func TestCollector_EmptyCloseIsNoop(t *testing.T) {
	reg, c := setup(t, "Notion")
	c.OpenCycle()

	n, err := c.CloseCycle()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, c.Cycle())
	assert.Equal(t, 0, historyLen(t, reg, "Notion"))
}

func TestCollector_CloseWithoutOpenCycle(t *testing.T) {
	_, c := setup(t, "Notion")
	_, err := c.CloseCycle()
	assert.ErrorIs(t, err, common.ErrInvalidState)
}

func TestCollector_CloseFailsAtomically(t *testing.T) {
	reg, c := setup(t, "Notion", "Figma")
	c.OpenCycle()

	require.NoError(t, c.RecordResponse("Notion", model.SurveyResponse(model.AnswerYes)))
	require.NoError(t, c.RecordResponse("Figma", model.SurveyResponse(model.AnswerYes)))
	require.NoError(t, reg.Remove("Figma"))

	_, err := c.CloseCycle()
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, historyLen(t, reg, "Notion"))
	assert.Len(t, c.Pending(), 2, "pending state survives a failed close")

	c.Discard("Figma")
	n, err := c.CloseCycle()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, historyLen(t, reg, "Notion"))
}
