package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/engine"
	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/testutil"
	"github.com/Veraticus/the-subs-must-go/internal/usage"
)

func newTestDashboard(t *testing.T, services ...model.Service) (Model, *engine.Engine) {
	t.Helper()
	reg := testutil.SetupRegistry(t, services...)
	eng := engine.New(reg, usage.DefaultEngine(), nil, nil)

	m := newModel(eng, defaultConfig())
	m = send(t, m, m.Init()())
	return m, eng
}

// send feeds msg to the model and then drains any follow-up command.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		if _, quit := out.(tea.QuitMsg); quit {
			return m
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func scored(id string, answers ...model.Answer) model.Service {
	return testutil.NewService(id).WithAnswers(answers...).Build()
}

func TestDashboard_InitLoadsSortedAnalysis(t *testing.T) {
	m, _ := newTestDashboard(t,
		scored("Slack", model.AnswerNotAtAll),
		scored("Notion", model.AnswerYes),
		scored("Figma", model.AnswerRarely),
	)

	require.Len(t, m.usage, 3)
	assert.Equal(t, "Notion", m.usage[0].Service.ID)
	assert.Equal(t, "Figma", m.usage[1].Service.ID)
	assert.Equal(t, "Slack", m.usage[2].Service.ID)

	view := m.View()
	assert.Contains(t, view, "Subscription Dashboard")
	assert.Contains(t, view, "Keep It")
	assert.Contains(t, view, "Moderate Usage")
	assert.Contains(t, view, "Recommended to Cancel")
}

func TestDashboard_ToggleSort(t *testing.T) {
	m, _ := newTestDashboard(t,
		scored("Slack", model.AnswerNotAtAll),
		scored("Notion", model.AnswerYes),
	)
	require.Equal(t, "Notion", m.usage[0].Service.ID)

	m = send(t, m, keyMsg("s"))
	assert.False(t, m.sortByScore)
	assert.Equal(t, "Slack", m.usage[0].Service.ID)
}

func TestDashboard_CancelFlow(t *testing.T) {
	tests := []struct {
		name      string
		answer    string
		wantGone  bool
		wantState string
	}{
		{name: "confirm with y", answer: "y", wantGone: true, wantState: "Cancelled Slack"},
		{name: "abort with n", answer: "n", wantGone: false, wantState: "Kept Slack"},
		{name: "abort with esc", answer: "esc", wantGone: false, wantState: "Kept Slack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, eng := newTestDashboard(t,
				scored("Notion", model.AnswerYes),
				scored("Slack", model.AnswerNotAtAll),
			)

			m = send(t, m, keyMsg("down"))
			m = send(t, m, keyMsg("c"))
			require.NotNil(t, m.pending)
			assert.Equal(t, "Slack", m.pending.TargetServiceID)
			assert.Equal(t, model.CancellationConfirming, eng.Workflow().State())
			assert.Contains(t, m.View(), "Cancel Slack?")

			m = send(t, m, keyMsg(tt.answer))
			assert.Nil(t, m.pending)
			assert.Equal(t, tt.wantState, m.status)
			assert.Equal(t, !tt.wantGone, eng.Registry().Exists("Slack"))
			assert.Equal(t, model.CancellationIdle, eng.Workflow().State())

			if tt.wantGone {
				assert.Len(t, m.usage, 1)
				assert.Equal(t, 0, m.cursor)
			}
		})
	}
}

func TestDashboard_ConfirmKeysIgnoredWhenIdle(t *testing.T) {
	m, eng := newTestDashboard(t, scored("Slack"))

	m = send(t, m, keyMsg("y"))
	m = send(t, m, keyMsg("n"))

	assert.Nil(t, m.pending)
	assert.True(t, eng.Registry().Exists("Slack"))
}

func TestDashboard_CancelErrorShown(t *testing.T) {
	m, eng := newTestDashboard(t, scored("Slack"))
	require.NoError(t, eng.Registry().Remove("Slack"))

	m = send(t, m, keyMsg("c"))
	assert.Nil(t, m.pending)
	assert.ErrorIs(t, m.lastError, common.ErrNotFound)
	assert.Contains(t, m.View(), "✗")
}

func TestDashboard_QuitWhileConfirmingAborts(t *testing.T) {
	m, eng := newTestDashboard(t, scored("Slack"))
	m = send(t, m, keyMsg("c"))
	require.NotNil(t, m.pending)

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
	assert.Equal(t, model.CancellationIdle, eng.Workflow().State())
	assert.True(t, eng.Registry().Exists("Slack"))
}

func TestDashboard_EmptyRegistry(t *testing.T) {
	m, _ := newTestDashboard(t)

	m = send(t, m, keyMsg("c"))
	assert.Nil(t, m.pending)
	assert.Contains(t, m.View(), "No subscriptions")
}

func TestDashboard_WindowResize(t *testing.T) {
	m, _ := newTestDashboard(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}

func TestDashboard_VoteCountShown(t *testing.T) {
	m, _ := newTestDashboard(t, testutil.NewService("Netflix").WithVotes(2).Build())
	assert.Contains(t, m.View(), "(2 votes)")
}

func TestDashboard_HelpFooter(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		keys     []string
		wantHelp bool
	}{
		{name: "shown by default", wantHelp: true},
		{name: "hidden", opts: []Option{WithHelp(false)}, wantHelp: false},
		{name: "question mark brings it back", opts: []Option{WithHelp(false)}, keys: []string{"?"}, wantHelp: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testutil.SetupRegistry(t, scored("Slack", model.AnswerYes))
			eng := engine.New(reg, usage.DefaultEngine(), nil, nil)

			cfg := defaultConfig()
			for _, opt := range tt.opts {
				opt(&cfg)
			}
			m := newModel(eng, cfg)
			m = send(t, m, m.Init()())
			for _, k := range tt.keys {
				m = send(t, m, keyMsg(k))
			}

			view := m.View()
			assert.Contains(t, view, "Slack")
			if tt.wantHelp {
				assert.Contains(t, view, "cancel subscription")
			} else {
				assert.NotContains(t, view, "cancel subscription")
			}
		})
	}
}

func TestDashboard_ConfirmHelpShownWithoutFooter(t *testing.T) {
	reg := testutil.SetupRegistry(t, scored("Slack", model.AnswerYes))
	eng := engine.New(reg, usage.DefaultEngine(), nil, nil)

	cfg := defaultConfig()
	WithHelp(false)(&cfg)
	m := newModel(eng, cfg)
	m = send(t, m, m.Init()())
	m = send(t, m, keyMsg("c"))

	require.NotNil(t, m.pending)
	assert.Contains(t, m.View(), "keep it")
}
