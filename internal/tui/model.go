// Package tui provides the interactive subscription dashboard.
package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/tui/themes"
)

const usageBarWidth = 24

// Backend is what the dashboard reads from and drives.
type Backend interface {
	Analysis(sortByScoreDesc bool) []model.ServiceUsage
	RequestCancel(serviceID string) (model.CancellationRequest, error)
	ConfirmCancel() (model.CancellationRequest, error)
	AbortCancel() (model.CancellationRequest, error)
}

// Model holds the dashboard state.
type Model struct {
	theme       themes.Theme
	lastError   error
	backend     Backend
	pending     *model.CancellationRequest
	bars        map[model.Label]progress.Model
	help        help.Model
	status      string
	usage       []model.ServiceUsage
	keymap      KeyMap
	cursor      int
	width       int
	height      int
	sortByScore bool
	showHelp    bool
	quitting    bool
}

func newModel(backend Backend, cfg Config) Model {
	h := help.New()
	h.ShowAll = false
	h.Width = cfg.Width

	return Model{
		theme:       cfg.Theme,
		backend:     backend,
		keymap:      DefaultKeyMap(),
		help:        h,
		bars:        newBars(cfg.Theme),
		width:       cfg.Width,
		height:      cfg.Height,
		sortByScore: cfg.SortByScore,
		showHelp:    cfg.ShowHelp,
	}
}

func newBars(theme themes.Theme) map[model.Label]progress.Model {
	bar := func(c string) progress.Model {
		return progress.New(
			progress.WithSolidFill(c),
			progress.WithoutPercentage(),
			progress.WithWidth(usageBarWidth),
		)
	}
	return map[model.Label]progress.Model{
		model.LabelRecommendCancel: bar(string(theme.Error)),
		model.LabelModerate:        bar(string(theme.Warning)),
		model.LabelKeep:            bar(string(theme.Success)),
	}
}

// Init loads the first analysis.
func (m Model) Init() tea.Cmd {
	return m.loadAnalysis()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case analysisLoadedMsg:
		m.usage = msg.usage
		if m.cursor >= len(m.usage) {
			m.cursor = max(len(m.usage)-1, 0)
		}

	case cancelRequestedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		req := msg.request
		m.pending = &req
		m.lastError = nil
		m.status = ""

	case cancelFinishedMsg:
		m.pending = nil
		if msg.err != nil {
			m.lastError = msg.err
			return m, m.loadAnalysis()
		}
		m.lastError = nil
		switch msg.request.State {
		case model.CancellationCancelled:
			m.status = fmt.Sprintf("Cancelled %s", msg.request.TargetServiceID)
		default:
			m.status = fmt.Sprintf("Kept %s", msg.request.TargetServiceID)
		}
		return m, m.loadAnalysis()
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pending != nil {
		switch {
		case key.Matches(msg, m.keymap.Confirm):
			return m, m.confirmCancel()
		case key.Matches(msg, m.keymap.Abort):
			return m, m.abortCancel()
		case key.Matches(msg, m.keymap.Quit):
			if _, err := m.backend.AbortCancel(); err != nil {
				slog.Warn("Failed to abort cancellation on quit", "error", err)
			}
			m.pending = nil
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keymap.Down):
		if m.cursor < len(m.usage)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keymap.Sort):
		m.sortByScore = !m.sortByScore
		return m, m.loadAnalysis()
	case key.Matches(msg, m.keymap.Help):
		if !m.showHelp {
			m.showHelp = true
			break
		}
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Cancel):
		if len(m.usage) == 0 {
			return m, nil
		}
		return m, m.requestCancel(m.usage[m.cursor].Service.ID)
	}
	return m, nil
}

func (m Model) loadAnalysis() tea.Cmd {
	backend, sortByScore := m.backend, m.sortByScore
	return func() tea.Msg {
		return analysisLoadedMsg{usage: backend.Analysis(sortByScore)}
	}
}

func (m Model) requestCancel(serviceID string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		req, err := backend.RequestCancel(serviceID)
		return cancelRequestedMsg{request: req, err: err}
	}
}

func (m Model) confirmCancel() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		req, err := backend.ConfirmCancel()
		return cancelFinishedMsg{request: req, err: err}
	}
}

func (m Model) abortCancel() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		req, err := backend.AbortCancel()
		return cancelFinishedMsg{request: req, err: err}
	}
}
