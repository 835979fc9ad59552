package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/the-subs-must-go/internal/model"
)

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("📊 Subscription Dashboard"),
		m.renderList(),
	}

	if m.pending != nil {
		sections = append(sections, "", m.renderConfirm())
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, "", status)
	}

	switch {
	case m.pending != nil:
		sections = append(sections, "", m.help.ShortHelpView(m.keymap.confirmHelp()))
	case m.showHelp:
		sections = append(sections, "", m.help.View(m.keymap))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderList() string {
	if len(m.usage) == 0 {
		return m.theme.Subtitle.Render("No subscriptions are being tracked.")
	}

	nameWidth := 0
	for _, u := range m.usage {
		nameWidth = max(nameWidth, lipgloss.Width(u.Service.ID))
	}

	rows := make([]string, len(m.usage))
	for i, u := range m.usage {
		rows[i] = m.renderRow(u, nameWidth, i == m.cursor)
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(u model.ServiceUsage, nameWidth int, selected bool) string {
	c := u.Classification

	name := fmt.Sprintf("%-*s", nameWidth, u.Service.ID)
	cursor := "  "
	if selected {
		cursor = "> "
		name = m.theme.Selected.Render(name)
	} else {
		name = m.theme.Normal.Render(name)
	}

	bar := m.bars[c.Label]
	row := fmt.Sprintf("%s%s  %s %3d%%  %s", cursor, name, bar.ViewAs(c.Score), c.Percent(), m.labelStyle(c.Label).Render(c.Label.String()))

	if votes := u.Service.VoteCount(); votes > 0 {
		row += m.theme.Subtitle.Render(fmt.Sprintf("  (%d votes)", votes))
	}
	return row
}

func (m Model) renderConfirm() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.StatusWarning.Render(fmt.Sprintf("Cancel %s?", m.pending.TargetServiceID)),
		m.theme.Subtitle.Render("This removes it from tracking."),
	)
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderStatus() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.status != "":
		return m.theme.StatusSuccess.Render("✓ " + m.status)
	default:
		return ""
	}
}

func (m Model) labelStyle(label model.Label) lipgloss.Style {
	switch label {
	case model.LabelRecommendCancel:
		return lipgloss.NewStyle().Foreground(m.theme.Error)
	case model.LabelModerate:
		return lipgloss.NewStyle().Foreground(m.theme.Warning)
	default:
		return lipgloss.NewStyle().Foreground(m.theme.Success)
	}
}
