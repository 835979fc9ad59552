package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/prompt"
)

// ErrInputTerminated is returned when the input stream ends mid-prompt.
var ErrInputTerminated = errors.New("input terminated")

const barWidth = 20

// Prompter implements the interactive check-in prompts over a line-based terminal.
type Prompter struct {
	writer      io.Writer
	reader      *bufio.Reader
	progressBar *progressbar.ProgressBar
	mu          sync.Mutex
}

// NewCLIPrompter creates a new CLI prompter with the given reader and writer.
func NewCLIPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// StartSurvey resets the progress bar for a round of total questions.
func (p *Prompter) StartSurvey(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][bold]Checking in...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

func (p *Prompter) updateProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar == nil {
		return
	}
	if err := p.progressBar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
	if _, err := fmt.Fprintln(p.writer); err != nil {
		slog.Warn("Failed to write newline", "error", err)
	}
}

// AskUsage asks whether a service is used. A blank line or s leaves it unanswered.
func (p *Prompter) AskUsage(ctx context.Context, serviceID string) (model.Answer, bool, error) {
	if _, err := fmt.Fprintf(p.writer, "\n%s %s\n", BellIcon, BoldStyle.Render("Do you use "+serviceID+"?")); err != nil {
		return "", false, fmt.Errorf("failed to write question: %w", err)
	}
	if _, err := fmt.Fprintln(p.writer, "  [Y] Yes   [R] Rarely   [N] Not at all   [S/Enter] Skip"); err != nil {
		return "", false, fmt.Errorf("failed to write options: %w", err)
	}

	choice, err := p.promptChoice(ctx, "Choice", []string{"y", "r", "n", "s", ""})
	if err != nil {
		return "", false, err
	}
	defer p.updateProgress()

	if choice == "s" || choice == "" {
		return "", false, nil
	}
	answer, err := model.ParseAnswer(choice)
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}

// AskVote lists one title per service and asks which was watched recently.
func (p *Prompter) AskVote(ctx context.Context, prompts []prompt.Prompt) (string, bool, error) {
	var b strings.Builder
	for i, pr := range prompts {
		fmt.Fprintf(&b, "  [%d] %s %s\n", i+1, pr.Title, SubtleStyle.Render("("+pr.ServiceID+")"))
	}
	b.WriteString("  [0] None of these")

	if _, err := fmt.Fprintln(p.writer, RenderBox(TipIcon+" Which of these did you watch recently?", b.String())); err != nil {
		return "", false, fmt.Errorf("failed to write vote options: %w", err)
	}

	idx, err := p.promptIndex(ctx, "Pick one", len(prompts), "0")
	if err != nil {
		return "", false, err
	}
	if idx < 0 {
		return "", false, nil
	}

	id := prompts[idx].ServiceID
	if _, err := fmt.Fprintln(p.writer, FormatSuccess("Vote recorded for "+id)); err != nil {
		slog.Warn("Failed to write vote confirmation", "error", err)
	}
	return id, true, nil
}

// ShowAnalysis renders every service with its usage bar and label.
func (p *Prompter) ShowAnalysis(_ context.Context, usage []model.ServiceUsage) error {
	if _, err := fmt.Fprintln(p.writer, RenderAnalysis(usage)); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	return nil
}

// ChooseCancel asks which service, if any, to cancel. An empty line skips.
func (p *Prompter) ChooseCancel(ctx context.Context, usage []model.ServiceUsage) (string, bool, error) {
	for i, u := range usage {
		if _, err := fmt.Fprintf(p.writer, "  [%d] %s\n", i+1, u.Service.ID); err != nil {
			return "", false, fmt.Errorf("failed to write cancel option: %w", err)
		}
	}

	idx, err := p.promptIndex(ctx, "Cancel a subscription? (number, Enter to skip)", len(usage), "")
	if err != nil {
		return "", false, err
	}
	if idx < 0 {
		return "", false, nil
	}
	return usage[idx].Service.ID, true, nil
}

// ConfirmCancel asks for a final yes before removing a service.
func (p *Prompter) ConfirmCancel(ctx context.Context, serviceID string) (bool, error) {
	if _, err := fmt.Fprintln(p.writer, FormatWarning("Cancel "+serviceID+"? This removes it from tracking.")); err != nil {
		return false, fmt.Errorf("failed to write confirmation: %w", err)
	}

	confirmed, err := p.promptYesNo(ctx, "Confirm [y/N]")
	if err != nil {
		return false, err
	}

	msg := FormatInfo("Kept " + serviceID)
	if confirmed {
		msg = FormatSuccess("Cancelled " + serviceID)
	}
	if _, err := fmt.Fprintln(p.writer, msg); err != nil {
		slog.Warn("Failed to write cancellation result", "error", err)
	}
	return confirmed, nil
}

// AskAnotherRound asks whether to start another check-in.
func (p *Prompter) AskAnotherRound(ctx context.Context) (bool, error) {
	return p.promptYesNo(ctx, "Take another check-in? [y/N]")
}

func (p *Prompter) promptYesNo(ctx context.Context, prompt string) (bool, error) {
	choice, err := p.promptChoice(ctx, prompt, []string{"y", "yes", "n", "no", ""})
	if err != nil {
		return false, err
	}
	return choice == "y" || choice == "yes", nil
}

// promptIndex reads a 1-based choice in [1, n] and returns it 0-based.
// skip is the input that means "none" and yields -1.
func (p *Prompter) promptIndex(ctx context.Context, prompt string, n int, skip string) (int, error) {
	valid := make([]string, 0, n+1)
	valid = append(valid, skip)
	for i := 1; i <= n; i++ {
		valid = append(valid, strconv.Itoa(i))
	}

	choice, err := p.promptChoice(ctx, prompt, valid)
	if err != nil {
		return 0, err
	}
	if choice == skip {
		return -1, nil
	}

	idx, err := strconv.Atoi(choice)
	if err != nil {
		return 0, fmt.Errorf("unexpected choice: %s", choice)
	}
	return idx - 1, nil
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrInputTerminated
			}
			return "", err
		}

		choice := strings.ToLower(strings.TrimSpace(input))
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(p.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

// RenderAnalysis formats the usage summary box.
func RenderAnalysis(usage []model.ServiceUsage) string {
	if len(usage) == 0 {
		return FormatInfo("No subscriptions are being tracked.")
	}

	width := 0
	for _, u := range usage {
		width = max(width, len(u.Service.ID))
	}

	lines := make([]string, len(usage))
	for i, u := range usage {
		c := u.Classification
		lines[i] = fmt.Sprintf("%-*s  %s %3d%%  %s",
			width, u.Service.ID,
			UsageBar(c, barWidth),
			c.Percent(),
			StyledLabel(c.Label))
	}
	return RenderBox(ChartIcon+" Usage Analysis", strings.Join(lines, "\n"))
}

// RenderRenewals formats the upcoming renewal reminders.
func RenderRenewals(usage []model.ServiceUsage, windowDays int) string {
	if len(usage) == 0 {
		return FormatInfo(fmt.Sprintf("No renewals in the next %d days.", windowDays))
	}

	var b strings.Builder
	for i, u := range usage {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s %s renews on %s\n", BellIcon, BoldStyle.Render(u.Service.ID),
			u.Service.RenewalDate.Format("Jan 2, 2006"))
		fmt.Fprintf(&b, "  Usage Score: %d%% %s\n", u.Classification.Percent(), UsageBar(u.Classification, barWidth))
		fmt.Fprintf(&b, "  %s %s", TipIcon, u.Classification.Label.Advice())
	}
	return RenderBox(fmt.Sprintf("Renewing in the next %d days", windowDays), b.String())
}
