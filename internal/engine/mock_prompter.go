package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/the-subs-must-go/internal/model"
	"github.com/Veraticus/the-subs-must-go/internal/prompt"
)

// MockPrompter is a scripted test implementation of the Prompter interface.
// Services without a scripted answer are skipped.
type MockPrompter struct {
	AskErr      error
	ConfirmErr  error
	Answers     map[string]model.Answer
	Confirm     map[string]bool
	Vote        string
	Analyses    [][]model.ServiceUsage
	VotePrompts [][]prompt.Prompt
	asked       []string
	cancelQueue []string
	rounds      []bool
	mu          sync.Mutex
}

// NewMockPrompter creates a mock prompter with the given survey answers.
func NewMockPrompter(answers map[string]model.Answer) *MockPrompter {
	return &MockPrompter{
		Answers: answers,
		Confirm: make(map[string]bool),
	}
}

// QueueCancel schedules services to pick from the analysis, in order.
func (m *MockPrompter) QueueCancel(serviceIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelQueue = append(m.cancelQueue, serviceIDs...)
}

// QueueRounds schedules answers for "take another check-in?".
func (m *MockPrompter) QueueRounds(answers ...bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, answers...)
}

// Asked returns the services AskUsage was called for.
func (m *MockPrompter) Asked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.asked...)
}

// AskUsage returns the scripted answer for the service.
func (m *MockPrompter) AskUsage(_ context.Context, serviceID string) (model.Answer, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.asked = append(m.asked, serviceID)
	if m.AskErr != nil {
		return "", false, m.AskErr
	}
	a, ok := m.Answers[serviceID]
	return a, ok, nil
}

// AskVote records the prompts and returns the scripted vote.
func (m *MockPrompter) AskVote(_ context.Context, prompts []prompt.Prompt) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.VotePrompts = append(m.VotePrompts, prompts)
	return m.Vote, m.Vote != "", nil
}

// ShowAnalysis records what would have been displayed.
func (m *MockPrompter) ShowAnalysis(_ context.Context, usage []model.ServiceUsage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Analyses = append(m.Analyses, usage)
	return nil
}

// ChooseCancel pops the next queued service.
func (m *MockPrompter) ChooseCancel(_ context.Context, _ []model.ServiceUsage) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.cancelQueue) == 0 {
		return "", false, nil
	}
	id := m.cancelQueue[0]
	m.cancelQueue = m.cancelQueue[1:]
	return id, true, nil
}

// ConfirmCancel returns the scripted decision; unscripted services are kept.
func (m *MockPrompter) ConfirmCancel(_ context.Context, serviceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ConfirmErr != nil {
		return false, m.ConfirmErr
	}
	return m.Confirm[serviceID], nil
}

// AskAnotherRound pops the next queued answer, defaulting to false.
func (m *MockPrompter) AskAnotherRound(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.rounds) == 0 {
		return false, nil
	}
	again := m.rounds[0]
	m.rounds = m.rounds[1:]
	return again, nil
}
