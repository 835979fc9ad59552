package model

import "time"

// Service represents a tracked subscription under usage evaluation.
type Service struct {
	RenewalDate *time.Time `json:"renewal_date,omitempty" yaml:"renewal_date,omitempty"`
	// UsageScore is a directly supplied 0-100 score. It is only consulted
	// when the service has no response history.
	UsageScore *int       `json:"usage_score,omitempty" yaml:"usage_score,omitempty"`
	ID         string     `json:"id" yaml:"id"`
	History    []Response `json:"history" yaml:"history"`
}

// Clone returns a deep copy so callers cannot mutate registry-owned history.
func (s Service) Clone() Service {
	out := s
	if s.RenewalDate != nil {
		d := *s.RenewalDate
		out.RenewalDate = &d
	}
	if s.UsageScore != nil {
		u := *s.UsageScore
		out.UsageScore = &u
	}
	if s.History != nil {
		out.History = make([]Response, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// VoteCount returns how many vote increments the service has received.
func (s Service) VoteCount() int {
	count := 0
	for _, r := range s.History {
		if r.Kind == KindVoteIncrement {
			count++
		}
	}
	return count
}
