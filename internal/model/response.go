package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-subs-must-go/internal/common"
)

// ResponseKind identifies which input shape a response carries.
type ResponseKind string

// Response kinds.
const (
	KindSurveyAnswer  ResponseKind = "SURVEY_ANSWER"
	KindVoteIncrement ResponseKind = "VOTE_INCREMENT"
	KindRawScore      ResponseKind = "RAW_SCORE"
)

// Answer is a tri-state survey answer.
type Answer string

// Survey answers.
const (
	AnswerYes      Answer = "Yes"
	AnswerRarely   Answer = "Rarely"
	AnswerNotAtAll Answer = "Not at all"
)

// Answers lists the survey answers in the order they are offered.
var Answers = []Answer{AnswerYes, AnswerRarely, AnswerNotAtAll}

// Response is one unit of feedback about a service.
// Only the field matching Kind is meaningful.
type Response struct {
	RecordedAt time.Time    `json:"recorded_at" yaml:"recorded_at"`
	Kind       ResponseKind `json:"kind" yaml:"kind"`
	Answer     Answer       `json:"answer,omitempty" yaml:"answer,omitempty"`
	RawScore   int          `json:"raw_score,omitempty" yaml:"raw_score,omitempty"`
}

// SurveyResponse creates a response carrying a survey answer.
func SurveyResponse(a Answer) Response {
	return Response{Kind: KindSurveyAnswer, Answer: a}
}

// VoteResponse creates a single "I used this" increment.
func VoteResponse() Response {
	return Response{Kind: KindVoteIncrement}
}

// RawScoreResponse creates a response carrying a pre-computed 0-100 score.
func RawScoreResponse(score int) Response {
	return Response{Kind: KindRawScore, RawScore: score}
}

// Validate checks that the response is well formed for its kind.
func (r Response) Validate() error {
	switch r.Kind {
	case KindSurveyAnswer:
		switch r.Answer {
		case AnswerYes, AnswerRarely, AnswerNotAtAll:
			return nil
		default:
			return fmt.Errorf("%w: unknown answer %q", common.ErrInvalidResponse, r.Answer)
		}
	case KindVoteIncrement:
		return nil
	case KindRawScore:
		if r.RawScore < 0 || r.RawScore > 100 {
			return fmt.Errorf("%w: raw score %d outside 0-100", common.ErrInvalidResponse, r.RawScore)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", common.ErrInvalidResponse, r.Kind)
	}
}

// ParseAnswer maps user input to an Answer. Matching is case-insensitive and
// accepts the first letter of each answer.
func ParseAnswer(s string) (Answer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return AnswerYes, nil
	case "r", "rarely":
		return AnswerRarely, nil
	case "n", "no", "not at all":
		return AnswerNotAtAll, nil
	}
	return "", fmt.Errorf("%w: unknown answer %q", common.ErrInvalidResponse, s)
}

// Submission is a response waiting in an open cycle for a specific service.
type Submission struct {
	ServiceID string
	Response  Response
}
