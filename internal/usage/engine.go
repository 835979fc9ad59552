// Package usage turns sparse user feedback into an engagement score and a
// cancel/keep recommendation.
//
// Every function in this package is pure: results depend only on the
// arguments, nothing is cached, and an Engine is safe for concurrent use.
package usage

import (
	"fmt"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
)

// maxWeight is the weight of the strongest possible response.
const maxWeight = 2

// Default thresholds on the 0-1 scale.
const (
	DefaultCancelBelow = 0.30
	DefaultKeepAt      = 0.70
)

// Thresholds splits the 0-1 score range into recommendation tiers.
// Scores below CancelBelow recommend cancelling, scores at or above KeepAt
// recommend keeping, and everything in between is moderate.
type Thresholds struct {
	CancelBelow float64 `mapstructure:"cancel_below"`
	KeepAt      float64 `mapstructure:"keep_at"`
}

// DefaultThresholds returns the canonical 0.30 / 0.70 split.
func DefaultThresholds() Thresholds {
	return Thresholds{CancelBelow: DefaultCancelBelow, KeepAt: DefaultKeepAt}
}

// Validate ensures 0 <= CancelBelow < KeepAt <= 1.
func (t Thresholds) Validate() error {
	if t.CancelBelow < 0 || t.KeepAt > 1 {
		return fmt.Errorf("%w: thresholds must be within [0, 1], got %.2f/%.2f",
			common.ErrInvalidConfig, t.CancelBelow, t.KeepAt)
	}
	if t.CancelBelow >= t.KeepAt {
		return fmt.Errorf("%w: cancel threshold %.2f must be below keep threshold %.2f",
			common.ErrInvalidConfig, t.CancelBelow, t.KeepAt)
	}
	return nil
}

// Engine classifies services against a fixed set of thresholds.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine after validating the thresholds.
func NewEngine(t Thresholds) (*Engine, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Engine{thresholds: t}, nil
}

// DefaultEngine returns an engine using DefaultThresholds.
func DefaultEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds()}
}

// Thresholds returns the thresholds in use.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Weight maps a response to its aggregation weight. Raw scores bypass
// aggregation and report ok=false.
func Weight(r model.Response) (weight int, ok bool) {
	switch r.Kind {
	case model.KindVoteIncrement:
		return maxWeight, true
	case model.KindSurveyAnswer:
		switch r.Answer {
		case model.AnswerYes:
			return 2, true
		case model.AnswerRarely:
			return 1, true
		case model.AnswerNotAtAll:
			return 0, true
		}
	}
	return 0, false
}

// ScoreHistory computes sum(weights) / (count * 2). An empty history scores 0.
// Responses that cannot be aggregated are not counted.
func ScoreHistory(history []model.Response) float64 {
	total, sum := 0, 0
	for _, r := range history {
		w, ok := Weight(r)
		if !ok {
			continue
		}
		total++
		sum += w
	}
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total*maxWeight)
}

// ScoreRaw clamps a 0-100 score and rescales it to 0-1.
func ScoreRaw(raw int) float64 {
	switch {
	case raw < 0:
		raw = 0
	case raw > 100:
		raw = 100
	}
	return float64(raw) / 100
}

// Label returns the recommendation tier for a 0-1 score.
func (e *Engine) Label(score float64) model.Label {
	switch {
	case score < e.thresholds.CancelBelow:
		return model.LabelRecommendCancel
	case score < e.thresholds.KeepAt:
		return model.LabelModerate
	default:
		return model.LabelKeep
	}
}

// ClassifyHistory classifies an accumulated response history.
func (e *Engine) ClassifyHistory(history []model.Response) model.Classification {
	score := ScoreHistory(history)
	return model.Classification{Score: score, Label: e.Label(score)}
}

// ClassifyRaw classifies a directly supplied 0-100 score.
func (e *Engine) ClassifyRaw(raw int) model.Classification {
	score := ScoreRaw(raw)
	return model.Classification{Score: score, Label: e.Label(score)}
}

// Classify picks the input shape the service carries: its history when it
// has one, otherwise its supplied usage score, otherwise the default of 0.
func (e *Engine) Classify(svc model.Service) model.Classification {
	if len(svc.History) == 0 && svc.UsageScore != nil {
		return e.ClassifyRaw(*svc.UsageScore)
	}
	return e.ClassifyHistory(svc.History)
}

// Score returns only the score from Classify.
func (e *Engine) Score(svc model.Service) float64 {
	return e.Classify(svc).Score
}

// Lookup resolves a service by id.
type Lookup interface {
	Get(id string) (model.Service, error)
}

// ClassifyByID looks up a service and classifies it.
func (e *Engine) ClassifyByID(l Lookup, id string) (model.Classification, error) {
	svc, err := l.Get(id)
	if err != nil {
		return model.Classification{}, err
	}
	return e.Classify(svc), nil
}
