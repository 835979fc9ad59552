// Package model defines the core domain models used throughout the application.
package model

import "math"

// Label is the recommendation tier derived from a usage score.
type Label string

// Label constants.
const (
	LabelRecommendCancel Label = "RECOMMEND_CANCEL"
	LabelModerate        Label = "MODERATE"
	LabelKeep            Label = "KEEP"
)

// String returns the text shown next to a usage bar.
func (l Label) String() string {
	switch l {
	case LabelRecommendCancel:
		return "Recommended to Cancel"
	case LabelModerate:
		return "Moderate Usage"
	case LabelKeep:
		return "Keep It"
	default:
		return string(l)
	}
}

// Advice returns the longer hint used by the renewal reminder list.
func (l Label) Advice() string {
	switch l {
	case LabelRecommendCancel:
		return "Low engagement, consider cancelling!"
	case LabelModerate:
		return "Moderate usage, keep an eye on it."
	case LabelKeep:
		return "Active usage, good to continue."
	default:
		return ""
	}
}

// Classification describes how engaged the user is with a service.
// It is always derived from a service's history or raw score and never stored.
type Classification struct {
	Label Label   `json:"label" yaml:"label"`
	Score float64 `json:"score" yaml:"score"`
}

// Percent returns the score on a 0-100 scale, rounded to the nearest integer.
func (c Classification) Percent() int {
	return int(math.Round(c.Score * 100))
}

// ServiceUsage pairs a service snapshot with its current classification.
type ServiceUsage struct {
	Service        Service
	Classification Classification
}
