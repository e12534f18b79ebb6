package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Outcome is the category a delivery status falls into.
type Outcome int

const (
	OutcomeOther Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "other"
	}
}

// Canonical status values observed in field data.
const (
	StatusDelivered     = "DELIVERED"
	StatusFailureMarker = "FAILED"
)

// StatusClassifier maps an open-ended status string to an Outcome.
// Aggregation and rendering only ever classify through this interface so the
// matching rule can change without touching them.
type StatusClassifier interface {
	Classify(status string) Outcome
}

// MarkerClassifier is the default rule: a status equal to Success is a success,
// a status containing FailureMarker is a failure (field data carries several
// failure sub-codes sharing the marker). Both comparisons are case-insensitive.
type MarkerClassifier struct {
	Success       string
	FailureMarker string
}

// DefaultClassifier matches "DELIVERED" and any status containing "FAILED".
var DefaultClassifier = MarkerClassifier{
	Success:       StatusDelivered,
	FailureMarker: StatusFailureMarker,
}

func (m MarkerClassifier) Classify(status string) Outcome {
	// cases.Caser is stateful; one per call keeps the classifier safe for concurrent use.
	fold := cases.Fold()
	s := fold.String(strings.TrimSpace(status))

	if m.Success != "" && s == fold.String(m.Success) {
		return OutcomeSuccess
	}
	if m.FailureMarker != "" && strings.Contains(s, fold.String(m.FailureMarker)) {
		return OutcomeFailure
	}
	return OutcomeOther
}
