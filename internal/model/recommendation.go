package model

import "github.com/shopspring/decimal"

// Priority orders recommendations for the user.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the numeric ordering of a priority (urgent highest).
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Recommendation is a ranked, actionable suggestion. Generated fresh per
// request; not persisted unless the caller chooses to.
type Recommendation struct {
	ID                  string
	Title               string
	Description         string
	Category            string
	Priority            Priority
	PotentialImpact     decimal.Decimal // estimated monthly impact
	ImplementationSteps []string
	Difficulty          string // easy|medium|hard
	EstimatedTime       string
	SuccessProbability  float64 // percentage, 0-100
	RelatedGoals        []string
	AIConfidence        float64 // [0,1]
}
