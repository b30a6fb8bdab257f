package status

import (
	"painelmetas/internal/goalstore"
)

// GoalStatus pairs a goal with its resolved values and classification
// for one period selection.
type GoalStatus struct {
	ID         int    `json:"id"`
	Title      string `json:"titulo"`
	Directive  string `json:"diretriz"`
	Objective  string `json:"objetivo"`
	Polarity   string `json:"polaridade"`
	Expected   string `json:"esperado"`
	Result     string `json:"resultado"`
	Status     string `json:"situacao"`
	Color      string `json:"cor"`
	Simplified string `json:"situacao_simplificada"`
}

// StatusCount is one chart bucket. Represented as a slice entry (not a
// map) in Summary to keep JSON output deterministic.
type StatusCount struct {
	Status string `json:"situacao"`
	Color  string `json:"cor"`
	Count  int    `json:"total"`
}

// Summary aggregates classifications for a filtered goal set. The
// simplified counts always sum to Total.
type Summary struct {
	Year        string        `json:"ano"`
	Period      string        `json:"quadrimestre,omitempty"`
	Total       int           `json:"total"`
	Counts      []StatusCount `json:"por_situacao"`
	Achieved    int           `json:"alcancadas"`
	NotAchieved int           `json:"nao_alcancadas"`
	Other       int           `json:"outras"`
}

// Evaluate resolves and classifies a single goal for a year and
// sub-period, applying the annual-result fallback.
func Evaluate(g *goalstore.Goal, year, period string) GoalStatus {
	result := g.ResultFor(year, period)
	expected := g.ExpectedFor(year)
	st := Classify(g.Polarity, result, expected)
	return GoalStatus{
		ID:         g.ID,
		Title:      g.Title,
		Directive:  g.Directive,
		Objective:  g.Objective,
		Polarity:   g.Polarity.String(),
		Expected:   expected,
		Result:     result,
		Status:     st.Label(),
		Color:      st.Color(),
		Simplified: st.Simplify().Label(),
	}
}

// Summarize computes chart buckets for the given goals under one
// year/period selection.
func Summarize(goals []*goalstore.Goal, year, period string) Summary {
	counts := make(map[Status]int)
	summary := Summary{Year: year, Period: period}

	for _, g := range goals {
		st := Classify(g.Polarity, g.ResultFor(year, period), g.ExpectedFor(year))
		counts[st]++
		summary.Total++
		switch st.Simplify() {
		case SimplifiedAlcancada:
			summary.Achieved++
		case SimplifiedNaoAlcancada:
			summary.NotAchieved++
		default:
			summary.Other++
		}
	}

	for _, st := range All {
		summary.Counts = append(summary.Counts, StatusCount{
			Status: st.Label(),
			Color:  st.Color(),
			Count:  counts[st],
		})
	}

	return summary
}
