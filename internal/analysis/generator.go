// Package analysis produces AI-written qualitative analyses and action
// plans for a classified goal set.
package analysis

import (
	"context"
	"time"

	"painelmetas/internal/status"
)

// Generator produces an analysis for one period selection. The call is
// a single request/response exchange; retry and backoff policy is
// deliberately not owned here.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (*Result, error)
}

// Request carries the classified goal set the analysis is about.
type Request struct {
	Year    string
	Period  string
	Summary status.Summary
	Goals   []status.GoalStatus
}

// Result is the generated analysis in markdown form.
type Result struct {
	Markdown    string
	Generator   string
	Model       string
	GeneratedAt time.Time
}
