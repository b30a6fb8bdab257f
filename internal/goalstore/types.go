package goalstore

// Polarity indicates whether a higher or lower result is better for a goal.
type Polarity int

const (
	HigherIsBetter Polarity = iota
	LowerIsBetter
)

// ParsePolarity maps the raw dataset polarity string to a Polarity.
// Only the exact value "negativa" selects LowerIsBetter; every other
// value, including empty and unrecognized strings, defaults to
// HigherIsBetter. The permissive default is intentional: source plans
// carry free-form polarity text and must never be rejected over it.
func ParsePolarity(raw string) Polarity {
	if raw == "negativa" {
		return LowerIsBetter
	}
	return HigherIsBetter
}

func (p Polarity) String() string {
	if p == LowerIsBetter {
		return "negativa"
	}
	return "positiva"
}

// Placeholder values used when source fields are absent.
const (
	ExpectedUnknown   = "N/A"
	ResultNotMeasured = "S/N"
)

// SynthesizedYear is appended to every goal that lacks it; its expected
// value is copied from PriorYear and its results are ResultNotMeasured.
const (
	SynthesizedYear = "2025"
	PriorYear       = "2024"
)

// YearRecord holds one year of raw expected/result data for a goal.
// Values are kept in their raw textual form; interpretation is the
// status package's job.
type YearRecord struct {
	Expected string
	Result   string
	// Periods maps the sub-period key ("1", "2", "3") to its raw
	// result. A missing key falls back to the annual Result.
	Periods map[string]string
}

// Goal is a tracked public-health target. Identity fields are frozen at
// first observation during normalization and never overwritten; only
// yearly data is merged afterwards.
type Goal struct {
	ID        int
	Title     string
	Polarity  Polarity
	Directive string
	Objective string
	Years     map[string]YearRecord
}

// ExpectedFor returns the raw expected value for a year, or
// ExpectedUnknown when the goal has no record for that year.
func (g *Goal) ExpectedFor(year string) string {
	rec, ok := g.Years[year]
	if !ok {
		return ExpectedUnknown
	}
	return rec.Expected
}

// ResultFor returns the raw result for a year and sub-period. An empty
// period selects the annual result, as does any period key absent from
// the year's sub-period map. A missing year yields ResultNotMeasured.
func (g *Goal) ResultFor(year, period string) string {
	rec, ok := g.Years[year]
	if !ok {
		return ResultNotMeasured
	}
	if period == "" {
		return rec.Result
	}
	if v, ok := rec.Periods[period]; ok {
		return v
	}
	return rec.Result
}

// Store is the flat goal registry produced by Normalize. It is
// immutable after construction, so concurrent readers need no locking.
type Store struct {
	goals []*Goal
	byID  map[int]*Goal
	years []string
}

// Goals returns every goal in first-observation order.
func (s *Store) Goals() []*Goal {
	return s.goals
}

// Lookup returns the goal with the given id, if present.
func (s *Store) Lookup(id int) (*Goal, bool) {
	g, ok := s.byID[id]
	return g, ok
}

// Len returns the number of distinct goals in the registry.
func (s *Store) Len() int {
	return len(s.goals)
}

// Years returns the dataset years in ascending order, including the
// synthesized one.
func (s *Store) Years() []string {
	return s.years
}

// Directives returns the distinct directive labels in first-observation
// order.
func (s *Store) Directives() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, g := range s.goals {
		if _, ok := seen[g.Directive]; ok {
			continue
		}
		seen[g.Directive] = struct{}{}
		out = append(out, g.Directive)
	}
	return out
}

// Objectives returns the distinct objective labels filed under the
// given directive, in first-observation order. An empty directive
// returns every objective.
func (s *Store) Objectives(directive string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, g := range s.goals {
		if directive != "" && g.Directive != directive {
			continue
		}
		if _, ok := seen[g.Objective]; ok {
			continue
		}
		seen[g.Objective] = struct{}{}
		out = append(out, g.Objective)
	}
	return out
}
