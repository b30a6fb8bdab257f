package goalstore

import "sort"

// RawGoal is one goal record as it appears in a yearly plan file.
type RawGoal struct {
	ID       int               `yaml:"id"`
	Title    string            `yaml:"titulo"`
	Polarity string            `yaml:"polaridade"`
	Expected string            `yaml:"esperado"`
	Result   string            `yaml:"resultado"`
	Periods  map[string]string `yaml:"quadrimestres"`
}

// RawObjective groups the goals filed under one objective.
type RawObjective struct {
	Objective string    `yaml:"objetivo"`
	Goals     []RawGoal `yaml:"metas"`
}

// RawDirective groups the objectives filed under one directive.
type RawDirective struct {
	Directive  string         `yaml:"diretriz"`
	Objectives []RawObjective `yaml:"objetivos"`
}

// YearData is the full plan for a single year.
type YearData struct {
	Year       string         `yaml:"ano"`
	Directives []RawDirective `yaml:"diretrizes"`
	Source     string         `yaml:"-"`
}

// Normalize flattens the nested year/directive/objective dataset into
// the goal registry.
//
// It runs in two passes. The first pass assigns each goal its identity:
// title, polarity, directive and objective are taken from the first
// record (in dataset iteration order) that carries the goal's id, and a
// later year must never silently re-file the goal elsewhere. The second
// pass merges yearly data, overwriting a year's record when the same
// year appears more than once. Goals lacking the synthesized year then
// receive one per the fallback rule.
//
// Normalize has no failure path: absent fields degrade to placeholder
// values rather than errors.
func Normalize(years []YearData) *Store {
	s := &Store{byID: make(map[int]*Goal)}

	forEachGoal(years, func(year string, directive, objective string, rec RawGoal) {
		if _, ok := s.byID[rec.ID]; ok {
			return
		}
		g := &Goal{
			ID:        rec.ID,
			Title:     rec.Title,
			Polarity:  ParsePolarity(rec.Polarity),
			Directive: directive,
			Objective: objective,
			Years:     make(map[string]YearRecord),
		}
		s.byID[rec.ID] = g
		s.goals = append(s.goals, g)
	})

	forEachGoal(years, func(year string, directive, objective string, rec RawGoal) {
		g := s.byID[rec.ID]
		g.Years[year] = YearRecord{
			Expected: orPlaceholder(rec.Expected, ExpectedUnknown),
			Result:   orPlaceholder(rec.Result, ResultNotMeasured),
			Periods:  copyPeriods(rec.Periods),
		}
	})

	for _, g := range s.goals {
		if _, ok := g.Years[SynthesizedYear]; ok {
			continue
		}
		expected := ExpectedUnknown
		if prior, ok := g.Years[PriorYear]; ok {
			expected = prior.Expected
		}
		g.Years[SynthesizedYear] = YearRecord{
			Expected: expected,
			Result:   ResultNotMeasured,
			Periods: map[string]string{
				"1": ResultNotMeasured,
				"2": ResultNotMeasured,
				"3": ResultNotMeasured,
			},
		}
	}

	s.years = collectYears(s.goals)
	return s
}

func forEachGoal(years []YearData, fn func(year, directive, objective string, rec RawGoal)) {
	for _, yd := range years {
		for _, dir := range yd.Directives {
			for _, obj := range dir.Objectives {
				for _, rec := range obj.Goals {
					fn(yd.Year, dir.Directive, obj.Objective, rec)
				}
			}
		}
	}
}

func orPlaceholder(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}

func copyPeriods(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func collectYears(goals []*Goal) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, g := range goals {
		for year := range g.Years {
			if _, ok := seen[year]; ok {
				continue
			}
			seen[year] = struct{}{}
			out = append(out, year)
		}
	}
	sort.Strings(out)
	return out
}
