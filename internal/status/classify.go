package status

import (
	"strings"

	"painelmetas/internal/goalstore"
)

// Status classifies a goal's achievement for a given period. The label
// and severity color are bound at the definition site; nothing
// downstream derives behavior from the label text.
type Status int

const (
	Superada Status = iota
	Alcancada
	ParcialmenteAlcancada
	NaoAlcancada
	EmAndamento
	NaoAplicavel
)

var statusLabels = [...]string{
	Superada:              "Superada",
	Alcancada:             "Alcançada",
	ParcialmenteAlcancada: "Parcialmente Alcançada",
	NaoAlcancada:          "Não Alcançada",
	EmAndamento:           "Em Andamento",
	NaoAplicavel:          "Não Aplicável",
}

var statusColors = [...]string{
	Superada:              "green",
	Alcancada:             "green",
	ParcialmenteAlcancada: "orange",
	NaoAlcancada:          "red",
	EmAndamento:           "yellow",
	NaoAplicavel:          "gray",
}

// All lists every status in severity order, best first. Used for
// deterministic aggregation output.
var All = []Status{Superada, Alcancada, ParcialmenteAlcancada, NaoAlcancada, EmAndamento, NaoAplicavel}

// Label returns the display label for the status.
func (s Status) Label() string {
	if s < 0 || int(s) >= len(statusLabels) {
		return statusLabels[NaoAplicavel]
	}
	return statusLabels[s]
}

// Color returns the severity color tag for the status.
func (s Status) Color() string {
	if s < 0 || int(s) >= len(statusColors) {
		return statusColors[NaoAplicavel]
	}
	return statusColors[s]
}

func (s Status) String() string {
	return s.Label()
}

// Simplified is the two-way collapse of Status used for aggregate
// counting and chart buckets.
type Simplified int

const (
	SimplifiedAlcancada Simplified = iota
	SimplifiedNaoAlcancada
	SimplifiedOutro
)

var simplifiedLabels = [...]string{
	SimplifiedAlcancada:    "Alcançada",
	SimplifiedNaoAlcancada: "Não Alcançada",
	SimplifiedOutro:        "Outro",
}

// Label returns the display label for the simplified status.
func (s Simplified) Label() string {
	if s < 0 || int(s) >= len(simplifiedLabels) {
		return simplifiedLabels[SimplifiedOutro]
	}
	return simplifiedLabels[s]
}

func (s Simplified) String() string {
	return s.Label()
}

// Simplify collapses the status: exceeded and achieved count as
// achieved, partially achieved counts as not achieved, and the
// placeholder statuses fall into "other".
func (s Status) Simplify() Simplified {
	switch s {
	case Superada, Alcancada:
		return SimplifiedAlcancada
	case ParcialmenteAlcancada, NaoAlcancada:
		return SimplifiedNaoAlcancada
	default:
		return SimplifiedOutro
	}
}

// partialBand is the fraction of the expected value that still counts
// as partially achieved for higher-is-better goals. Lower-is-better
// goals intentionally have no partial tier.
const partialBand = 0.9

// Classify determines the status for a raw result/expected pair under
// the goal's polarity. The placeholder check runs on the raw result
// text before any numeric parsing: a value like "apurando (80%)" is
// still in progress, not 80. An absent result reaches this function as
// goalstore.ResultNotMeasured; an explicitly empty string instead
// follows the numeric path and comes out not applicable.
func Classify(p goalstore.Polarity, result, expected string) Status {
	lower := strings.ToLower(strings.TrimSpace(result))
	if lower == "s/n" || lower == "na" {
		return EmAndamento
	}
	for _, token := range placeholderTokens {
		if strings.Contains(lower, token) {
			return EmAndamento
		}
	}

	exp := ParseValue(expected)
	res := ParseValue(result)
	if !exp.OK || !res.OK {
		return NaoAplicavel
	}

	if p == goalstore.LowerIsBetter {
		switch {
		case res.Value < exp.Value:
			return Superada
		case res.Value == exp.Value:
			return Alcancada
		default:
			return NaoAlcancada
		}
	}

	switch {
	case res.Value > exp.Value:
		return Superada
	case res.Value >= exp.Value:
		return Alcancada
	case res.Value >= partialBand*exp.Value:
		return ParcialmenteAlcancada
	default:
		return NaoAlcancada
	}
}
