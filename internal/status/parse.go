package status

import (
	"strconv"
	"strings"
)

// ParsedValue is the outcome of parsing a raw result/expected field:
// either a finite number or an explicit not-a-number marker. Downstream
// logic must treat a not-OK value as unknown, never as zero.
type ParsedValue struct {
	Value float64
	OK    bool
}

// NotANumber is the sentinel returned for every unparseable input.
var NotANumber = ParsedValue{}

// placeholderTokens mark a value as still being collected or reviewed.
// A raw value containing any of them is not a number regardless of any
// digits around it.
var placeholderTokens = []string{"andamento", "apurando", "mensurado"}

// ParseValue converts a raw textual field into a number. It is total:
// placeholder tokens, empty strings and garbage all yield NotANumber,
// never an error. Recognized numeric forms may carry a trailing "%", a
// decimal comma and stray apostrophes.
func ParseValue(raw string) ParsedValue {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" || lower == "na" || lower == "s/n" {
		return NotANumber
	}
	for _, token := range placeholderTokens {
		if strings.Contains(lower, token) {
			return NotANumber
		}
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = strings.TrimSpace(cleaned)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return NotANumber
	}
	return ParsedValue{Value: v, OK: true}
}
