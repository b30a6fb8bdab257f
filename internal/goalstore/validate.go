package goalstore

import (
	"fmt"
	"strings"
)

// ValidationError captures a single structural issue in a plan file.
type ValidationError struct {
	File    string
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Message)
}

// ValidationErrors aggregates multiple validation problems.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// validateYearData checks the structure of one yearly plan. Content
// fields (esperado, resultado, polaridade) are deliberately not
// validated here: messy values are meaningful and degrade to
// placeholder classifications downstream.
func validateYearData(yd YearData, source string) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(yd.Year) == "" {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "ano",
			Message: "year key is required",
		})
	}
	if len(yd.Directives) == 0 {
		errs = append(errs, ValidationError{
			File:    source,
			Field:   "diretrizes",
			Message: "must contain at least one directive",
		})
	}

	ids := make(map[int]string)
	for di, dir := range yd.Directives {
		dirPath := fmt.Sprintf("diretrizes[%d]", di)
		if strings.TrimSpace(dir.Directive) == "" {
			errs = append(errs, ValidationError{
				File:    source,
				Field:   dirPath + ".diretriz",
				Message: "directive label is required",
			})
		}
		for oi, obj := range dir.Objectives {
			objPath := fmt.Sprintf("%s.objetivos[%d]", dirPath, oi)
			if strings.TrimSpace(obj.Objective) == "" {
				errs = append(errs, ValidationError{
					File:    source,
					Field:   objPath + ".objetivo",
					Message: "objective label is required",
				})
			}
			for gi, rec := range obj.Goals {
				goalPath := fmt.Sprintf("%s.metas[%d]", objPath, gi)
				if rec.ID <= 0 {
					errs = append(errs, ValidationError{
						File:    source,
						Field:   goalPath + ".id",
						Message: "meta id must be a positive integer",
					})
					continue
				}
				if prev, exists := ids[rec.ID]; exists {
					errs = append(errs, ValidationError{
						File:    source,
						Field:   goalPath + ".id",
						Message: fmt.Sprintf("duplicate meta id %d (first at %s)", rec.ID, prev),
					})
					continue
				}
				ids[rec.ID] = goalPath
				if strings.TrimSpace(rec.Title) == "" {
					errs = append(errs, ValidationError{
						File:    source,
						Field:   goalPath + ".titulo",
						Message: "meta title is required",
					})
				}
			}
		}
	}

	return errs
}
