package goalstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// LoadFromDir loads every yearly plan YAML file from the provided
// directory and returns them in filename order. Field-level messiness
// is tolerated (the normalizer degrades it to placeholders); only
// structural problems — unreadable files, invalid YAML, missing year
// keys, duplicate ids within a file — are reported.
func LoadFromDir(plansDir string) ([]YearData, error) {
	if plansDir == "" {
		plansDir = "planos"
	}

	files, err := filepath.Glob(filepath.Join(plansDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("scan plans dir: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no plan YAML files found in %s", plansDir)
	}
	sort.Strings(files)

	var years []YearData
	var vErrs ValidationErrors

	for _, path := range files {
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		yd, parseErr := ParseYearData(data, path)
		if parseErr != nil {
			if ve, ok := parseErr.(ValidationErrors); ok {
				vErrs = append(vErrs, ve...)
				continue
			}
			return nil, parseErr
		}
		years = append(years, yd)
	}

	if len(vErrs) > 0 {
		return nil, vErrs
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no plan documents found in %s", plansDir)
	}

	return years, nil
}

// ParseYearData unmarshals and structurally validates a single yearly
// plan document.
func ParseYearData(data []byte, source string) (YearData, error) {
	var yd YearData
	if err := yaml.Unmarshal(data, &yd); err != nil {
		return YearData{}, ValidationErrors{{
			File:    source,
			Field:   "yaml",
			Message: err.Error(),
		}}
	}
	yd.Source = source
	if errs := validateYearData(yd, source); len(errs) > 0 {
		return YearData{}, errs
	}
	return yd, nil
}
