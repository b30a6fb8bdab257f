package status

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ReportSchemaVersion = 1

// Report is the exported aggregate for one period selection, written
// under <workspace>/artifacts/resumos/.
type Report struct {
	SchemaVersion int          `json:"schema_version"`
	GeneratedAt   string       `json:"gerado_em"`
	Summary       Summary      `json:"resumo"`
	Goals         []GoalStatus `json:"metas"`
}

// WriteReport writes a report atomically via a temp file.
func WriteReport(path string, report Report) error {
	if path == "" {
		return fmt.Errorf("report path is required")
	}
	if report.Summary.Year == "" {
		return fmt.Errorf("report year is required")
	}
	report.SchemaVersion = ReportSchemaVersion

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

// LoadReport reads a previously exported report.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report Report
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if report.SchemaVersion != ReportSchemaVersion {
		return nil, fmt.Errorf("unsupported report schema_version %d", report.SchemaVersion)
	}
	if report.Summary.Year == "" {
		return nil, fmt.Errorf("report missing year")
	}
	return &report, nil
}

// ReportPathFor returns the canonical report path for a selection.
func ReportPathFor(dir, year, period string) string {
	name := "resumo-" + year
	if period != "" {
		name += "-q" + period
	}
	return filepath.Join(dir, name+".json")
}

// LatestReportPath returns the most recent report in dir by filename
// order.
func LatestReportPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read reports dir: %w", err)
	}
	var candidates []string
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, ent.Name()))
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}
	sort.Strings(candidates)
	return candidates[len(candidates)-1], nil
}
