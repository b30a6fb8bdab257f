package goalstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validPlanYAML = `
ano: "2022"
diretrizes:
  - diretriz: Atenção Primária
    objetivos:
      - objetivo: Ampliar cobertura
        metas:
          - id: 1
            titulo: Cobertura populacional ESF
            polaridade: positiva
            esperado: "76%"
            resultado: "78,25%"
            quadrimestres:
              "1": "70%"
              "2": "74,1%"
              "3": "78,25%"
`

func TestParseYearDataValid(t *testing.T) {
	yd, err := ParseYearData([]byte(validPlanYAML), "2022.yml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if yd.Year != "2022" {
		t.Fatalf("expected year 2022, got %s", yd.Year)
	}
	if len(yd.Directives) != 1 || len(yd.Directives[0].Objectives) != 1 {
		t.Fatalf("unexpected structure %+v", yd.Directives)
	}
	goals := yd.Directives[0].Objectives[0].Goals
	if len(goals) != 1 || goals[0].Periods["2"] != "74,1%" {
		t.Fatalf("unexpected goals %+v", goals)
	}
}

func TestParseYearDataStructuralErrors(t *testing.T) {
	yml := `
ano: ""
diretrizes:
  - diretriz: ""
    objetivos:
      - objetivo: ""
        metas:
          - id: 0
            titulo: ""
          - id: 7
            titulo: Alguma meta
          - id: 7
            titulo: Meta repetida
`
	_, err := ParseYearData([]byte(yml), "bad.yml")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	ves, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	msg := ves.Error()
	for _, want := range []string{"ano", "diretriz", "objetivo", "id must be a positive", "duplicate meta id 7"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("validation output missing %q:\n%s", want, msg)
		}
	}
}

func TestParseYearDataMessyFieldsTolerated(t *testing.T) {
	yml := `
ano: "2023"
diretrizes:
  - diretriz: Vigilância
    objetivos:
      - objetivo: Reduzir agravos
        metas:
          - id: 12
            titulo: Meta com campos bagunçados
            polaridade: qualquer coisa
            esperado: ""
            resultado: apurando (80%)
`
	yd, err := ParseYearData([]byte(yml), "2023.yml")
	if err != nil {
		t.Fatalf("messy field values must not fail parsing: %v", err)
	}
	rec := yd.Directives[0].Objectives[0].Goals[0]
	if rec.Result != "apurando (80%)" {
		t.Fatalf("raw result altered: %q", rec.Result)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmp := t.TempDir()
	plansDir := filepath.Join(tmp, "planos")
	if err := os.MkdirAll(plansDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(plansDir, "2022.yml"), []byte(validPlanYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	later := strings.ReplaceAll(validPlanYAML, "2022", "2023")
	if err := os.WriteFile(filepath.Join(plansDir, "2023.yml"), []byte(later), 0o644); err != nil {
		t.Fatal(err)
	}

	years, err := LoadFromDir(plansDir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(years) != 2 {
		t.Fatalf("expected 2 year documents, got %d", len(years))
	}
	if years[0].Year != "2022" || years[1].Year != "2023" {
		t.Fatalf("documents out of filename order: %s, %s", years[0].Year, years[1].Year)
	}

	s := Normalize(years)
	if s.Len() != 1 {
		t.Fatalf("same id across years must yield one goal, got %d", s.Len())
	}
}

func TestLoadFromDirEmpty(t *testing.T) {
	tmp := t.TempDir()
	if _, err := LoadFromDir(tmp); err == nil {
		t.Fatalf("expected error for empty plans dir")
	}
}
