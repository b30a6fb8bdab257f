package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"painelmetas/internal/analysis"
	"painelmetas/internal/audit"
	"painelmetas/internal/goalstore"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	years := []goalstore.YearData{
		{
			Year: "2023",
			Directives: []goalstore.RawDirective{
				{
					Directive: "Atenção Primária",
					Objectives: []goalstore.RawObjective{
						{
							Objective: "Ampliar cobertura",
							Goals: []goalstore.RawGoal{
								{ID: 1, Title: "Cobertura ESF", Polarity: "positiva", Expected: "100", Result: "101",
									Periods: map[string]string{"1": "90"}},
								{ID: 2, Title: "Mortalidade infantil", Polarity: "negativa", Expected: "10", Result: "12"},
							},
						},
					},
				},
				{
					Directive: "Vigilância em Saúde",
					Objectives: []goalstore.RawObjective{
						{
							Objective: "Reduzir agravos",
							Goals: []goalstore.RawGoal{
								{ID: 3, Title: "Cobertura vacinal", Polarity: "positiva", Expected: "95", Result: "apurando"},
							},
						},
					},
				},
			},
		},
	}

	srv, err := New(Config{
		Store:       goalstore.Normalize(years),
		Generator:   &analysis.MockGenerator{},
		AuditLogger: audit.NewLogger(filepath.Join(t.TempDir(), "audit.sqlite")),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestHealth(t *testing.T) {
	ts := testServer(t)
	var body struct {
		Status string `json:"status"`
		Metas  int    `json:"metas"`
	}
	getJSON(t, ts.URL+"/healthz", &body)
	if body.Status != "ok" || body.Metas != 3 {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestCatalog(t *testing.T) {
	ts := testServer(t)
	var body struct {
		Anos       []string            `json:"anos"`
		Diretrizes []string            `json:"diretrizes"`
		Objetivos  map[string][]string `json:"objetivos"`
	}
	getJSON(t, ts.URL+"/api/catalogo", &body)
	if len(body.Anos) != 2 || body.Anos[0] != "2023" || body.Anos[1] != "2025" {
		t.Fatalf("anos = %v", body.Anos)
	}
	if len(body.Diretrizes) != 2 {
		t.Fatalf("diretrizes = %v", body.Diretrizes)
	}
	if objs := body.Objetivos["Vigilância em Saúde"]; len(objs) != 1 || objs[0] != "Reduzir agravos" {
		t.Fatalf("objetivos = %v", body.Objetivos)
	}
}

func TestListGoalsWithFilters(t *testing.T) {
	ts := testServer(t)

	var body struct {
		Ano   string `json:"ano"`
		Total int    `json:"total"`
		Metas []struct {
			ID       int    `json:"id"`
			Situacao string `json:"situacao"`
			Cor      string `json:"cor"`
		} `json:"metas"`
	}

	getJSON(t, ts.URL+"/api/metas?ano=2023", &body)
	if body.Total != 3 {
		t.Fatalf("unfiltered total = %d, want 3", body.Total)
	}

	getJSON(t, ts.URL+"/api/metas?ano=2023&diretriz="+url.QueryEscape("Atenção Primária"), &body)
	if body.Total != 2 {
		t.Fatalf("directive filter total = %d, want 2", body.Total)
	}

	getJSON(t, ts.URL+"/api/metas?ano=2023&situacao=Superada", &body)
	if body.Total != 1 || body.Metas[0].ID != 1 || body.Metas[0].Cor != "green" {
		t.Fatalf("status filter result: %+v", body)
	}

	// Sub-period selection changes the classification.
	getJSON(t, ts.URL+"/api/metas?ano=2023&quadrimestre=1", &body)
	for _, m := range body.Metas {
		if m.ID == 1 && m.Situacao != "Parcialmente Alcançada" {
			t.Fatalf("meta 1 in period 1 = %q, want Parcialmente Alcançada", m.Situacao)
		}
	}
}

func TestListGoalsDefaultsToLatestYear(t *testing.T) {
	ts := testServer(t)
	var body struct {
		Ano   string `json:"ano"`
		Metas []struct {
			Situacao string `json:"situacao"`
		} `json:"metas"`
	}
	getJSON(t, ts.URL+"/api/metas", &body)
	if body.Ano != "2025" {
		t.Fatalf("default year = %q, want 2025", body.Ano)
	}
	for _, m := range body.Metas {
		if m.Situacao != "Em Andamento" {
			t.Fatalf("synthesized year situacao = %q, want Em Andamento", m.Situacao)
		}
	}
}

func TestGetGoal(t *testing.T) {
	ts := testServer(t)

	var body struct {
		Meta struct {
			ID       int    `json:"id"`
			Situacao string `json:"situacao"`
		} `json:"meta"`
		Historico map[string]struct {
			Situacao string `json:"situacao"`
		} `json:"historico"`
	}
	getJSON(t, ts.URL+"/api/metas/2?ano=2023", &body)
	if body.Meta.ID != 2 || body.Meta.Situacao != "Não Alcançada" {
		t.Fatalf("meta 2: %+v", body.Meta)
	}
	if body.Historico["2025"].Situacao != "Em Andamento" {
		t.Fatalf("historico: %+v", body.Historico)
	}

	resp, err := http.Get(ts.URL + "/api/metas/999")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing meta status = %d, want 404", resp.StatusCode)
	}
}

func TestSummaryCountsSum(t *testing.T) {
	ts := testServer(t)
	var sum struct {
		Total       int `json:"total"`
		Alcancadas  int `json:"alcancadas"`
		NaoAlc      int `json:"nao_alcancadas"`
		Outras      int `json:"outras"`
		PorSituacao []struct {
			Total int `json:"total"`
		} `json:"por_situacao"`
	}
	for _, q := range []string{"", "&quadrimestre=1", "&quadrimestre=2", "&quadrimestre=3"} {
		getJSON(t, ts.URL+"/api/resumo?ano=2023"+q, &sum)
		if sum.Alcancadas+sum.NaoAlc+sum.Outras != sum.Total {
			t.Fatalf("selection %q: simplified counts do not sum to total: %+v", q, sum)
		}
		bucketTotal := 0
		for _, b := range sum.PorSituacao {
			bucketTotal += b.Total
		}
		if bucketTotal != sum.Total {
			t.Fatalf("selection %q: buckets do not sum to total", q)
		}
	}
}

func TestAnalyze(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/api/analise", "application/json",
		strings.NewReader(`{"ano":"2023","quadrimestre":"2"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}

	var body struct {
		Gerador  string `json:"gerador"`
		Markdown string `json:"markdown"`
		HTML     string `json:"html"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Gerador != "mock" {
		t.Fatalf("gerador = %q, want mock", body.Gerador)
	}
	if !strings.Contains(body.Markdown, "Plano de ação") {
		t.Fatalf("markdown missing action plan:\n%s", body.Markdown)
	}
	if !strings.Contains(body.HTML, "<h2") {
		t.Fatalf("html not rendered:\n%s", body.HTML)
	}
}

func TestIndexPage(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("index status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("index content type = %q", ct)
	}
}
