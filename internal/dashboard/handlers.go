package dashboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"painelmetas/internal/analysis"
	"painelmetas/internal/audit"
	"painelmetas/internal/goalstore"
	"painelmetas/internal/status"
)

// Handlers provides the HTTP handlers for the dashboard API.
type Handlers struct {
	store       *goalstore.Store
	generator   analysis.Generator
	auditLogger *audit.Logger
}

// NewHandlers creates a Handlers instance over the immutable registry.
// The registry never changes after normalization, so handlers share it
// without locking.
func NewHandlers(store *goalstore.Store, generator analysis.Generator, auditLogger *audit.Logger) *Handlers {
	return &Handlers{
		store:       store,
		generator:   generator,
		auditLogger: auditLogger,
	}
}

// selection is one filter state: year, sub-period and optional
// directive/objective/status narrowing.
type selection struct {
	Year      string `json:"ano"`
	Period    string `json:"quadrimestre"`
	Directive string `json:"diretriz"`
	Objective string `json:"objetivo"`
	Status    string `json:"situacao"`
}

func (h *Handlers) selectionFromQuery(r *http.Request) selection {
	q := r.URL.Query()
	sel := selection{
		Year:      q.Get("ano"),
		Period:    q.Get("quadrimestre"),
		Directive: q.Get("diretriz"),
		Objective: q.Get("objetivo"),
		Status:    q.Get("situacao"),
	}
	if sel.Year == "" {
		years := h.store.Years()
		if len(years) > 0 {
			sel.Year = years[len(years)-1]
		}
	}
	return sel
}

// filterGoals applies a selection to the registry, preserving registry
// order.
func (h *Handlers) filterGoals(sel selection) []*goalstore.Goal {
	var out []*goalstore.Goal
	for _, g := range h.store.Goals() {
		if sel.Directive != "" && g.Directive != sel.Directive {
			continue
		}
		if sel.Objective != "" && g.Objective != sel.Objective {
			continue
		}
		if sel.Status != "" {
			st := status.Classify(g.Polarity, g.ResultFor(sel.Year, sel.Period), g.ExpectedFor(sel.Year))
			if st.Label() != sel.Status {
				continue
			}
		}
		out = append(out, g)
	}
	return out
}

// Health reports liveness and registry size.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"metas":  h.store.Len(),
	})
}

// Catalog returns the filter vocabulary: years, directives and
// objectives per directive.
func (h *Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	objectives := make(map[string][]string)
	for _, d := range h.store.Directives() {
		objectives[d] = h.store.Objectives(d)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"anos":          h.store.Years(),
		"quadrimestres": []string{"1", "2", "3"},
		"diretrizes":    h.store.Directives(),
		"objetivos":     objectives,
	})
}

// ListGoals returns the evaluated goal cards for the current selection.
func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	sel := h.selectionFromQuery(r)
	goals := h.filterGoals(sel)

	items := make([]status.GoalStatus, 0, len(goals))
	for _, g := range goals {
		items = append(items, status.Evaluate(g, sel.Year, sel.Period))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ano":          sel.Year,
		"quadrimestre": sel.Period,
		"total":        len(items),
		"metas":        items,
	})
}

// GetGoal returns one goal with its evaluation for every known year.
func (h *Handlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid meta id"))
		return
	}
	g, ok := h.store.Lookup(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("meta %d not found", id))
		return
	}

	sel := h.selectionFromQuery(r)
	perYear := make(map[string]status.GoalStatus, len(h.store.Years()))
	for _, year := range h.store.Years() {
		perYear[year] = status.Evaluate(g, year, sel.Period)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"meta":      status.Evaluate(g, sel.Year, sel.Period),
		"historico": perYear,
	})
}

// Summary returns the chart buckets for the current selection.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	sel := h.selectionFromQuery(r)
	sum := status.Summarize(h.filterGoals(sel), sel.Year, sel.Period)
	writeJSON(w, http.StatusOK, sum)
}

// Analyze generates the qualitative analysis and action plan for the
// current selection. The body carries the same selection fields as the
// list query parameters.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var sel selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse selection: %w", err))
		return
	}
	if sel.Year == "" {
		years := h.store.Years()
		if len(years) > 0 {
			sel.Year = years[len(years)-1]
		}
	}

	goals := h.filterGoals(sel)
	req := analysis.Request{
		Year:    sel.Year,
		Period:  sel.Period,
		Summary: status.Summarize(goals, sel.Year, sel.Period),
	}
	for _, g := range goals {
		req.Goals = append(req.Goals, status.Evaluate(g, sel.Year, sel.Period))
	}

	result, err := h.generator.Generate(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("generate analysis: %w", err))
		return
	}
	html, err := analysis.RenderHTML(result.Markdown)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if h.auditLogger != nil {
		_ = h.auditLogger.LogEvent("painelmetas", audit.EventAnalysisGenerated, map[string]any{
			"ano":          sel.Year,
			"quadrimestre": sel.Period,
			"diretriz":     sel.Directive,
			"gerador":      result.Generator,
			"metas":        len(goals),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ano":          sel.Year,
		"quadrimestre": sel.Period,
		"gerador":      result.Generator,
		"modelo":       result.Model,
		"gerado_em":    result.GeneratedAt.Format(time.RFC3339),
		"markdown":     result.Markdown,
		"html":         html,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"erro": err.Error()})
}
