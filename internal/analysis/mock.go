package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockGenerator is a deterministic, offline generator used for
// end-to-end testing of the dashboard and for running without an API
// key.
type MockGenerator struct{}

func (m *MockGenerator) Name() string {
	return "mock"
}

func (m *MockGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Análise situacional — %s", req.Year)
	if req.Period != "" {
		fmt.Fprintf(&b, " (%sº quadrimestre)", req.Period)
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "De %d metas avaliadas, %d foram alcançadas, %d não foram alcançadas e %d permanecem sem classificação conclusiva.\n\n",
		req.Summary.Total, req.Summary.Achieved, req.Summary.NotAchieved, req.Summary.Other)

	b.WriteString("## Plano de ação\n\n")
	listed := 0
	for _, g := range req.Goals {
		if g.Simplified != "Não Alcançada" {
			continue
		}
		fmt.Fprintf(&b, "- Meta %d (%s): revisar estratégia — esperado %s, resultado %s.\n",
			g.ID, g.Title, g.Expected, g.Result)
		listed++
	}
	if listed == 0 {
		b.WriteString("Nenhuma meta pendente de ação corretiva no período.\n")
	}

	return &Result{
		Markdown:    b.String(),
		Generator:   m.Name(),
		Model:       "mock",
		GeneratedAt: time.Now().UTC(),
	}, nil
}
