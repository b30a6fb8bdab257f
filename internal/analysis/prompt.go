package analysis

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the instruction sent to the generator. The
// prompt is written in Portuguese because the dataset and the target
// audience (municipal health management reports) are.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("Você é um analista de gestão em saúde pública municipal.\n")
	b.WriteString("Analise o desempenho das metas do plano municipal de saúde abaixo e escreva, em Markdown:\n")
	b.WriteString("1. Uma análise situacional qualitativa do período.\n")
	b.WriteString("2. Um plano de ação objetivo para as metas não alcançadas ou parcialmente alcançadas.\n\n")

	fmt.Fprintf(&b, "Período analisado: ano %s", req.Year)
	if req.Period != "" {
		fmt.Fprintf(&b, ", %sº quadrimestre (RDQA)", req.Period)
	}
	b.WriteString("\n\n")

	b.WriteString("Resumo do período:\n")
	for _, c := range req.Summary.Counts {
		if c.Count == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %d\n", c.Status, c.Count)
	}
	fmt.Fprintf(&b, "- Total de metas: %d\n\n", req.Summary.Total)

	b.WriteString("Metas:\n")
	for _, g := range req.Goals {
		fmt.Fprintf(&b, "- Meta %d (%s / %s): %s — esperado %s, resultado %s, situação %s\n",
			g.ID, g.Directive, g.Objective, g.Title, g.Expected, g.Result, g.Status)
	}

	b.WriteString("\nSeja direto, evite jargão e não invente dados não listados acima.\n")
	return b.String()
}
