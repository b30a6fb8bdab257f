package analysis

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer is configured for safe output: raw HTML in the generated
// markdown is escaped, never passed through.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkhtml.WithHardWraps(),
	),
)

// RenderHTML converts generated markdown to an HTML fragment for the
// analysis panel.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render analysis markdown: %w", err)
	}
	return buf.String(), nil
}
