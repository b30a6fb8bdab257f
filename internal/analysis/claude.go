package analysis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultModel = "claude-sonnet-4-5-20250929"

// ClaudeGenerator produces analyses through the Anthropic API.
type ClaudeGenerator struct {
	client *anthropic.Client
	model  string
}

// NewClaudeGenerator builds a generator from the ANTHROPIC_API_KEY
// environment variable. The model may be overridden; empty selects the
// default.
func NewClaudeGenerator(model string) (*ClaudeGenerator, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	if model == "" {
		model = defaultModel
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeGenerator{client: &client, model: model}, nil
}

func (g *ClaudeGenerator) Name() string {
	return "claude"
}

// Generate sends one request and returns the markdown analysis. There
// is no retry here: a failed call surfaces to the caller, which renders
// it as an unavailable analysis rather than crashing the dashboard.
func (g *ClaudeGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	prompt := BuildPrompt(req)

	response, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("analysis response contained no text")
	}

	return &Result{
		Markdown:    text,
		Generator:   g.Name(),
		Model:       g.model,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
