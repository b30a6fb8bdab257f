package audit

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLogAndReadEvents(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "audit", "events.db")
	logger := NewLogger(dbPath)

	if err := logger.LogEvent("painelmetas", EventAnalysisGenerated, map[string]any{
		"ano":          "2023",
		"quadrimestre": "2",
	}); err != nil {
		t.Fatalf("log event: %v", err)
	}
	if err := logger.LogEvent("painelmetas", EventSummaryExported, map[string]any{"ano": "2024"}); err != nil {
		t.Fatalf("log event: %v", err)
	}

	events, err := logger.RecentEvents(10)
	if err != nil {
		t.Fatalf("read events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventSummaryExported {
		t.Fatalf("expected newest first, got %s", events[0].Type)
	}
	if !strings.Contains(events[1].PayloadJSON, "quadrimestre") {
		t.Fatalf("payload not preserved: %s", events[1].PayloadJSON)
	}
}
