package analytics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordtrack/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Word", "Accuracy", "Attempts"}
	rows := [][]string{
		{"a", "97%", "12"},
		{"teddy", "8%", "3"},
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true, 2: true})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Word  Accuracy Attempts" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a          97%       12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "teddy       8%        3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestRenderReport(t *testing.T) {
	w := model.Word{ID: uuid.New(), Text: "Teddy", Status: model.StatusStruggling, RollingAccuracy: floatPtr(40), PracticeCount: 4, LastPracticedAt: timePtr(testNow)}
	sessions := []model.PracticeSession{
		session(w.ID, testNow.Add(-time.Hour), 40, 300),
		session(w.ID, testNow.AddDate(0, 0, -10), 30, 300),
	}
	m := Compute(Input{Words: []model.Word{w}, Sessions: sessions, Now: testNow, Location: time.UTC}, RangeWeek)

	var buf bytes.Buffer
	if err := RenderReport(&buf, m, RenderOptions{Width: 40}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Performance Overview (last 7 days)",
		"Average accuracy: 40%",
		"Practice Heatmap",
		"Accuracy Over Time",
		"Words Needing Attention",
		"Teddy",
		"Needs extra practice on pronunciation",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes for a buffer")
	}
}

func TestRenderEmptyReport(t *testing.T) {
	m := Compute(Input{Now: testNow}, RangeAll)
	var buf bytes.Buffer
	if err := RenderReport(&buf, m, RenderOptions{Width: 80}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No practice recorded.") || !strings.Contains(out, "No words currently need extra attention.") {
		t.Fatalf("unexpected empty report:\n%s", out)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}, 0, 100); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil, 0, 100); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{45: "45s", 600: "10m", 3900: "1h 05m"}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}
