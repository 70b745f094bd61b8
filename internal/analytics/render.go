package analytics

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	sparkChars          = " .:-=+*#%@"
	heatChars           = "·░▒▓█"
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	minSparkWidth       = 10
)

// Greens from empty to busiest, one per tier.
var heatColors = [MaxTier + 1]string{
	"\x1b[90m",
	"\x1b[38;5;22m",
	"\x1b[38;5;28m",
	"\x1b[38;5;34m",
	"\x1b[38;5;46m",
}

// RenderOptions controls report layout.
type RenderOptions struct {
	Width      int
	ForceColor bool
}

// RenderReport prints every section of m.
func RenderReport(w io.Writer, m Metrics, opts RenderOptions) error {
	useColor := shouldUseColor(w, opts.ForceColor)
	width := opts.Width
	if width <= 0 {
		width = terminalWidth()
	}
	if err := RenderOverview(w, m); err != nil {
		return err
	}
	if err := RenderHeatmap(w, m.Heatmap, useColor); err != nil {
		return err
	}
	if err := RenderGrowth(w, m.Growth, width); err != nil {
		return err
	}
	return RenderAttention(w, m.Attention)
}

// RenderOverview prints the headline numbers.
func RenderOverview(w io.Writer, m Metrics) error {
	ov := m.Overview
	lines := []string{
		fmt.Sprintf("Performance Overview (%s)", m.Range),
		fmt.Sprintf("Average accuracy: %.0f%%%s", ov.AverageAccuracy, trendSuffix(m.Range, ov.Trend)),
		fmt.Sprintf("Sessions: %d", ov.SessionCount),
		fmt.Sprintf("Practice time: %s", FormatDuration(ov.PracticeSeconds)),
		fmt.Sprintf("Words attempted: %d", ov.AttemptedCount),
		fmt.Sprintf("Words mastered: %d", ov.MasteredCount),
	}
	if m.Range.Bounded() {
		lines = append(lines, fmt.Sprintf("Learning velocity: %.1f words/week", ov.LearningVelocity))
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

func trendSuffix(r Range, trend float64) string {
	rounded := math.Round(trend)
	if !r.Bounded() || rounded == 0 {
		return ""
	}
	arrow := "↑"
	if rounded < 0 {
		arrow = "↓"
	}
	return fmt.Sprintf(" (%s %.0f%% from previous period)", arrow, math.Abs(rounded))
}

// RenderHeatmap prints one line per week, oldest first.
func RenderHeatmap(w io.Writer, hm Heatmap, useColor bool) error {
	if _, err := fmt.Fprintln(w, "Practice Heatmap"); err != nil {
		return err
	}
	if len(hm.Days) == 0 {
		return writeLines(w, []string{"No practice recorded.", ""})
	}
	for _, week := range hm.Weeks {
		var row strings.Builder
		row.WriteString(week[0].Day.String())
		row.WriteString("  ")
		for _, d := range week {
			cell := string([]rune(heatChars)[d.Tier])
			if useColor {
				row.WriteString(heatColors[d.Tier])
				row.WriteString(cell)
				row.WriteString(colorReset)
			} else {
				row.WriteString(cell)
			}
			row.WriteByte(' ')
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}
	legend := fmt.Sprintf("Less %s More   busiest day: %d min", heatChars, hm.MaxMinutes)
	return writeLines(w, []string{legend, ""})
}

// RenderGrowth prints the daily accuracy series as a sparkline on a fixed
// 0-100 scale.
func RenderGrowth(w io.Writer, points []GrowthPoint, width int) error {
	if _, err := fmt.Fprintln(w, "Accuracy Over Time"); err != nil {
		return err
	}
	if len(points) == 0 {
		return writeLines(w, []string{"Start practicing to see accuracy trends.", ""})
	}
	sparkWidth := width - 2
	if sparkWidth < minSparkWidth {
		sparkWidth = minSparkWidth
	}
	values := GrowthValues(points)
	if len(values) > sparkWidth {
		values = resample(values, sparkWidth)
	}
	first, last := points[0], points[len(points)-1]
	lines := []string{
		"[" + Sparkline(values, 0, 100) + "]",
		fmt.Sprintf("%s %.0f%% -> %s %.0f%% (%d days)", first.Day, first.Accuracy, last.Day, last.Accuracy, len(points)),
		"",
	}
	return writeLines(w, lines)
}

// RenderAttention prints the attention table.
func RenderAttention(w io.Writer, att Attention) error {
	if _, err := fmt.Fprintln(w, "Words Needing Attention"); err != nil {
		return err
	}
	if len(att.Items) == 0 {
		_, err := fmt.Fprintln(w, "No words currently need extra attention.")
		return err
	}
	headers := []string{"Word", "Accuracy", "Attempts", "Last Practiced", "Insight"}
	rows := make([][]string, 0, len(att.Items))
	for _, it := range att.Items {
		last := "never"
		if it.Word.LastPracticedAt != nil {
			last = it.Word.LastPracticedAt.Format("Jan 2, 2006")
		}
		rows = append(rows, []string{
			it.Word.Text,
			fmt.Sprintf("%.0f%%", it.Accuracy),
			fmt.Sprintf("%d", it.Word.PracticeCount),
			last,
			it.Insight.String(),
		})
	}
	lines := FormatTable(headers, rows, map[int]bool{1: true, 2: true})
	if att.HasMore {
		lines = append(lines, fmt.Sprintf("... and %d more", att.Total-len(att.Items)))
	}
	return writeLines(w, lines)
}

// Sparkline renders values scaled between lo and hi.
func Sparkline(values []float64, lo, hi float64) string {
	if len(values) == 0 {
		return ""
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - lo) / (hi - lo)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatDuration renders seconds as "1h 05m", "12m" or "45s".
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}

// resample averages values down to width buckets.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
