// Package statsui provides the Bubble Tea progress dashboard.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/wordtrack/internal/analytics"
	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"
)

const (
	tabOverview = iota
	tabWords
	tabAttention
	tabActivity
	tabAchievements
)

const timelineLimit = 30

var ranges = []analytics.Range{analytics.RangeWeek, analytics.RangeMonth, analytics.RangeQuart, analytics.RangeAll}

// Dashboard palette.
const (
	colorText   = lipgloss.Color("#ECEFF4")
	colorMuted  = lipgloss.Color("#7B8394")
	colorDim    = lipgloss.Color("#A3ACBC")
	colorAccent = lipgloss.Color("#5FB3B3")
	colorBorder = lipgloss.Color("#3B4252")
	colorGood   = lipgloss.Color("#8FBF6A")
)

var (
	tabStyle         = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true)
	activeNavStyle   = tabStyle.Foreground(colorText).Bold(true).BorderForeground(colorAccent)
	inactiveNavStyle = tabStyle.Foreground(colorDim).BorderForeground(colorBorder)
	headerStyle      = lipgloss.NewStyle().Foreground(colorMuted)
	cardStyle        = tabStyle.BorderForeground(colorBorder)
	cardTitleStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	cardValueStyle   = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	tableMutedStyle  = lipgloss.NewStyle().Foreground(colorDim)
	unlockedStyle    = lipgloss.NewStyle().Foreground(colorGood).Bold(true)
)

// Source is what the dashboard reads from a learner's tracker.
type Source interface {
	Metrics(r analytics.Range) analytics.Metrics
	Words() []model.Word
	Timeline(limit int) []analytics.Activity
	Achievements() []progress.Achievement
	Streak() int
	LongestStreak() int
	TotalPracticeSeconds() int
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	source  Source
	learner string

	rangeIdx int
	metrics  analytics.Metrics
	words    []model.Word

	tabs      []string
	activeTab int
	viewports []viewport.Model
	wordTable table.Model

	width  int
	height int
}

// NewModel constructs a dashboard for learner starting at range r.
func NewModel(source Source, learner string, r analytics.Range) *Model {
	m := &Model{
		source:  source,
		learner: learner,
		tabs:    []string{"Overview", "Words", "Attention", "Activity", "Achievements"},
	}
	for i, candidate := range ranges {
		if candidate == r {
			m.rangeIdx = i
		}
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.wordTable = buildWordTable(nil, 0, 1)
	m.refresh()
	return m
}

// Range returns the range currently shown.
func (m *Model) Range() analytics.Range {
	return ranges[m.rangeIdx]
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.rangeIdx = (m.rangeIdx + 1) % len(ranges)
			m.refresh()
			return m, nil
		case "1", "2", "3", "4":
			m.rangeIdx = int(msg.String()[0] - '1')
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabWords {
				m.wordTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabWords {
				m.wordTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabWords {
				m.wordTable, cmd = m.wordTable.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(headerStyle.Render(m.helpLine()), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	m.metrics = m.source.Metrics(m.Range())
	m.words = m.source.Words()
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.wordTable.SetWidth(m.width)
	m.wordTable.SetHeight(max(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabWords {
		m.wordTable.Focus()
	} else {
		m.wordTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := fitLines(m.renderTabs(), m.width, 0)
	summary := fmt.Sprintf("Learner: %s  Range: %s  Streak: %d days (best %d)",
		m.learner, m.Range(), m.source.Streak(), m.source.LongestStreak())
	return tabs + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) helpLine() string {
	return "Nav: left/right  Scroll: up/down/pgup/pgdn  Range: r or 1-4  Quit: q"
}

func (m *Model) renderBody() string {
	if m.activeTab == tabWords {
		if len(m.words) == 0 {
			return "No words yet."
		}
		return tableMutedStyle.Render(m.wordTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.metrics, m.source.TotalPracticeSeconds(), width))
	m.viewports[tabAttention].SetContent(renderText(func(w *bytes.Buffer) error {
		return analytics.RenderAttention(w, m.metrics.Attention)
	}))
	m.viewports[tabActivity].SetContent(renderActivity(m.source.Timeline(timelineLimit)))
	m.viewports[tabAchievements].SetContent(renderAchievements(m.source.Achievements()))

	_, bodyHeight, _ := m.layoutHeights()
	m.wordTable.SetRows(wordRows(m.words))
	m.wordTable.SetWidth(width)
	m.wordTable.SetHeight(max(1, bodyHeight-1))
}

func renderOverview(metrics analytics.Metrics, totalSeconds, width int) string {
	ov := metrics.Overview
	trend := "n/a"
	if metrics.Range.Bounded() {
		trend = fmt.Sprintf("%+.0f%%", ov.Trend)
	}
	cards := []string{
		metricCard("Avg Accuracy", fmt.Sprintf("%.0f%%", ov.AverageAccuracy)),
		metricCard("Trend", trend),
		metricCard("Sessions", fmt.Sprintf("%d", ov.SessionCount)),
		metricCard("Mastered", fmt.Sprintf("%d / %d", ov.MasteredCount, ov.AttemptedCount)),
		metricCard("Velocity", fmt.Sprintf("%.1f/wk", ov.LearningVelocity)),
		metricCard("Total Time", analytics.FormatDuration(totalSeconds)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	charts := renderText(func(w *bytes.Buffer) error {
		if err := analytics.RenderHeatmap(w, metrics.Heatmap, true); err != nil {
			return err
		}
		return analytics.RenderGrowth(w, metrics.Growth, width)
	})
	return strings.TrimRight(summary+"\n\n"+charts, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderText(fn func(w *bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return fmt.Sprintf("Failed to render: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderActivity(items []analytics.Activity) string {
	if len(items) == 0 {
		return "No recent activity."
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		when := it.At.Format("Jan 2 15:04")
		switch it.Kind {
		case analytics.ActivityMastery:
			lines = append(lines, fmt.Sprintf("%s  Mastered %q", when, it.WordText))
		case analytics.ActivitySummary:
			lines = append(lines, fmt.Sprintf("%s  Practiced %d words for %d minutes", when, it.Sessions, it.Minutes))
		default:
			lines = append(lines, fmt.Sprintf("%s  Practiced %q (%d%%)", when, it.WordText, it.Accuracy))
		}
	}
	return strings.Join(lines, "\n")
}

func renderAchievements(list []progress.Achievement) string {
	lines := make([]string, 0, len(list))
	for _, a := range list {
		mark := "[ ]"
		if a.Unlocked {
			mark = unlockedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %-18s %-30s %d/%d", mark, a.Name, a.Description, a.Progress, a.Target)
		if a.Prerequisite != "" && !a.Unlocked {
			line += headerStyle.Render("  needs " + a.Prerequisite)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func buildWordTable(words []model.Word, width, height int) table.Model {
	columns := []table.Column{
		{Title: "Word", Width: 16},
		{Title: "Hint", Width: 16},
		{Title: "Status", Width: 12},
		{Title: "Accuracy", Width: 9},
		{Title: "Practiced", Width: 9},
		{Title: "Complete", Width: 8},
		{Title: "Last", Width: 12},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(wordRows(words)),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(wordTableStyles())
	return t
}

func wordRows(words []model.Word) []table.Row {
	rows := make([]table.Row, 0, len(words))
	for _, w := range words {
		acc := "-"
		if w.RollingAccuracy != nil {
			acc = fmt.Sprintf("%.0f%%", *w.RollingAccuracy)
		}
		complete := ""
		if w.IsComplete {
			complete = "yes"
		}
		last := "never"
		if w.LastPracticedAt != nil {
			last = w.LastPracticedAt.Format("Jan 2 15:04")
		}
		rows = append(rows, table.Row{
			w.Text,
			w.PronunciationHint,
			w.Status.String(),
			acc,
			fmt.Sprintf("%d", w.PracticeCount),
			complete,
			last,
		})
	}
	return rows
}

func wordTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorBorder).
		Foreground(colorDim).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(colorAccent).
		Bold(true)
	return styles
}
