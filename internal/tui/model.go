// Package tui provides the Bubble Tea practice screen.
package tui

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"
)

// Recorder is the part of the tracker the practice screen needs.
type Recorder interface {
	Words() []model.Word
	RecordPractice(ctx context.Context, wordIndex int, opts ...progress.AttemptOption) (model.PracticeSession, error)
	Streak() int
}

// Model implements the Bubble Tea practice UI. The learner types the shown
// word; accuracy and time spent come from the attempt itself.
type Model struct {
	recorder Recorder
	logger   *log.Logger
	now      func() time.Time

	width  int
	height int

	words     []model.Word
	wordIndex int

	targetRunes []rune
	inputRunes  []rune
	started     bool
	startedAt   time.Time

	last      *model.PracticeSession
	lastText  string
	lastError string
	attempts  int
	streak    int
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ECEFF4"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B8394"))
	cursorStyle    = pendingStyle.Underline(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FB3B3")).Italic(true)
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for measuring time spent.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithLogger sets where record failures are reported.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// NewModel constructs a practice TUI model.
func NewModel(recorder Recorder, opts ...Option) *Model {
	m := &Model{
		recorder:  recorder,
		logger:    log.Default(),
		now:       time.Now,
		wordIndex: -1,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.streak = recorder.Streak()
	m.nextWord()
	return m
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
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
		case tea.KeyEnter:
			m.submit()
		case tea.KeyTab:
			m.nextWord()
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if len(m.targetRunes) == 0 {
		return "No words to practice. Add some with: wordtrack words add <word>\n"
	}
	cursorIndex := -1
	if len(m.inputRunes) < len(m.targetRunes) {
		cursorIndex = len(m.inputRunes)
	}
	word := buildStyledRunes(m.targetRunes, m.inputRunes, cursorIndex)
	hint := plainRunes(m.words[m.wordIndex].PronunciationHint, hintStyle.Render)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(word) + "\n" + renderStyledRunes(hint)
	}

	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	content := lipgloss.JoinVertical(lipgloss.Center,
		wrapStyledRunes(word, contentWidth),
		"",
		wrapStyledRunes(hint, contentWidth),
	)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) handleBackspace() {
	if len(m.inputRunes) == 0 {
		return
	}
	m.inputRunes = m.inputRunes[:len(m.inputRunes)-1]
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if len(m.targetRunes) == 0 || len(m.inputRunes) >= len(m.targetRunes) {
			return
		}
		if !m.started {
			m.started = true
			m.startedAt = m.now()
		}
		m.inputRunes = append(m.inputRunes, r)
		if len(m.inputRunes) == len(m.targetRunes) {
			m.submit()
		}
	}
}

// submit records the attempt. Untyped characters count as misses.
func (m *Model) submit() {
	if !m.started || len(m.targetRunes) == 0 {
		return
	}
	accuracy := scoreAttempt(m.targetRunes, m.inputRunes)
	seconds := int(math.Round(m.now().Sub(m.startedAt).Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	rec, err := m.recorder.RecordPractice(context.Background(), m.wordIndex,
		progress.WithAccuracy(accuracy), progress.WithTimeSpent(seconds))
	if err != nil {
		m.logger.Error("failed to record practice", "word", string(m.targetRunes), "err", err)
		m.lastError = err.Error()
	} else {
		m.last = &rec
		m.lastText = string(m.targetRunes)
		m.lastError = ""
		m.attempts++
		m.streak = m.recorder.Streak()
	}
	m.nextWord()
}

// scoreAttempt returns the percentage of target positions typed correctly.
func scoreAttempt(target, input []rune) int {
	if len(target) == 0 {
		return 0
	}
	correct := 0
	for i, r := range target {
		if i < len(input) && runesMatch(r, input[i]) {
			correct++
		}
	}
	return correct * 100 / len(target)
}

// nextWord refreshes the word list and moves to the word that most needs
// practice, avoiding an immediate repeat when there is a choice.
func (m *Model) nextWord() {
	m.words = m.recorder.Words()
	m.inputRunes = nil
	m.started = false
	m.startedAt = time.Time{}
	m.targetRunes = nil
	if len(m.words) == 0 {
		m.wordIndex = -1
		return
	}
	m.wordIndex = pickWord(m.words, m.wordIndex)
	m.targetRunes = []rune(m.words[m.wordIndex].Text)
}

func practicePriority(s model.Status) int {
	switch s {
	case model.StatusStruggling:
		return 0
	case model.StatusInProgress:
		return 1
	case model.StatusNotStarted:
		return 2
	default:
		return 3
	}
}

func pickWord(words []model.Word, previous int) int {
	order := make([]int, len(words))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		wa, wb := words[order[a]], words[order[b]]
		if pa, pb := practicePriority(wa.Status), practicePriority(wb.Status); pa != pb {
			return pa < pb
		}
		return wa.PracticeCount < wb.PracticeCount
	})
	for _, idx := range order {
		if idx != previous || len(words) == 1 {
			return idx
		}
	}
	return order[0]
}

func (m *Model) renderFooter() string {
	if len(m.targetRunes) == 0 {
		return ""
	}
	w := m.words[m.wordIndex]
	segments := []string{fmt.Sprintf("%s (%s)", w.Text, w.Status)}
	if m.last != nil {
		segments = append(segments, fmt.Sprintf("Last %s %d%% in %ds", m.lastText, m.last.Accuracy, m.last.TimeSpentSeconds))
	}
	segments = append(segments, fmt.Sprintf("Attempts %d", m.attempts))
	segments = append(segments, fmt.Sprintf("Streak %d days", m.streak))
	if m.lastError != "" {
		segments = append(segments, "Not saved: "+m.lastError)
	}
	return footerStyle.Render(strings.Join(segments, " · "))
}
