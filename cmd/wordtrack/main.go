// Package main provides the CLI entrypoint for wordtrack.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordtrack/internal/analytics"
	"github.com/verte-zerg/wordtrack/internal/config"
	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/statsui"
	"github.com/verte-zerg/wordtrack/internal/store"
	"github.com/verte-zerg/wordtrack/internal/tracker"
	"github.com/verte-zerg/wordtrack/internal/tui"
)

const (
	defaultLearner  = "default"
	defaultRange    = "30"
	defaultLogLevel = "warn"
	defaultTimezone = "Local"
	defaultTimeline = 20
)

var (
	learnerID  string
	dbPath     string
	configPath string
	timezone   string
	logLevel   string

	statsRange string
	statsColor bool

	recordAccuracy int
	recordSeconds  int

	activityLimit int
	resetYes      bool
	completeUndo  bool
	removeYes     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wordtrack",
		Short:         "Vocabulary practice tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&learnerID, "learner", defaultLearner, "learner id")
	flags.StringVar(&dbPath, "db", config.DefaultDBPath(), "SQLite database path")
	flags.StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	flags.StringVar(&timezone, "timezone", defaultTimezone, "timezone for calendar days (IANA name or Local)")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newPracticeCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newWordsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newStreakCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newActivityCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newLearnersCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// session bundles what a command needs to work on one learner.
type session struct {
	cfg     model.Config
	logger  *log.Logger
	store   *store.Store
	tracker *tracker.Tracker
}

func (s *session) Close() {
	closeStore(s.store)
}

// resolveConfig merges the config file into flags that were not set on the
// command line.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "learner", &learnerID, fileCfg.Learner.ID)
	applyStringConfig(cmd, "timezone", &timezone, fileCfg.Learner.Timezone)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)

	loc, err := config.LoadLocation(timezone)
	if err != nil {
		return model.Config{}, err
	}
	r := analytics.RangeMonth
	// Only report commands take a range.
	if cmd.Flags().Lookup("range") != nil {
		applyStringConfig(cmd, "range", &statsRange, fileCfg.Stats.Range)
		if r, err = analytics.ParseRange(statsRange); err != nil {
			return model.Config{}, fmt.Errorf("invalid --range value: %w", err)
		}
	}
	cfg := model.Config{
		Learner:      strings.TrimSpace(learnerID),
		Location:     loc,
		StatsRange:   int(r),
		StarterWords: tracker.DefaultStarterWords,
		LogLevel:     logLevel,
	}
	if fileCfg.Practice.StarterWords != nil {
		cfg.StarterWords = fileCfg.Practice.StarterWords
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// openStore resolves config and opens the database without loading a
// learner.
func openStore(cmd *cobra.Command) (*store.Store, model.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, model.Config{}, err
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, model.Config{}, fmt.Errorf("failed to open db: %w", err)
	}
	return st, cfg, nil
}

func openSession(cmd *cobra.Command) (*session, error) {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(os.Stderr, cfg.LogLevel)
	if err == nil {
		var tr *tracker.Tracker
		tr, err = tracker.Open(withContext(cmd), st, cfg.Learner,
			tracker.WithLocation(cfg.Location),
			tracker.WithLogger(logger),
			tracker.WithStarterWords(cfg.StarterWords),
		)
		if err == nil {
			logger.Debug("opened learner", "learner", cfg.Learner, "db", dbPath, "words", len(tr.Words()))
			return &session{cfg: cfg, logger: logger, store: st, tracker: tr}, nil
		}
	}
	if cerr := st.Close(); cerr != nil {
		// Best-effort close on load failure.
		_ = cerr
	}
	return nil, err
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "wordtrack",
		ReportTimestamp: lvl <= log.DebugLevel,
		TimeFormat:      time.Kitchen,
	}), nil
}

func newPracticeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "practice",
		Short: "Practice words in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runPracticeCmd,
	}
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m := tui.NewModel(s.tracker, tui.WithLogger(s.logger))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <word>",
		Short: "Record one practice attempt",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordCmd,
	}
	cmd.Flags().IntVar(&recordAccuracy, "accuracy", 0, "measured accuracy (0-100); random placeholder when unset")
	cmd.Flags().IntVar(&recordSeconds, "seconds", 0, "measured time spent in seconds; random placeholder when unset")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the progress dashboard",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	cmd.Flags().StringVar(&statsRange, "range", defaultRange, "initial range: 7, 30, 90 or all")
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	m := statsui.NewModel(s.tracker, s.cfg.Learner, analytics.Range(s.cfg.StatsRange))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the progress report",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsRange, "range", defaultRange, "range: 7, 30, 90 or all")
	cmd.Flags().BoolVar(&statsColor, "color", false, "force colored heatmap")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	metrics := s.tracker.Metrics(analytics.Range(s.cfg.StatsRange))
	if _, err := fmt.Fprintf(out, "Learner %s: streak %d days, total practice %s\n\n",
		s.cfg.Learner, s.tracker.Streak(), analytics.FormatDuration(s.tracker.TotalPracticeSeconds())); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return analytics.RenderReport(out, metrics, analytics.RenderOptions{ForceColor: statsColor})
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# wordtrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[learner]
# id = %q                # Whose progress is tracked
# timezone = %q            # IANA zone used to decide calendar days

[stats]
# range = %q                 # Default report range: 7, 30, 90 or all

[practice]
# starter-words = [%s]

[log]
# level = %q               # debug, info, warn or error
`,
		defaultLearner,
		defaultTimezone,
		defaultRange,
		quoteList(tracker.DefaultStarterWords),
		defaultLogLevel,
	)
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}

func validateConfig(cfg model.Config) error {
	if cfg.Learner == "" {
		return fmt.Errorf("--learner must not be empty")
	}
	if cfg.Location == nil {
		return fmt.Errorf("--timezone is invalid")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
