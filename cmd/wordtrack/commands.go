package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/wordtrack/internal/analytics"
	"github.com/verte-zerg/wordtrack/internal/config"
	"github.com/verte-zerg/wordtrack/internal/model"
	"github.com/verte-zerg/wordtrack/internal/progress"
	"github.com/verte-zerg/wordtrack/internal/store"
	"github.com/verte-zerg/wordtrack/internal/wordlist"
)

func runRecordCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, err := lookupWord(s, args[0])
	if err != nil {
		return err
	}
	var opts []progress.AttemptOption
	if cmd.Flags().Changed("accuracy") {
		opts = append(opts, progress.WithAccuracy(recordAccuracy))
	}
	if cmd.Flags().Changed("seconds") {
		opts = append(opts, progress.WithTimeSpent(recordSeconds))
	}
	rec, err := s.tracker.RecordPractice(withContext(cmd), idx, opts...)
	if err != nil {
		return fmt.Errorf("failed to record practice: %w", err)
	}
	word := s.tracker.Words()[idx]
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s: %d%% in %ds (now %s, streak %d days)\n",
		word.Text, rec.Accuracy, rec.TimeSpentSeconds, word.Status, s.tracker.Streak())
	return err
}

func lookupWord(s *session, text string) (int, error) {
	idx := s.tracker.IndexOf(text)
	if idx < 0 {
		return -1, fmt.Errorf("word %q: %w", text, progress.ErrNotFound)
	}
	return idx, nil
}

func newWordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Manage the word list",
		Args:  cobra.NoArgs,
		RunE:  runWordsListCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List words with their progress",
		Args:  cobra.NoArgs,
		RunE:  runWordsListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <text> [hint]",
		Short: "Add a word",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runWordsAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm <text>",
		Short: "Remove a word; its past sessions are kept",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsRemoveCmd,
	})
	complete := &cobra.Command{
		Use:   "complete <text>",
		Short: "Mark a word complete",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsCompleteCmd,
	}
	complete.Flags().BoolVar(&completeUndo, "undo", false, "clear the complete mark")
	cmd.AddCommand(complete)
	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a file (one per line, optional tab-separated hint)",
		Args:  cobra.ExactArgs(1),
		RunE:  runWordsImportCmd,
	})
	return cmd
}

func runWordsListCmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return writeWordTable(cmd.OutOrStdout(), s.tracker.Words(), s.cfg.Location)
}

func writeWordTable(w io.Writer, words []model.Word, loc *time.Location) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No words yet.")
		return err
	}
	headers := []string{"Word", "Hint", "Status", "Done", "Accuracy", "Practiced", "Last"}
	rows := make([][]string, 0, len(words))
	for _, word := range words {
		acc := "-"
		if word.RollingAccuracy != nil {
			acc = fmt.Sprintf("%.0f%%", *word.RollingAccuracy)
		}
		last := "never"
		if word.LastPracticedAt != nil {
			last = word.LastPracticedAt.In(loc).Format("2006-01-02 15:04")
		}
		done := ""
		if word.IsComplete {
			done = "yes"
		}
		rows = append(rows, []string{
			word.Text, word.PronunciationHint, word.Status.String(), done,
			acc, strconv.Itoa(word.PracticeCount), last,
		})
	}
	return writeTable(w, headers, rows, map[int]bool{4: true, 5: true})
}

func runWordsAddCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	hint := ""
	if len(args) > 1 {
		hint = args[1]
	}
	w, err := s.tracker.AddWord(withContext(cmd), args[0], hint)
	if err != nil {
		return fmt.Errorf("failed to add word: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", w.Text)
	return err
}

func runWordsRemoveCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.tracker.DeleteWord(withContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to remove word: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
	return err
}

func runWordsCompleteCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	idx, err := lookupWord(s, args[0])
	if err != nil {
		return err
	}
	if err := s.tracker.MarkComplete(withContext(cmd), idx, !completeUndo); err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	state := "complete"
	if completeUndo {
		state = "not complete"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", args[0], state)
	return err
}

func runWordsImportCmd(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := wordlist.LoadEntries(resolveWordListPath(args[0]))
	if err != nil {
		return fmt.Errorf("failed to load word list: %w", err)
	}
	pairs := make([][2]string, len(entries))
	for i, e := range entries {
		pairs[i] = [2]string{e.Text, e.Hint}
	}
	added, skipped := s.tracker.AddWords(withContext(cmd), pairs)
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Imported %d words\n", added); err != nil {
		return err
	}
	texts := make([]string, 0, len(skipped))
	for text := range skipped {
		texts = append(texts, text)
	}
	sort.Strings(texts)
	for _, text := range texts {
		if _, err := fmt.Fprintf(out, "  skipped %s: %v\n", text, skipped[text]); err != nil {
			return err
		}
	}
	return nil
}

// resolveWordListPath falls back to <name>.txt in the word list directory
// when path does not exist as given.
func resolveWordListPath(path string) string {
	if _, err := os.Stat(path); err == nil || strings.ContainsRune(path, os.PathSeparator) {
		return path
	}
	name := path
	if filepath.Ext(name) == "" {
		name += ".txt"
	}
	candidate := filepath.Join(config.DefaultWordListDir(), name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}

func newStreakCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the practice streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %d days\nLongest streak: %d days\nDays practiced: %d\n",
				s.tracker.Streak(), s.tracker.LongestStreak(), s.tracker.PracticeDayCount())
			return err
		},
	}
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "Show achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			return writeAchievements(cmd.OutOrStdout(), s.tracker.Achievements())
		},
	}
}

func writeAchievements(w io.Writer, list []progress.Achievement) error {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		mark := ""
		if a.Unlocked {
			mark = "yes"
		}
		rows = append(rows, []string{a.Name, a.Description, fmt.Sprintf("%d/%d", a.Progress, a.Target), mark})
	}
	if err := writeTable(w, []string{"Achievement", "Goal", "Progress", "Unlocked"}, rows, map[int]bool{2: true}); err != nil {
		return err
	}
	if next, ok := progress.NextAchievement(list); ok {
		if _, err := fmt.Fprintf(w, "\nNext up: %s (%s)\n", next.Name, next.Description); err != nil {
			return err
		}
	}
	return nil
}

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			return writeActivity(cmd.OutOrStdout(), s.tracker.Timeline(activityLimit))
		},
	}
	cmd.Flags().IntVar(&activityLimit, "limit", defaultTimeline, "max entries (0 for all)")
	return cmd
}

func writeActivity(w io.Writer, items []analytics.Activity) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No recent activity.")
		return err
	}
	for _, it := range items {
		var line string
		switch it.Kind {
		case analytics.ActivityMastery:
			line = fmt.Sprintf("Mastered %q", it.WordText)
		case analytics.ActivitySummary:
			line = fmt.Sprintf("Practiced %d words for %d minutes", it.Sessions, it.Minutes)
		default:
			line = fmt.Sprintf("Practiced %q (%d%%)", it.WordText, it.Accuracy)
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", it.At.Format("2006-01-02 15:04"), line); err != nil {
			return err
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all practice history for the learner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !resetYes {
				return errors.New("refusing to reset without --yes")
			}
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			s.tracker.ResetAll(withContext(cmd))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Reset progress for %s (%d words kept)\n", s.cfg.Learner, len(s.tracker.Words()))
			return err
		},
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
	return cmd
}

func writeTable(w io.Writer, headers []string, rows [][]string, rightAlign map[int]bool) error {
	for _, line := range analytics.FormatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newLearnersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learners",
		Short: "List learners with saved progress",
		Args:  cobra.NoArgs,
		RunE:  runLearnersListCmd,
	}
	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a learner and all of their progress",
		Args:  cobra.ExactArgs(1),
		RunE:  runLearnersRemoveCmd,
	}
	rm.Flags().BoolVar(&removeYes, "yes", false, "confirm the removal")
	cmd.AddCommand(rm)
	return cmd
}

func runLearnersListCmd(cmd *cobra.Command, _ []string) error {
	st, cfg, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ids, err := st.Learners(withContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list learners: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		_, err := fmt.Fprintln(out, "No learners yet.")
		return err
	}
	for _, id := range ids {
		mark := " "
		if id == cfg.Learner {
			mark = "*"
		}
		if _, err := fmt.Fprintf(out, "%s %s\n", mark, id); err != nil {
			return err
		}
	}
	return nil
}

func runLearnersRemoveCmd(cmd *cobra.Command, args []string) error {
	if !removeYes {
		return errors.New("refusing to remove a learner without --yes")
	}
	st, _, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := withContext(cmd)
	ids, err := st.Learners(ctx)
	if err != nil {
		return fmt.Errorf("failed to list learners: %w", err)
	}
	if !slices.Contains(ids, args[0]) {
		return fmt.Errorf("learner %q: %w", args[0], progress.ErrNotFound)
	}
	if err := st.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to remove learner: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed learner %s\n", args[0])
	return err
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}
