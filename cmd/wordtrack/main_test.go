package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordtrack/internal/config"
	"github.com/verte-zerg/wordtrack/internal/progress"
)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--db", filepath.Join(dir, "wordtrack.db"),
		"--config", filepath.Join(dir, "config.toml"),
		"--timezone", "UTC",
		"--learner", "kid",
	}
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCLIWordsAndRecord(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "words", "add", "Cat", "kat")
	require.NoError(t, err)
	require.Equal(t, "Added Cat\n", out)

	out, err = runCLI(t, dir, "record", "Cat", "--accuracy", "90", "--seconds", "12")
	require.NoError(t, err)
	require.Contains(t, out, "Recorded Cat: 90% in 12s")

	out, err = runCLI(t, dir, "words", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Teddy")
	require.Regexp(t, regexp.MustCompile(`Cat\s+kat\s+in-progress\s+90%\s+1`), out)

	out, err = runCLI(t, dir, "streak")
	require.NoError(t, err)
	require.Contains(t, out, "Current streak: 1 days")

	_, err = runCLI(t, dir, "record", "Dog")
	require.ErrorIs(t, err, progress.ErrNotFound)
}

func TestCLIImportAndReset(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "animals.txt")
	require.NoError(t, os.WriteFile(list, []byte("# animals\nDog\tdawg\nFish\nDog\n"), 0o644))

	out, err := runCLI(t, dir, "words", "import", list)
	require.NoError(t, err)
	require.Equal(t, "Imported 2 words\n", out)

	out, err = runCLI(t, dir, "words", "import", list)
	require.NoError(t, err)
	require.Contains(t, out, "Imported 0 words")
	require.Contains(t, out, "skipped Dog")

	_, err = runCLI(t, dir, "record", "Fish", "--accuracy", "40", "--seconds", "5")
	require.NoError(t, err)

	_, err = runCLI(t, dir, "reset")
	require.Error(t, err)

	out, err = runCLI(t, dir, "reset", "--yes")
	require.NoError(t, err)
	require.Equal(t, "Reset progress for kid (6 words kept)\n", out)

	out, err = runCLI(t, dir, "activity")
	require.NoError(t, err)
	require.Equal(t, "No recent activity.\n", out)
}

func TestCLIStatsAndAchievements(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "record", "Ball", "--accuracy", "70", "--seconds", "30")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "stats", "--range", "all")
	require.NoError(t, err)
	require.Contains(t, out, "Learner kid: streak 1 days")
	require.Contains(t, out, "Practice Heatmap")

	out, err = runCLI(t, dir, "achievements")
	require.NoError(t, err)
	require.Contains(t, out, "First Steps")
	require.Contains(t, out, "Next up: First Steps")

	_, err = runCLI(t, dir, "stats", "--range", "12")
	require.Error(t, err)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	keyLine := regexp.MustCompile(`^# ([a-z-]+ = .*)$`)
	lines := strings.Split(defaultConfigTemplate(), "\n")
	for i, line := range lines {
		if m := keyLine.FindStringSubmatch(line); m != nil {
			lines[i] = m[1]
		}
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, defaultLearner, *cfg.Learner.ID)
	require.Equal(t, defaultTimezone, *cfg.Learner.Timezone)
	require.Equal(t, defaultRange, *cfg.Stats.Range)
	require.Equal(t, defaultLogLevel, *cfg.Log.Level)
	require.Equal(t, []string{"Hello", "Teddy", "Apple", "Ball"}, cfg.Practice.StarterWords)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[practice]\nstarter-words = [\"Sun\"]\n"), 0o644))

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{
		"--db", filepath.Join(dir, "wordtrack.db"),
		"--config", cfgPath,
		"words", "list",
	})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "Sun")
	require.NotContains(t, out.String(), "Teddy")
}

func TestCLILearners(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "streak")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "--learner", "ana", "streak")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "learners")
	require.NoError(t, err)
	require.Equal(t, "  ana\n* kid\n", out)

	_, err = runCLI(t, dir, "learners", "rm", "ana")
	require.Error(t, err)

	_, err = runCLI(t, dir, "learners", "rm", "bob", "--yes")
	require.ErrorIs(t, err, progress.ErrNotFound)

	out, err = runCLI(t, dir, "learners", "rm", "ana", "--yes")
	require.NoError(t, err)
	require.Equal(t, "Removed learner ana\n", out)

	out, err = runCLI(t, dir, "learners")
	require.NoError(t, err)
	require.Equal(t, "* kid\n", out)
}

func TestConfigRangeOnlyCheckedByReports(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[stats]\nrange = \"12\"\n"), 0o644))

	out, err := runCLI(t, dir, "words", "add", "Cat")
	require.NoError(t, err)
	require.Equal(t, "Added Cat\n", out)

	_, err = runCLI(t, dir, "stats")
	require.ErrorContains(t, err, "invalid --range value")

	_, err = runCLI(t, dir, "stats", "--range", "7")
	require.NoError(t, err)
}
