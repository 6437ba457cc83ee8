package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// A quarter year of daily steps: one initial row plus 91 step rows.
var shortRunArgs = []string{"run", "--agents", "300", "--years", "0.25", "--seed", "7"}

func TestRunWritesCSVReportToStdout(t *testing.T) {
	home := t.TempDir()

	stdout, stderr, err := executeCLI(t, home, shortRunArgs...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 93)
	assert.Equal(t, "year,agents,alive,infected,prevalence,males_alive,males_infected,male_prevalence,females_alive,females_infected,female_prevalence,hiv_neg,hiv_p,cdc1,cdc2,cdc3,cdc4", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2015.0000,300,300,"))

	assert.Contains(t, stderr, "Scenario default, seed 7")
	assert.Contains(t, stderr, "begin")
	assert.Contains(t, stderr, "end")
	assert.Contains(t, stderr, "agents: 300")
}

func TestRunIsDeterministicForSeed(t *testing.T) {
	home := t.TempDir()

	first, _, err := executeCLI(t, home, shortRunArgs...)
	require.NoError(t, err)
	second, _, err := executeCLI(t, home, shortRunArgs...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, _, err := executeCLI(t, home, "run", "--agents", "300", "--years", "0.25", "--seed", "8")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestRunJSONOutput(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, append(shortRunArgs, "--json", "--label", "baseline", "--quiet")...)
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var doc runDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "baseline", doc.Label)
	assert.Equal(t, uint64(7), doc.Seed)
	assert.NotEmpty(t, doc.RunID)
	assert.Len(t, doc.Records, 92)
	require.Len(t, doc.Summaries, 2)
	assert.Equal(t, "begin", doc.Summaries[0].Label)
	assert.Equal(t, "end", doc.Summaries[1].Label)
	assert.NotEmpty(t, doc.Summaries[1].Incidence)
}

func TestRunWritesReportFileAndArchive(t *testing.T) {
	home := t.TempDir()
	outPath := filepath.Join(home, "report.csv")
	dbPath := filepath.Join(home, "archive.db")

	stdout, _, err := executeCLI(t, home, append(shortRunArgs, "--out", outPath, "--db", dbPath)...)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 93)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var records, summaries int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM records`).Scan(&records))
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM summaries`).Scan(&summaries))
	assert.Equal(t, 92, records)
	assert.Equal(t, 2, summaries)
}

func TestRunRejectsUnknownModels(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, append(shortRunArgs, "--formation", "random")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formation model")

	_, _, err = executeCLI(t, home, append(shortRunArgs, "--infection", "airborne")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown infection model")
}

func TestRunRejectsInvalidParameters(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, append(shortRunArgs, "--time-step", "0")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameters")

	_, _, err = executeCLI(t, home, "run", "--agents", "-1", "--years", "0.25")
	require.Error(t, err)
}

func TestRunUnknownScenario(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, append(shortRunArgs, "--scenario", "missing")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario not found")
}

func TestRunReadsDefaultsFromConfigFile(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeConfigFixture(home, "[run]\nagents = 120\nseed = 5\n"))

	stdout, stderr, err := executeCLI(t, home, "run", "--years", "0.25")
	require.NoError(t, err)
	assert.Contains(t, strings.Split(stdout, "\n")[1], ",120,120,")
	assert.Contains(t, stderr, "seed 5")
}

func TestRunsListShowsCompletedRuns(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded.")

	_, _, err = executeCLI(t, home, append(shortRunArgs, "--label", "first", "--quiet")...)
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "first")
	assert.Contains(t, stdout, "default")
	assert.Contains(t, stdout, "300")
}

func TestRunsShowRendersStoredSummaries(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, append(shortRunArgs, "--json", "--quiet")...)
	require.NoError(t, err)
	var doc runDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))

	stdout, _, err = executeCLI(t, home, "runs", "show", doc.RunID)
	require.NoError(t, err)
	assert.Contains(t, stdout, "run: "+doc.RunID)
	assert.Contains(t, stdout, "agents: 300")
	assert.Contains(t, stdout, "incidence")

	_, _, err = executeCLI(t, home, "runs", "show", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestRunsListJSONOutput(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, append(shortRunArgs, "--quiet")...)
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "runs", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"BeginPrevalence\"")
}

func TestScenarioListIncludesDefault(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "scenario", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "default")
	assert.Contains(t, stdout, "730")
}

func TestScenarioSaveThenRun(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home,
		"scenario", "save", "quarter",
		"--years", "0.25",
		"--formation", "extended",
		"--infection", "contact",
		"--description", "Short contact-model run",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved scenario quarter (91 steps)")

	stdout, _, err = executeCLI(t, home, "scenario", "show", "quarter", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "name: quarter")
	assert.Contains(t, stdout, "formation_model: extended")
	assert.Contains(t, stdout, "infection_model: contact")

	stdout, _, err = executeCLI(t, home, "run", "--scenario", "quarter", "--agents", "200", "--quiet")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 93)
}

func TestScenarioSaveRejectsBadName(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "scenario", "save", "Bad Name")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid parameters")
}

func TestScenarioShowDefaultAsTOML(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "scenario", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "name = 'default'")
	assert.Contains(t, stdout, "num_years = 2.0")
}

func TestScenarioImportFromYAML(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "weekly.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: weekly\nparameters:\n  num_years: 1\n  time_step: 0.019230769230769232\n"), 0o644))

	stdout, _, err := executeCLI(t, home, "scenario", "import", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Imported scenario weekly")

	stdout, _, err = executeCLI(t, home, "scenario", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"weekly\"")

	stdout, _, err = executeCLI(t, home, "run", "--scenario", "weekly", "--agents", "100", "--quiet")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 54)
}

func TestScenarioImportRejectsUnknownFields(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("name = 'broken'\n[parameters]\nnum_yeras = 3.0\n"), 0o644))

	_, _, err := executeCLI(t, home, "scenario", "import", path)
	require.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "--log-level", "loud", "scenario", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestInfoLoggingGoesToStderr(t *testing.T) {
	home := t.TempDir()

	_, stderr, err := executeCLI(t, home, append(shortRunArgs, "--log-level", "info", "--quiet")...)
	require.NoError(t, err)
	assert.Contains(t, stderr, "simulation started")
	assert.Contains(t, stderr, "simulation finished")
}

func TestVersionCommand(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestUnknownCommand(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "account")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"account\"")
}

// runDocument is the part of the --json output the tests inspect.
type runDocument struct {
	RunID     string `json:"run_id"`
	Label     string `json:"label"`
	Seed      uint64 `json:"seed"`
	Summaries []struct {
		Label     string          `json:"label"`
		Incidence json.RawMessage `json:"incidence"`
	} `json:"summaries"`
	Records []json.RawMessage `json:"records"`
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfigFixture(home, contents string) error {
	configDir := filepath.Join(home, ".partners")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(contents), 0o644)
}
