package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/analytics"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/config"
)

const testConfig = `program:
  name: Informatik
  regular_study_period: 6
storage:
  backend: file
  path: data.json
`

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

// execute runs a fresh root command so flag values never leak between calls.
func execute(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, cfgFile string, args ...string) string {
	t.Helper()
	out, err := execute(t, cfgFile, args...)
	require.NoError(t, err, "args: %v", args)
	return out
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, expected := range []string{"init", "module", "exam", "learn", "show", "dashboard", "query", "version"} {
		assert.True(t, names[expected], "expected subcommand %q", expected)
	}
}

func TestModuleCmd_Subcommands(t *testing.T) {
	cmd := moduleCmd(&globalOpts{})
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Use] = true
	}
	for _, expected := range []string{"add", "rename", "ects", "move", "delete", "list"} {
		assert.True(t, names[expected], "expected module %q", expected)
	}
}

func TestEndToEnd_FileBackend(t *testing.T) {
	cfg := writeConfig(t)

	out := mustExecute(t, cfg, "module", "add", "-s", "1", "-t", "Mathematik", "-e", "5")
	assert.Contains(t, out, `Added "Mathematik"`)

	out = mustExecute(t, cfg, "exam", "record", "-s", "1", "-t", "mathematik", "-g", "1.7")
	assert.Contains(t, out, "Attempt 1")
	assert.Contains(t, out, "passed")

	out = mustExecute(t, cfg, "learn", "log", "-s", "1", "-t", "Mathematik", "--hours", "3.5", "--date", "2024-01-10")
	assert.Contains(t, out, "2024-01-10")

	out = mustExecute(t, cfg, "dashboard", "--format", "json")
	var s analytics.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "Informatik", s.ProgramName)
	assert.Equal(t, 1.7, s.GradeAverage)
	assert.Equal(t, 100.0, s.StudyProgress)
	assert.Equal(t, 3.5, s.AverageLearningTime)
	assert.Equal(t, 1, s.Status.Passed)

	_, err := os.Stat(filepath.Join(filepath.Dir(cfg), "data.json"))
	require.NoError(t, err)
}

func TestShow_Formats(t *testing.T) {
	cfg := writeConfig(t)
	mustExecute(t, cfg, "module", "add", "-s", "2", "-t", "Datenbanken", "-e", "10")

	out := mustExecute(t, cfg, "show")
	assert.Contains(t, out, "Semester 2")
	assert.Contains(t, out, "[open] Datenbanken (10 ECTS)")

	out = mustExecute(t, cfg, "show", "--format", "json")
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Informatik", doc["name"])

	out = mustExecute(t, cfg, "show", "--format", "yaml")
	assert.Contains(t, out, "title: Datenbanken")

	_, err := execute(t, cfg, "show", "--format", "xml")
	require.Error(t, err)
}

func TestModuleCommands_EditAndList(t *testing.T) {
	cfg := writeConfig(t)
	mustExecute(t, cfg, "module", "add", "-s", "1", "-t", "Algo")
	mustExecute(t, cfg, "module", "rename", "-s", "1", "-t", "algo", "--to", "Algorithmen")
	mustExecute(t, cfg, "module", "ects", "-s", "1", "-t", "Algorithmen", "-e", "10")
	mustExecute(t, cfg, "module", "move", "-s", "1", "-t", "Algorithmen", "--to", "3")

	out := mustExecute(t, cfg, "module", "list")
	assert.Contains(t, out, "Algorithmen")
	assert.Contains(t, out, "10")

	out = mustExecute(t, cfg, "module", "list", "-s", "1")
	assert.Contains(t, out, "No modules.")

	mustExecute(t, cfg, "module", "delete", "-s", "3", "-t", "Algorithmen")
	out = mustExecute(t, cfg, "module", "list")
	assert.Contains(t, out, "No modules.")
}

func TestCommands_ReturnDomainErrors(t *testing.T) {
	cfg := writeConfig(t)
	mustExecute(t, cfg, "module", "add", "-s", "1", "-t", "Physik")

	_, err := execute(t, cfg, "module", "add", "-s", "1", "-t", "Chemie", "-e", "7")
	assert.ErrorIs(t, err, domain.ErrInvalidECTS)

	_, err = execute(t, cfg, "module", "add", "-s", "9", "-t", "Chemie")
	assert.ErrorIs(t, err, domain.ErrInvalidSemester)

	_, err = execute(t, cfg, "module", "add", "-s", "1", "-t", "  physik ")
	assert.ErrorIs(t, err, domain.ErrDuplicateModule)

	_, err = execute(t, cfg, "exam", "record", "-s", "1", "-t", "Physik", "-g", "5.5")
	assert.ErrorIs(t, err, domain.ErrInvalidGrade)

	_, err = execute(t, cfg, "exam", "record", "-s", "1", "-t", "Biologie", "-g", "2.0")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	_, err = execute(t, cfg, "learn", "log", "-s", "1", "-t", "Physik", "--hours", "1", "--date", "10.01.2024")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQueryCmd(t *testing.T) {
	cfg := writeConfig(t)
	mustExecute(t, cfg, "module", "add", "-s", "1", "-t", "Mathematik")

	out := mustExecute(t, cfg, "query", "$.name")
	assert.Equal(t, "Informatik\n", out)

	out = mustExecute(t, cfg, "query", "$.name", "$.semesters[0].modules[0].title")
	assert.Contains(t, out, "$.name = Informatik")
	assert.Contains(t, out, "= Mathematik")

	_, err := execute(t, cfg, "query", "$.nothing")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestDashboardPretty(t *testing.T) {
	cfg := writeConfig(t)
	out := mustExecute(t, cfg, "dashboard", "--format", "pretty")
	assert.Contains(t, out, "Program:        Informatik")
	assert.Contains(t, out, "Grade average:  -")
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"init", "--dir", dir})
	require.NoError(t, cmd.Execute())
	assert.FileExists(t, filepath.Join(dir, config.FileName))

	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"init", "--dir", dir})
	err := cmd.Execute()
	assert.True(t, domain.IsKind(err, domain.KindConflict))
}

func TestVersionCmd(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "studytrack "))
}
