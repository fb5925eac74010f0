package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemon6243/customer-center-dashboard/internal/ingest"
	"github.com/lemon6243/customer-center-dashboard/internal/pipeline"
)

const header = "center_id,evaluation_month,safety_inspection,priority_customer,usage_contract," +
	"consultation_response,consultation_contribution,satisfaction\n"

// A totals 630 and B totals 460 in March. January and February are absent,
// so validation warns once per center about the leading gap.
const sampleCSV = header +
	"A,2024-03,0.5,0.5,0.85,0.9,0.9,80\n" +
	"B,2024-03,0.3,0.3,0.6,0.8,0.8,70\n"

// setupProject writes data.csv and a .ccscorerc.json into a fresh working directory.
func setupProject(t *testing.T, csv string, rc map[string]any) string {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.csv"), []byte(csv), 0644))

	settings := map[string]any{
		"format":          "json",
		"output":          filepath.Join(dir, "report.json"),
		"logLevel":        "disabled",
		"expectedCenters": 0,
	}
	for k, v := range rc {
		settings[k] = v
	}
	data, err := json.Marshal(settings)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".ccscorerc.json"), data, 0644))
	return dir
}

func readReport(t *testing.T, dir string) pipeline.Report {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var doc struct {
		Report pipeline.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc.Report
}

func captureStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = old })
	return &buf
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"score", "risk", "annual", "rank", "trend", "suggest", "summary", "validate"} {
		assert.Contains(t, names, want)
	}
}

func TestRunReport_Score(t *testing.T) {
	dir := setupProject(t, sampleCSV, nil)

	err := runReport(context.Background(), []string{"data.csv"}, reportOptions{sections: pipeline.Sections{Scores: true}})
	require.NoError(t, err)

	report := readReport(t, dir)
	require.Len(t, report.Scores, 2)
	assert.Equal(t, "A", report.Scores[0].Center)
	assert.Equal(t, 630.0, report.Scores[0].Total)
	assert.False(t, report.Scores[0].Passed)
	assert.Nil(t, report.Risk)
}

func TestRunReport_InputsFromConfig(t *testing.T) {
	dir := setupProject(t, sampleCSV, map[string]any{"inputs": []string{"*.csv"}})

	err := runReport(context.Background(), nil, reportOptions{sections: pipeline.Sections{Risk: true}})
	require.NoError(t, err)

	report := readReport(t, dir)
	require.Len(t, report.Risk, 2)
	assert.Equal(t, "B", report.Risk[0].Center)
	assert.Equal(t, "at-risk", string(report.Risk[0].Tier))
}

func TestRunReport_NoInputs(t *testing.T) {
	setupProject(t, sampleCSV, nil)

	err := runReport(context.Background(), []string{"missing/*.csv"}, reportOptions{sections: pipeline.AllSections()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ingest.ErrNoInputs)
}

func TestRunReport_ValidationFailure(t *testing.T) {
	csv := header + "A,2024-03,1.5,0.5,0.85,0.9,0.9,80\n"
	dir := setupProject(t, csv, nil)
	errOut := captureStderr(t)

	err := runReport(context.Background(), []string{"data.csv"}, reportOptions{sections: pipeline.AllSections()})
	require.Error(t, err)

	var vfe *pipeline.ValidationFailedError
	require.ErrorAs(t, err, &vfe)
	assert.Contains(t, errOut.String(), "✘ A 2024-03 safety_inspection")

	_, statErr := os.Stat(filepath.Join(dir, "report.json"))
	assert.True(t, os.IsNotExist(statErr), "no report is written when validation fails")
}

func TestRunReport_ValidateOnly(t *testing.T) {
	t.Run("warnings only", func(t *testing.T) {
		csv := header + "A,2024-03,0.5,0.5,0.85,0.9,0.9,120\n"
		dir := setupProject(t, csv, nil)

		err := runReport(context.Background(), []string{"data.csv"}, reportOptions{validateOnly: true})
		require.NoError(t, err)

		report := readReport(t, dir)
		require.Len(t, report.Issues, 2)
		assert.Equal(t, "evaluation_month", report.Issues[0].Field)
		assert.Equal(t, "satisfaction", report.Issues[1].Field)
		for _, is := range report.Issues {
			assert.Equal(t, "warning", is.Severity)
		}
		assert.Nil(t, report.Scores)
	})

	t.Run("errors exit non-zero after reporting", func(t *testing.T) {
		csv := sampleCSV + "A,2024-03,0.5,0.5,0.85,0.9,0.9,80\n"
		dir := setupProject(t, csv, nil)

		err := runReport(context.Background(), []string{"data.csv"}, reportOptions{validateOnly: true})
		var vfe *pipeline.ValidationFailedError
		require.ErrorAs(t, err, &vfe)

		require.Len(t, vfe.Issues, 1)
		assert.Contains(t, vfe.Issues[0].Message, "first seen at")

		report := readReport(t, dir)
		require.Len(t, report.Issues, 3)
		assert.Equal(t, "error", report.Issues[1].Severity)
		assert.Contains(t, report.Issues[1].Message, "first seen at")
	})
}

func TestRunReport_InvalidConfig(t *testing.T) {
	setupProject(t, sampleCSV, map[string]any{"format": "xlsx", "output": ""})

	err := runReport(context.Background(), []string{"data.csv"}, reportOptions{sections: pipeline.AllSections()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading configuration")
}

func TestRunRank_InvalidMonth(t *testing.T) {
	setupProject(t, sampleCSV, nil)
	old := rankMonth
	rankMonth = "2024-13"
	t.Cleanup(func() { rankMonth = old })

	err := runRank(rankCmd, []string{"data.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --month")
}

func TestRunRank_Month(t *testing.T) {
	csv := sampleCSV +
		"A,2024-02,0.3,0.3,0.85,0.9,0.9,80\n" +
		"B,2024-02,0.4,0.4,0.85,0.9,0.9,80\n"
	dir := setupProject(t, csv, nil)
	old := rankMonth
	rankMonth = "2024-02"
	t.Cleanup(func() { rankMonth = old })

	require.NoError(t, runRank(rankCmd, []string{"data.csv"}))

	report := readReport(t, dir)
	require.NotNil(t, report.Ranking)
	assert.Equal(t, "2024-02", report.Ranking.Month)
	assert.Equal(t, "B", report.Ranking.Rankings[0].Center)
}

func TestFail_CallsExit(t *testing.T) {
	originalExitFunc := exitFunc
	exitCode := -1
	exitFunc = func(code int) { exitCode = code }
	defer func() { exitFunc = originalExitFunc }()

	fail(assert.AnError)
	assert.Equal(t, 1, exitCode)
}

func TestExecute_FlagsOverrideConfig(t *testing.T) {
	dir := setupProject(t, sampleCSV, nil)
	bindFlags()

	out := filepath.Join(dir, "flags.md")
	rootCmd.SetArgs([]string{"summary", "data.csv", "--format", "markdown", "--output", out})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	originalExitFunc := exitFunc
	exitCalled := false
	exitFunc = func(int) { exitCalled = true }
	defer func() { exitFunc = originalExitFunc }()

	Execute()
	assert.False(t, exitCalled)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Customer Center Score Report"))
	assert.Contains(t, string(data), "## Summary")
}
