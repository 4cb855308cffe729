package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/insights-workspace/internal/domain/advice"
	domain "github.com/bryanwahyu/insights-workspace/internal/domain/documents"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	base := []string{"--fast", "--config", filepath.Join(t.TempDir(), "missing.yaml")}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestAnalyze_Text(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "alpha.txt", "first memo")
	b := writeFile(t, dir, "beta.txt", "second memo")

	out, err := run(t, "analyze", a, b, "--sort", "name", "--asc")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:  2")
	assert.Contains(t, out, "ID")
	assert.Less(t, bytes.Index([]byte(out), []byte("alpha.txt")), bytes.Index([]byte(out), []byte("beta.txt")))
}

func TestAnalyze_JSON(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "memo.txt", "hello")

	out, err := run(t, "analyze", p, "--json")
	require.NoError(t, err)

	var payload struct {
		Stats     domain.Stats    `json:"stats"`
		Documents []domain.Result `json:"documents"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, 1, payload.Stats.TotalDocuments)
	require.Len(t, payload.Documents, 1)
	assert.Equal(t, domain.StatusCompleted, payload.Documents[0].Status)
}

func TestAnalyze_Rejections(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "deck.pptx", "x")

	_, err := run(t, "analyze", p)
	require.Error(t, err)
	assert.Equal(t, `File "deck.pptx" is not a supported format`, err.Error())

	_, err = run(t, "analyze", writeFile(t, dir, "ok.txt", "x"), "--filter", "emotion")
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = run(t, "analyze")
	assert.Error(t, err)
}

func TestReport_JSON(t *testing.T) {
	p := writeFile(t, t.TempDir(), "minutes.txt", "board minutes")

	out, err := run(t, "report", p, "--json")
	require.NoError(t, err)
	var rep advice.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "minutes.txt", rep.Name)
	assert.NotEmpty(t, rep.Issues)
}

func TestReport_Text(t *testing.T) {
	p := writeFile(t, t.TempDir(), "minutes.txt", "board minutes")

	out, err := run(t, "report", p)
	require.NoError(t, err)
	assert.Contains(t, out, "minutes.txt (completed)")
	assert.Contains(t, out, "Financial implication:")
}
