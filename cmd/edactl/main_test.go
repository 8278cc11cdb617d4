package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "Time,V1,V2,Amount,Class\n" +
	"0,-1.35,-0.07,149.62,0\n" +
	"0,1.19,0.26,2.69,0\n" +
	"1,-1.35,-1.34,378.66,1\n" +
	"2,-0.96,-0.18,123.5,0\n"

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creditcard.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFetchUsesCache(t *testing.T) {
	path := writeDataset(t)
	out, err := run(t, "fetch", "--data", path, "--dataset-id", "http://127.0.0.1:1/never")
	require.NoError(t, err)
	assert.Contains(t, out, "already present")
}

func TestSummaryCommand(t *testing.T) {
	path := writeDataset(t)
	out, err := run(t, "summary", "--data", path, "--markdown", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "| Nombre total de transactions")
	assert.Contains(t, out, "25.000 %")
	assert.Contains(t, out, "Corrélations avec Class")
}

func TestRenderCommand(t *testing.T) {
	path := writeDataset(t)
	dir := t.TempDir()
	out, err := run(t, "render", "--data", path, "--class", "fraud", "--out", dir, "--format", "svg")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+filepath.Join(dir, "scatter_fraud.svg"))

	for _, name := range []string{"class-distribution", "amount-histogram", "amount-histogram-by-class", "scatter", "correlation"} {
		_, err := os.Stat(filepath.Join(dir, name+"_fraud.svg"))
		assert.NoError(t, err, name)
	}
}

func TestSummaryRejectsInfiniteAmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creditcard.csv")
	require.NoError(t, os.WriteFile(path, []byte("Time,V1,Amount,Class\n0,1,5,0\n1,2,inf,1\n"), 0o644))
	_, err := run(t, "summary", "--data", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finite")
}

func TestRenderRejectsBadFilter(t *testing.T) {
	_, err := run(t, "render", "--data", writeDataset(t), "--class", "sometimes")
	assert.Error(t, err)
}
