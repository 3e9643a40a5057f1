package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanCommand_JSON(t *testing.T) {
	out, err := run(t, "plan",
		"--baseline-mean", "100", "--baseline-std", "20", "--improvement", "5",
		"--min-n", "100", "--max-n", "1000")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.InDelta(t, 184.47111505472202, got["expected_n_h1"], 1e-9)
}

func TestPlanCommand_CheckAndMarkdown(t *testing.T) {
	out, err := run(t, "plan", "--format", "markdown", "--check",
		"--baseline-mean", "100", "--std-known", "unknown", "--improvement", "5",
		"--max-n", "100000", "--weekly-visitors", "1000", "--max-weeks", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "# mSPRT Test Plan")
}

func TestPlanCommand_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	_, err := run(t, "plan", "--format", "json", "--xlsx", path,
		"--baseline-mean", "100", "--baseline-std", "20", "--improvement", "5")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestPlanCommand_KnownModeNeedsStd(t *testing.T) {
	_, err := run(t, "plan", "--baseline-mean", "100", "--improvement", "5")
	assert.ErrorContains(t, err, "baseline_std")
}

func TestSweepCommand(t *testing.T) {
	out, err := run(t, "sweep", "--format", "json",
		"--baseline-mean", "100", "--baseline-std", "20", "--max-n", "1000",
		"--improvements", "2,5,10")
	require.NoError(t, err)

	var got struct {
		Rows []struct {
			Improvement float64 `json:"improvement"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Rows, 3)
	assert.Equal(t, 10.0, got.Rows[2].Improvement)
}

func TestSweepTable(t *testing.T) {
	out, err := run(t, "sweep", "--format", "table",
		"--baseline-mean", "100", "--baseline-std", "20", "--improvements", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Expected N (H1)")
}

func TestFixedCommand(t *testing.T) {
	out, err := run(t, "fixed", "--baseline-mean", "100", "--baseline-std", "20", "--improvement", "5")
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(252), got["sample_size_per_group"])
}

func TestDispersionSamples(t *testing.T) {
	t.Run("from args", func(t *testing.T) {
		out, err := run(t, "dispersion", "samples", "10", "12", "14", "16", "18")
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 14.0, got["mean"])
	})

	t.Run("from csv", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.csv")
		require.NoError(t, os.WriteFile(path, []byte("day,revenue\n1,10\n2,12\n3,14\n4,16\n5,18\n"), 0o600))

		out, err := run(t, "dispersion", "samples", "--file", path, "--column", "revenue")
		require.NoError(t, err)

		var got map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, float64(5), got["n"])
	})

	t.Run("bad number", func(t *testing.T) {
		_, err := run(t, "dispersion", "samples", "1", "x")
		assert.ErrorContains(t, err, "not a number")
	})
}

func TestDispersionConversions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.csv")
	require.NoError(t, os.WriteFile(path, []byte("conversions,visitors\n50,1000\n60,1000\n55,1000\n"), 0o600))

	out, err := run(t, "dispersion", "conversions", "--file", path)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(3), got["n_periods"])
}

func TestDispersionPrecision(t *testing.T) {
	out, err := run(t, "dispersion", "precision", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, `"n_required": 193`)
}
