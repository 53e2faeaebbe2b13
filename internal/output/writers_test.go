package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec-llm/sweep-runner/internal/model"
)

func sampleResult() model.Result {
	return model.Result{
		Sweep:     "sweep_multiwiki_1",
		Seed:      42,
		Args:      []string{"--dataset", "multiwiki", "--seed", "42"},
		Status:    model.StatusFailed,
		ExitCode:  1,
		Attempts:  2,
		Timestamp: time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Duration:  90 * time.Second,
		Error:     "trainer exited with code 1",
	}
}

func TestCSVWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(sampleResult()))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "sweep", rows[0][0])
	assert.Equal(t, "42", rows[1][1])
	assert.Equal(t, "failed", rows[1][2])
	assert.Equal(t, "1", rows[1][3])
	assert.Equal(t, "--dataset multiwiki --seed 42", rows[1][7])
}

func TestCSVWriterFlushesPerWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Write(sampleResult()))

	// The row must be on disk before Close; sweeps die mid-flight.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sweep_multiwiki_1")
}

func TestJSONWriterEmitsOneLinePerResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	w, err := NewJSONWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.Write(sampleResult()))
	res2 := sampleResult()
	res2.Seed = 45
	res2.Status = model.StatusSuccess
	res2.ExitCode = 0
	res2.Error = ""
	require.NoError(t, w.Write(res2))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var decoded []model.Result
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r model.Result
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		decoded = append(decoded, r)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, decoded, 2)
	assert.Equal(t, 42, decoded[0].Seed)
	assert.Equal(t, model.StatusFailed, decoded[0].Status)
	assert.Equal(t, 45, decoded[1].Seed)
	assert.Equal(t, model.StatusSuccess, decoded[1].Status)
}
