package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec-llm/sweep-runner/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSweepLifecycle(t *testing.T) {
	s := openTestStore(t)

	params := []model.Param{{Flag: "dataset", Value: "multiwiki"}, {Flag: "wandb"}}
	id, err := s.BeginSweep("sweep_multiwiki_1", []string{"python3", "main.py"}, params, []int{42, 45, 47})
	require.NoError(t, err)
	require.NotZero(t, id)

	res := model.Result{
		Sweep:     "sweep_multiwiki_1",
		Seed:      42,
		Args:      []string{"--dataset", "multiwiki", "--seed", "42"},
		Status:    model.StatusSuccess,
		Attempts:  1,
		Timestamp: time.Now(),
		Duration:  1500 * time.Millisecond,
	}
	require.NoError(t, s.RecordRun(id, res))

	res.Seed = 45
	res.Status = model.StatusFailed
	res.ExitCode = 1
	res.Error = "trainer exited with code 1"
	require.NoError(t, s.RecordRun(id, res))

	require.NoError(t, s.FinishSweep(id, "failed"))

	sweeps, err := s.ListSweeps(10)
	require.NoError(t, err)
	require.Len(t, sweeps, 1)
	assert.Equal(t, "sweep_multiwiki_1", sweeps[0].Name)
	assert.Equal(t, "failed", sweeps[0].Status)
	assert.Equal(t, "python3 main.py", sweeps[0].Trainer)
	assert.NotEmpty(t, sweeps[0].FinishedAt)

	runs, err := s.ListRuns(id)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 42, runs[0].Seed)
	assert.Equal(t, "success", runs[0].Status)
	assert.Equal(t, int64(1500), runs[0].DurationMS)
	assert.Equal(t, 45, runs[1].Seed)
	assert.Equal(t, 1, runs[1].ExitCode)
	assert.Equal(t, "trainer exited with code 1", runs[1].Error)
}

func TestListSweepsNewestFirst(t *testing.T) {
	s := openTestStore(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.BeginSweep(name, []string{"python3"}, nil, []int{1})
		require.NoError(t, err)
	}

	sweeps, err := s.ListSweeps(2)
	require.NoError(t, err)
	require.Len(t, sweeps, 2)
	assert.Equal(t, "third", sweeps[0].Name)
	assert.Equal(t, "second", sweeps[1].Name)
}

func TestListRunsEmptySweep(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(999)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
