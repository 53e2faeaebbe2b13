package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec-llm/sweep-runner/internal/model"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDefaultConfigReferenceSweep(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []int{42, 45, 47}, cfg.Seeds)
	assert.Equal(t, []string{"python3", "main.py"}, cfg.Trainer)
	assert.Equal(t, "multiwiki", cfg.Dataset())
	assert.False(t, cfg.FailFast)
	require.NoError(t, cfg.Validate())

	// The reference fixed flag set, in order.
	specs := cfg.Specs()
	require.Len(t, specs, 3)
	args := specs[0].Args()
	assert.Equal(t, "--config_format", args[0])
	assert.Equal(t, "lora", args[1])
	assert.Equal(t, []string{"--seed", "42"}, args[len(args)-2:])
	assert.Contains(t, args, "--lora_freeze_all_non_lora")
	assert.Contains(t, args, "--wandb_project")
}

func TestSpecsShareFixedParams(t *testing.T) {
	cfg := DefaultConfig()
	specs := cfg.Specs()
	require.Len(t, specs, 3)

	for i, spec := range specs {
		assert.Equal(t, cfg.Seeds[i], spec.Seed)
		a := spec.Args()
		b := specs[0].Args()
		// Only the trailing seed value differs.
		assert.Equal(t, b[:len(b)-1], a[:len(a)-1])
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	data := `
trainer: [python3, /data/main.py]
seeds: [1, 2]
fail_fast: true
fixed_params:
  - flag: dataset
    value: agnews
  - flag: wandb
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, cfg.Seeds)
	assert.Equal(t, []string{"python3", "/data/main.py"}, cfg.Trainer)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "agnews", cfg.Dataset())
	assert.Equal(t, []model.Param{
		{Flag: "dataset", Value: "agnews"},
		{Flag: "wandb"},
	}, cfg.FixedParams)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadNoFileFallsBackToDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []int{42, 45, 47}, cfg.Seeds)
}

func TestLoadSearchesDefaultNames(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("sweep.yaml", []byte("seeds: [7]\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []int{7}, cfg.Seeds)
	// Unspecified fields keep their defaults.
	assert.Equal(t, []string{"python3", "main.py"}, cfg.Trainer)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seeds: [42\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trainer = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Seeds = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Seeds = []int{42, 42}
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.FixedParams = append(cfg.FixedParams, model.Param{Flag: "seed", Value: "1"})
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.FixedParams = append(cfg.FixedParams, model.Param{Flag: ""})
	assert.Error(t, cfg.Validate())
}
