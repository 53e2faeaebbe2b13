package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSpecArgsOrderAndSeed(t *testing.T) {
	spec := RunSpec{
		Seed: 42,
		Fixed: []Param{
			{Flag: "config_format", Value: "lora"},
			{Flag: "no_compile"},
			{Flag: "lora_rank", Value: "8"},
		},
	}

	args := spec.Args()
	assert.Equal(t, []string{
		"--config_format", "lora",
		"--no_compile",
		"--lora_rank", "8",
		"--seed", "42",
	}, args)
}

func TestRunSpecArgsIdempotent(t *testing.T) {
	spec := RunSpec{
		Seed: 45,
		Fixed: []Param{
			{Flag: "dataset", Value: "multiwiki"},
			{Flag: "wandb"},
		},
	}

	first := spec.Args()
	second := spec.Args()
	assert.Equal(t, first, second)

	// Mutating the returned slice must not leak into the next build.
	first[0] = "mutated"
	assert.Equal(t, second, spec.Args())
}

func TestRunSpecArgsSeedOnlyVaries(t *testing.T) {
	fixed := []Param{
		{Flag: "iterations", Value: "200"},
		{Flag: "num_clients", Value: "4"},
	}

	a := RunSpec{Seed: 42, Fixed: fixed}.Args()
	b := RunSpec{Seed: 47, Fixed: fixed}.Args()

	require.Len(t, a, len(b))
	// Everything up to the trailing --seed value is identical.
	assert.Equal(t, a[:len(a)-1], b[:len(b)-1])
	assert.Equal(t, "42", a[len(a)-1])
	assert.Equal(t, "47", b[len(b)-1])
}

func TestRunSpecName(t *testing.T) {
	assert.Equal(t, "seed=42", RunSpec{Seed: 42}.Name())
}

func TestResultOK(t *testing.T) {
	assert.True(t, Result{Status: StatusSuccess}.OK())
	assert.False(t, Result{Status: StatusFailed}.OK())
	assert.False(t, Result{Status: StatusSkipped}.OK())
}
