package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecConstants(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 20.0, cfg.Solver.BorderMarginMM)
	assert.Equal(t, 15.0, cfg.Solver.ClearanceMM)
	assert.True(t, cfg.Solver.AllowRotation)
	assert.Equal(t, 0.35, cfg.Solver.ElevationCap)
	assert.Equal(t, 60.0, cfg.Solver.TimeCapSeconds)
	assert.Equal(t, 6, cfg.Solver.Workers)
	assert.Equal(t, 0.4, cfg.Solver.AcceptThreshold)

	assert.Equal(t, 0.75, cfg.Batch.TargetEfficiency)
	assert.Equal(t, 0.50, cfg.Batch.MinEfficiency)
}

func TestLoadWithMissingConfigFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("")
	assert.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Solver.BorderMarginMM)
}

func TestConstraintBundleConversion(t *testing.T) {
	cfg := Default()
	bundle := cfg.ConstraintBundle()

	assert.Equal(t, cfg.Solver.BorderMarginMM, bundle.BorderMargin)
	assert.Equal(t, cfg.Solver.ClearanceMM, bundle.Clearance)
	assert.Equal(t, cfg.Solver.ElevationCap, bundle.ElevationCap)
	assert.Equal(t, cfg.Solver.Workers, bundle.SolverWorkers)
}

func TestLoadClampsTimeCapToHardCeiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver:\n  time_cap_seconds: 1000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, maxTimeCapSeconds, cfg.Solver.TimeCapSeconds)
}
