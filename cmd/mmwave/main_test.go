package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mmwave/internal/config"
	"github.com/san-kum/mmwave/internal/transition"
)

func TestParseAxis(t *testing.T) {
	name, values, err := parseAxis("probe_power=1e-3:3e-3:3")
	require.NoError(t, err)
	assert.Equal(t, "probe_power", name)
	require.Len(t, values, 3)
	assert.InDelta(t, 2e-3, values[1], 1e-15)

	for _, bad := range []string{"probe_power", "bogus=0:1:2", "delta=0:1", "delta=a:1:2", "delta=0:1:0"} {
		_, _, err := parseAxis(bad)
		assert.Error(t, err, bad)
	}
}

func TestResample(t *testing.T) {
	// uneven records with a repeated breakpoint time
	times := []float64{0, 1, 1, 3, 4}
	values := []float64{0, 1, 9, 3, 4}
	out, dt, err := resample(times, values, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, dt)
	assert.InDeltaSlice(t, []float64{0, 1, 2, 3, 4}, out, 1e-12)

	_, _, err = resample([]float64{0, 0}, []float64{1, 1}, 8)
	assert.Error(t, err)
}

func newTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	configFile, preset, model, integrator, levels, overrides = "", "", "", "", 0, nil
	cmd := &cobra.Command{Use: "test"}
	configFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfigLayers(t *testing.T) {
	cfg, err := loadConfig(newTestCmd(t, "--preset", "fast-pi", "--levels", "2", "--set", "delta2=1e6", "--set", "probe_power=0.002"))
	require.NoError(t, err)
	assert.Equal(t, "unitary", cfg.Model)
	assert.Equal(t, 2, cfg.Levels)
	assert.Equal(t, 1e6, cfg.Detuning.TwoPhoton)
	assert.Equal(t, 0.002, cfg.Probe.Power)

	cfg, err = loadConfig(newTestCmd(t, "--model", "neumann"))
	require.NoError(t, err)
	assert.Equal(t, "neumann", cfg.Model)
	assert.Equal(t, config.DefaultConfig().Integrator, cfg.Integrator)
}

func TestLoadConfigFileOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("couple:\n  power: 2\n"), 0644))

	cfg, err := loadConfig(newTestCmd(t, "--preset", "fast-pi", "--config", path, "--set", "delta2=1e6"))
	require.NoError(t, err)
	assert.Equal(t, "unitary", cfg.Model)
	assert.Equal(t, "exact", cfg.Integrator)
	assert.Equal(t, 2.0, cfg.Couple.Power)
	assert.Equal(t, 20e-3, cfg.Probe.Power)
	assert.Equal(t, 1e6, cfg.Detuning.TwoPhoton)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(newTestCmd(t, "--preset", "nope"))
	assert.Error(t, err)
	_, err = loadConfig(newTestCmd(t, "--set", "delta"))
	assert.Error(t, err)
	_, err = loadConfig(newTestCmd(t, "--set", "bogus=1"))
	assert.Error(t, err)
	_, err = loadConfig(newTestCmd(t, "--model", "classical"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestLookupName(t *testing.T) {
	name := lookupName(transition.DefaultParams())
	assert.Equal(t, "cs_6S1_2_7P3_2_47D5_2_q11_w25", name)
	assert.False(t, strings.Contains(name, "/"))
	assert.Equal(t, "6S1/2 -> 7P3/2 -> 47D5/2", ladder(transition.DefaultParams()))
}
