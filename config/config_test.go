package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlConfig = `
name = "lhc15o-tracks"
qa-level = "light"

[log]
level = "debug"

[period]
name = "LHC15o"
run = 246087

[source]
type = "mysql"
query = "SELECT zvtx, pt, eta FROM tracks"

[source.mysql]
host = "127.0.0.1"
username = "alice"
database = "runs"

[sink]
type = "redis"
flush-every = 1000

[sink.redis]
address = "127.0.0.1:6379"
ttl = "24h"

[event-selection]
remove-pileup-code = 0
vertex-z = [[-7.0, 7.0], [-3.0, 3.0]]

[[cuts]]
field = "pt"
expr = "pt{min=th(0.2);tight=th(0.3)}"

[[cuts]]
field = "eta"
name = "eta"

[[cuts.defaults]]
name = "nominal"
kind = "rg"
params = [-0.8, 0.8]
`

func TestLoadStringToml(t *testing.T) {
	cfg, err := LoadString(tomlConfig, "toml")
	require.NoError(t, err)

	assert.Equal(t, "lhc15o-tracks", cfg.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 246087, cfg.Period.Run)
	assert.Equal(t, SourceMySQL, cfg.Source.Type)
	require.NotNil(t, cfg.Source.MySQL)
	assert.Equal(t, 3306, cfg.Source.MySQL.Port)
	assert.Equal(t, SinkRedis, cfg.Sink.Type)
	assert.Equal(t, 24*time.Hour, cfg.Sink.Redis.ExpireAfter())

	require.NotNil(t, cfg.EventSelection)
	assert.Equal(t, 1, cfg.EventSelection.Trigger())
	assert.Equal(t, 0, cfg.EventSelection.PileUpCode())
	assert.Equal(t, "V0M", cfg.EventSelection.CentMultEstimator)
	assert.Len(t, cfg.EventSelection.VertexZ, 2)

	require.Len(t, cfg.Cuts, 2)
	spec, err := cfg.Cuts[0].Spec()
	require.NoError(t, err)
	assert.Equal(t, "pt", spec.Name)
	assert.Len(t, spec.Variations, 1)

	spec, err = cfg.Cuts[1].Spec()
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.8, 0.8}, spec.Defaults[0].Params)
}

func TestLoadYamlFile(t *testing.T) {
	content := `
source:
  type: memory
  records:
    - {zvtx: 1.0}
cuts:
  - field: zvtx
    expr: "zvtx{nominal=rg(-7,7)}"
binning:
  pt:
    bins: 9
    min: 0.2
    max: 2.0
`
	path := filepath.Join(t.TempDir(), "cutscan.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "cutscan", cfg.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, SinkMemory, cfg.Sink.Type)
	assert.Len(t, cfg.Source.Records, 1)
	require.NotNil(t, cfg.Binning)
	assert.Equal(t, 9, cfg.Binning.PT.Bins)
	assert.Equal(t, 28, cfg.Binning.ZVtx.Bins)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CUTBRICK_LOG_LEVEL", "warn")
	t.Setenv("CUTBRICK_SOURCE", "memory")
	cfg, err := LoadString(`{"source": {"type": "kafka"}, "cuts": [{"field": "pt", "expr": "pt{a=th(0.2)}"}]}`, "json")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, SourceMemory, cfg.Source.Type)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"no cuts":           `{"source": {"type": "memory"}}`,
		"unknown source":    `{"source": {"type": "csv"}, "cuts": [{"field": "pt", "expr": "pt{a=th(0.2)}"}]}`,
		"mysql no config":   `{"source": {"type": "mysql", "query": "SELECT 1"}, "cuts": [{"field": "pt", "expr": "pt{a=th(0.2)}"}]}`,
		"redis no config":   `{"source": {"type": "memory"}, "sink": {"type": "redis"}, "cuts": [{"field": "pt", "expr": "pt{a=th(0.2)}"}]}`,
		"bad log level":     `{"log": {"level": "loud"}, "source": {"type": "memory"}, "cuts": [{"field": "pt", "expr": "pt{a=th(0.2)}"}]}`,
		"unknown key":       `{"source": {"type": "memory"}, "colour": "red", "cuts": [{"field": "pt", "expr": "pt{a=th(0.2)}"}]}`,
		"cut without field": `{"source": {"type": "memory"}, "cuts": [{"expr": "pt{a=th(0.2)}"}]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadString(content, "json")
			assert.Error(t, err)
		})
	}
	_, err := LoadString("a = 1", "ini")
	assert.Error(t, err)
	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
