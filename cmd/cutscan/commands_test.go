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

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckCmd(t *testing.T) {
	out, err := execute(t, "check", "zvtx{nominal=rg(-7,7);narrow=rg(-3,3),wide=rg(-10,10)}", "--value", "5", "--value", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "cut zvtx (length 3, multiple defaults false)")
	assert.Contains(t, out, "default   nominal=rg(-7,7)")
	assert.Contains(t, out, "variation wide=rg(-10,10)")
	assert.Contains(t, out, "value 5: active=true status=101")
	assert.Contains(t, out, "value 12: active=false status=000")

	_, err = execute(t, "check", "zvtx{nominal=rg(7,-7)}")
	assert.Error(t, err)
	_, err = execute(t, "check")
	assert.Error(t, err)
}

const runConfig = `
name = "memory-scan"

[log]
level = "error"

[source]
type = "memory"

[[source.records]]
zvtx = 1.0
pt = 0.5

[[source.records]]
zvtx = 5.0
pt = 0.5

[[source.records]]
zvtx = 8.0
pt = 0.1

[[cuts]]
field = "zvtx"
expr = "zvtx{nominal=rg(-7,7);narrow=rg(-3,3)}"

[[cuts]]
field = "pt"
expr = "pt{min=th(0.2)}"
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cutscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(runConfig), 0o644))
	return path
}

func TestRunCmd(t *testing.T) {
	path := writeConfig(t)

	out, err := execute(t, "run", "--config", path, "--json")
	require.NoError(t, err)
	var summary struct {
		Run       string `json:"run"`
		Processed int64  `json:"processed"`
		Selected  int64  `json:"selected"`
		Cuts      []struct {
			Name   string  `json:"name"`
			Passed int64   `json:"passed"`
			Bits   []int64 `json:"bits"`
		} `json:"cuts"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.NotEmpty(t, summary.Run)
	assert.Equal(t, int64(3), summary.Processed)
	assert.Equal(t, int64(2), summary.Selected)
	require.Len(t, summary.Cuts, 2)
	assert.Equal(t, []int64{2, 1}, summary.Cuts[0].Bits)

	out, err = execute(t, "run", "--config", path, "--variation", "zvtx=narrow")
	require.NoError(t, err)
	assert.Contains(t, out, "processed 3 selected 1 failed 0")

	_, err = execute(t, "run", "--config", path, "--variation", "zvtx=wide")
	assert.Error(t, err)
	_, err = execute(t, "run", "--config", path, "--variation", "zvtx")
	assert.Error(t, err)
	_, err = execute(t, "run")
	assert.Error(t, err)
}
