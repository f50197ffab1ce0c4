package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadstone/threadstone/harness"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return stdout.String(), err
}

func TestSchemaCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "schema")
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Contains(t, v, "properties")

	_, err = execute(t, "schema", "-o", "tmp.schema.json")
	require.NoError(t, err)

	written, err := os.ReadFile("tmp.schema.json")
	require.NoError(t, err)
	assert.Contains(t, string(written), `"$schema"`)
}

func TestRunSignVerifyRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "keygen", "--dir", "keys")
	require.NoError(t, err)

	_, err = execute(t, "run", "-w", "stream", "-t", "1", "-s", "2",
		"--stream-size", "256", "--stream-iterations", "2",
		"--sign", "-o", "result.json")
	require.NoError(t, err)

	res, err := harness.ReadResultFile("result.json")
	require.NoError(t, err)
	assert.Equal(t, "stream", res.Workload)
	assert.Equal(t, 1, res.Threads)
	assert.Len(t, res.Values, 2)
	assert.NotEmpty(t, res.Signature)

	out, err := execute(t, "verify", "result.json")
	require.NoError(t, err)
	assert.Contains(t, out, "signature OK")

	res.Values[0] *= 2
	require.NoError(t, res.WriteFile("tampered.json"))

	_, err = execute(t, "verify", "tampered.json")
	require.Error(t, err)
}

func TestRunPrintsJSONToStdout(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "run", "-w", "stream", "-t", "2", "-s", "1",
		"--stream-size", "64", "--stream-iterations", "1")
	require.NoError(t, err)

	res, err := harness.ReadResult(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, "MB/s", res.Unit)
	assert.Empty(t, res.Signature)
}

func TestRunUsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "threadstone.toml"), []byte(`
[run]
workload = "stream"
threads = 1
samples = 3

[stream]
size = 32
iterations = 1
`), 0o644))

	out, err := execute(t, "run", "-s", "2")
	require.NoError(t, err)

	res, err := harness.ReadResult(bytes.NewBufferString(out))
	require.NoError(t, err)
	assert.Equal(t, "stream", res.Workload)
	assert.Equal(t, 2, res.Samples, "flag overrides config")
	assert.Equal(t, 1, res.Threads, "config overrides default")
}

func TestRunRejectsBadInput(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := [][]string{
		{"run", "-w", "sgemm"},
		{"run", "-s", "0"},
		{"run", "-t", "-2"},
		{"run", "--format", "xml"},
		{"run", "-w", "stream", "--stream-size", "64", "--stream-iterations", "1",
			"-s", "1", "--sign", "--key", "missing.key"},
		{"--log-level", "loud", "schema"},
	}

	for _, args := range tests {
		_, err := execute(t, args...)
		assert.Error(t, err, "args %v", args)
	}
}

func TestReportCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, name := range []string{"a.json", "b.json"} {
		_, err := execute(t, "run", "-w", "stream", "-t", "1", "-s", "1",
			"--stream-size", "64", "--stream-iterations", "1", "-o", name)
		require.NoError(t, err)
	}

	out, err := execute(t, "report", "a.json", "b.json")
	require.NoError(t, err)
	assert.Contains(t, out, "## Benchmark Results")
	assert.NotContains(t, out, "MISMATCH")

	out, err = execute(t, "report", "--json", "a.json")
	require.NoError(t, err)

	var parsed []harness.Result
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Len(t, parsed, 1)
}

func TestUploadRequiresEndpoint(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "run", "-w", "stream", "-t", "1", "-s", "1",
		"--stream-size", "64", "--stream-iterations", "1", "-o", "r.json")
	require.NoError(t, err)

	_, err = execute(t, "upload", "r.json")
	require.Error(t, err)
}

func TestBrokenConfigOnlyAffectsConfiguredCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "threadstone.toml"),
		[]byte("[run\nthreads = \n"), 0o644))

	_, err := execute(t, "schema")
	require.NoError(t, err)

	_, err = execute(t, "keygen", "--dir", "keys")
	require.NoError(t, err)

	_, err = execute(t, "run", "-w", "stream", "-s", "1")
	require.ErrorContains(t, err, "load config")

	_, err = execute(t, "verify", "result.json")
	require.ErrorContains(t, err, "load config")
}

func TestRunRejectsFormatWithOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := execute(t, "run", "-w", "stream", "-s", "1",
		"--stream-size", "64", "--stream-iterations", "1",
		"-o", "result.json", "--format", "markdown")
	require.ErrorContains(t, err, "--format")

	_, err = os.Stat("result.json")
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "threadstone.toml"),
		[]byte("[run]\noutput = \"from-config.json\"\n"), 0o644))

	_, err = execute(t, "run", "-w", "stream", "-s", "1",
		"--stream-size", "64", "--stream-iterations", "1", "--format", "json")
	require.ErrorContains(t, err, "--format")
}
