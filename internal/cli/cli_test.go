package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/heysubinoy/kv/internal/logger"
	"github.com/heysubinoy/kv/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// setupCLI isolates config lookups and returns a store file path.
func setupCLI(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("KV_FILE", "")
	t.Setenv("KV_LOG_LEVEL", "")
	t.Setenv("KV_LOG_FORMAT", "")
	return filepath.Join(dir, "kv.txt")
}

func run(t *testing.T, file string, args ...string) (string, error) {
	t.Helper()

	cmd, e := newRootCmd("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--file", file}, args...))

	err := execute(cmd, e)
	return out.String(), err
}

func TestSetGet(t *testing.T) {
	file := setupCLI(t)

	out, err := run(t, file, "set", "name", "gopher")
	require.NoError(t, err)
	assert.Equal(t, "Key \"name\" set to value \"gopher\".\n", out)

	out, err = run(t, file, "get", "name")
	require.NoError(t, err)
	assert.Equal(t, "gopher\n", out)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "name:gopher\n", string(data))
}

func TestGetMissing(t *testing.T) {
	file := setupCLI(t)

	_, err := run(t, file, "get", "missing")
	require.Error(t, err)
	assert.True(t, kv.IsNotFound(err))
	assert.Equal(t, `Key "missing" not found.`, err.Error())
	assert.Equal(t, ExitFailure, ExitCode(err))
}

func TestListLastValueWins(t *testing.T) {
	file := setupCLI(t)

	for _, args := range [][]string{{"set", "a", "1"}, {"set", "b", "2"}, {"set", "a", "3"}} {
		_, err := run(t, file, args...)
		require.NoError(t, err)
	}

	out, err := run(t, file, "list")
	require.NoError(t, err)
	assert.Equal(t, "a -> 3\nb -> 2\n", out)
}

func TestListEmpty(t *testing.T) {
	file := setupCLI(t)

	out, err := run(t, file, "list")
	require.NoError(t, err)
	assert.Equal(t, "No keys found.\n", out)
}

func TestListStructuredOutput(t *testing.T) {
	file := setupCLI(t)
	_, err := run(t, file, "set", "b", "2")
	require.NoError(t, err)
	_, err = run(t, file, "set", "a", "x:y")
	require.NoError(t, err)

	out, err := run(t, file, "list", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":"2","a":"x:y"}`, out)
	assert.Less(t, strings.Index(out, `"b"`), strings.Index(out, `"a"`))

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "2", decoded["b"])

	out, err = run(t, file, "list", "--output", "yaml")
	require.NoError(t, err)
	var fromYAML map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, map[string]string{"a": "x:y", "b": "2"}, fromYAML)
	assert.Less(t, strings.Index(out, "b:"), strings.Index(out, "a:"))

	_, err = run(t, file, "list", "-o", "xml")
	assert.True(t, kv.IsInvalidArgument(err))
}

func TestDelete(t *testing.T) {
	file := setupCLI(t)
	_, err := run(t, file, "set", "a", "1")
	require.NoError(t, err)

	out, err := run(t, file, "delete", "a")
	require.NoError(t, err)
	assert.Equal(t, "Deleted key \"a\".\n", out)

	_, err = run(t, file, "delete", "a")
	assert.True(t, kv.IsNotFound(err))
	assert.NotEqual(t, ExitOK, ExitCode(err))
}

func TestSetNoOverwrite(t *testing.T) {
	file := setupCLI(t)
	_, err := run(t, file, "set", "a", "1")
	require.NoError(t, err)

	_, err = run(t, file, "set", "--no-overwrite", "a", "2")
	assert.True(t, kv.IsAlreadyExists(err))

	out, err := run(t, file, "get", "a")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	_, err = run(t, file, "set", "-n", "b", "2")
	require.NoError(t, err)
}

func TestBadArguments(t *testing.T) {
	file := setupCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "get without key", args: []string{"get"}},
		{name: "set without value", args: []string{"set", "a"}},
		{name: "delete with extra args", args: []string{"delete", "a", "b"}},
		{name: "list with args", args: []string{"list", "x"}},
		{name: "unknown flag", args: []string{"get", "--bogus", "a"}},
		{name: "unknown command", args: []string{"fetch"}},
		{name: "key with colon", args: []string{"set", "a:b", "1"}},
		{name: "value with newline", args: []string{"set", "a", "1\n2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, file, tt.args...)
			require.Error(t, err)
			assert.True(t, kv.IsInvalidArgument(err), "got %v", err)
			assert.Equal(t, ExitUsage, ExitCode(err))
		})
	}
}

func TestIOFailure(t *testing.T) {
	file := setupCLI(t)
	require.NoError(t, os.WriteFile(file, []byte("garbage\n"), 0644))

	_, err := run(t, file, "list")
	require.Error(t, err)
	assert.Equal(t, ExitIO, ExitCode(err))
}

func TestVersionAndHelp(t *testing.T) {
	file := setupCLI(t)

	out, err := run(t, file, "--version")
	require.NoError(t, err)
	assert.Equal(t, "kv version 1.2.3\n", out)

	out, err = run(t, file, "help")
	require.NoError(t, err)
	for _, name := range []string{"get", "set", "delete", "list"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "complete-keys")

	// help never creates the store file
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestCompleteCommands(t *testing.T) {
	file := setupCLI(t)

	out, err := run(t, file, "complete-commands")
	require.NoError(t, err)
	assert.Contains(t, out, "get:Gets the value for a given key.\n")
	assert.Contains(t, out, "list:Lists all key:value pairs.\n")
	assert.NotContains(t, out, "complete-keys")

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		name, _, _ := strings.Cut(line, ":")
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"delete", "get", "list", "set"}, names)
}

func TestMetricsLoggedOnFailure(t *testing.T) {
	file := setupCLI(t)
	var logs bytes.Buffer
	logger.Log.SetOutput(&logs)
	t.Cleanup(func() {
		logger.Log.SetOutput(os.Stderr)
		_ = logger.Configure("warn", "text")
	})

	_, err := run(t, file, "--verbose", "get", "missing")
	require.True(t, kv.IsNotFound(err))

	assert.Contains(t, logs.String(), `msg="store metrics"`)
	assert.Contains(t, logs.String(), "errors=1")
	assert.Contains(t, logs.String(), "get_count=1")
}

func TestCompleteKeys(t *testing.T) {
	file := setupCLI(t)
	_, err := run(t, file, "set", "alpha", "1")
	require.NoError(t, err)
	_, err = run(t, file, "set", "beta", "2")
	require.NoError(t, err)

	out, err := run(t, file, "complete-keys")
	require.NoError(t, err)
	assert.Equal(t, "alpha:1\nbeta:2\n", out)

	out, err = run(t, file, "__complete", "get", "al")
	require.NoError(t, err)
	assert.Contains(t, out, "alpha\t1")
	assert.NotContains(t, out, "beta")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	setupCLI(t)
	storeFile := filepath.Join(dir, "from-config.txt")
	configFile := filepath.Join(dir, "kv.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("file: "+storeFile+"\n"), 0644))

	cmd := NewRootCmd("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", configFile, "set", "a", "1"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(storeFile)
	require.NoError(t, err)
	assert.Equal(t, "a:1\n", string(data))

	cmd = NewRootCmd("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), "list"})
	err = cmd.Execute()
	assert.True(t, kv.IsInvalidArgument(err))
}
