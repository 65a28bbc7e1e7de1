package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// resetViper clears global viper state between tests: NewRootCommand's PreRunE binds flags
// into the global viper instance, and a stale binding from a previous test would otherwise
// leak into the next command's Execute.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func writeArtifactFiles(t *testing.T, dir string) (targetURI string) {
	t.Helper()
	target := filepath.Join(dir, "target.log")
	require.NoError(t, os.WriteFile(target, []byte("keep this\ndrop this"), 0o644))
	ref := filepath.Join(dir, "ref.log")
	require.NoError(t, os.WriteFile(ref, []byte("drop this"), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "artifacts:\n" +
		"  - alias: job\n" +
		"    target: file://" + target + "\n" +
		"    reference:\n" +
		"      - file://" + ref + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func TestRunWithConfigFlagProducesBracketedOutput(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	cfgPath := writeArtifactFiles(t, dir)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath})

	require.NoError(t, root.Execute())

	got := out.String()
	require.Contains(t, got, "--- begin job ---")
	require.Contains(t, got, "keep this")
	require.NotContains(t, got, "drop this")
	require.Contains(t, got, "--- end job ---")
}

func TestRunWithNoLinesOmitsLineNumbers(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	cfgPath := writeArtifactFiles(t, dir)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", cfgPath, "--no-lines"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "\nkeep this\n")
}

func TestRunWithoutConfigOrStdinIsUsageError(t *testing.T) {
	resetViper(t)
	root := NewRootCommand()
	root.SetArgs([]string{})

	err := root.Execute()
	require.Error(t, err)
}

func TestRunWithStdinReadsConfigFromStandardInput(t *testing.T) {
	resetViper(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "target.log")
	require.NoError(t, os.WriteFile(target, []byte("only line"), 0o644))

	cfg := "artifacts:\n  - alias: job\n    target: file://" + target + "\n"

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(bytes.NewBufferString(cfg))
	root.SetArgs([]string{"--stdin"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "only line")
}
