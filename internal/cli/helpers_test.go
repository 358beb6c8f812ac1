package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// newTestRoot builds a root command with fresh flags so tests don't share
// parse state with rootCmd.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "mxtop",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dashboardCommand(cmd)
		},
	}
	addRootFlags(root, &RootFlags{})
	root.AddCommand(newConfigCmd())
	return root
}

// execute runs root with args and returns stdout and stderr.
func execute(t *testing.T, root *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

// isolate points HOME at an empty directory and clears MXTOP_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"MXTOP_TIMEOUT", "MXTOP_BUFFER", "MXTOP_PLAIN", "MXTOP_DEBUG", "MXTOP_SAMPLER_PATH", "MXTOP_LOG_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

// asRoot makes the privilege check pass for one test.
func asRoot(t *testing.T) {
	t.Helper()
	orig := euid
	euid = func() int { return 0 }
	t.Cleanup(func() { euid = orig })
}

// fakeSampler writes an executable shell script standing in for
// powermetrics.
func fakeSampler(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake sampler needs /bin/sh")
	}
	path := filepath.Join(t.TempDir(), "powermetrics")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// twoSamples prints two NUL-terminated samples and exits.
const twoSamples = `printf '{"gpu":{"idle_ratio":0.25}}\000{"gpu":{"idle_ratio":0.9}}\000'`
