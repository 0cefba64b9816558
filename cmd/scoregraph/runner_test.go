package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-scoregraph/pkg/config"
	"github.com/dd0wney/cluso-scoregraph/pkg/logging"
)

func newTestRunner(t *testing.T, variant string) (*runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = variant
	eng, err := newEngine(cfg, logging.NewNopLogger(), nil)
	require.NoError(t, err)
	var out bytes.Buffer
	return newRunner(eng, &out, logging.NewNopLogger()), &out
}

func TestRunnerBuildsGraph(t *testing.T) {
	r, out := newTestRunner(t, "forest")
	script := `
# two connected nodes and one isolated
node 1 10
node 2 20
node 3 5
edge 1 2
score 1
score 3
scores
stats
check
`
	failures, err := r.run(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 0, failures, out.String())

	got := out.String()
	assert.Contains(t, got, "node 1 added (base 10)")
	assert.Contains(t, got, "score 1 = 100")
	assert.Contains(t, got, "score 3 = 5")
	assert.Contains(t, got, "NEIGHBORS")
	assert.Contains(t, got, "recalculations")
	assert.Contains(t, got, "consistent")
}

func TestRunnerContinuesAfterFailures(t *testing.T) {
	r, out := newTestRunner(t, "forest")
	script := strings.Join([]string{
		"node 1 1",
		"node 2 1",
		"node 3 1",
		"edge 1 2",
		"edge 2 3",
		"edge 3 1", // closes a cycle
		"edge 1 1", // self-loop
		"score 9",  // missing
		"node x 1", // bad id
		"frobnicate",
		"recalc", // forest has no full recalculation
		"score 3",
	}, "\n")

	failures, err := r.run(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 6, failures)

	got := out.String()
	assert.Contains(t, got, "line 6: edge 3 1:")
	assert.Contains(t, got, "cycle")
	assert.Contains(t, got, "line 7: edge 1 1:")
	assert.Contains(t, got, `invalid node id "x"`)
	assert.Contains(t, got, `unknown command "frobnicate"`)
	assert.Contains(t, got, "forest graphs recalculate on every mutation")
	assert.Contains(t, got, "score 3 =")
}

func TestRunnerUsageErrors(t *testing.T) {
	r, _ := newTestRunner(t, "general")
	for _, line := range []string{"node 1", "edge 1", "unedge", "rm", "base 1", "score"} {
		err := r.exec(line)
		require.Error(t, err, line)
		assert.ErrorIs(t, err, errUsage, line)
	}
}

func TestRunnerGeneralRecalc(t *testing.T) {
	r, out := newTestRunner(t, "general")
	script := `
node 1 10
node 2 10
node 3 10
edge 1 2
edge 2 3
edge 3 1
recalc
check
`
	failures, err := r.run(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 0, failures, out.String())
	assert.Contains(t, out.String(), "recalc: visited 3, updated 0")
}

func TestRunnerRemoval(t *testing.T) {
	r, out := newTestRunner(t, "forest")
	script := `
node 1 4
node 2 6
edge 1 2
unedge 1 2
score 1
rm 2
score 2
edge 1 1
`
	failures, err := r.run(strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 2, failures)
	assert.Contains(t, out.String(), "score 1 = 4")
	assert.Contains(t, out.String(), "line 8: score 2:")
}

func TestRunExitStatus(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		script string
		want   int
	}{
		{"clean script", nil, "node 1 1\nnode 2 2\nedge 1 2\n", 0},
		{"failed line", nil, "node 1 1\nnode 1 1\n", 1},
		{"bad flag", []string{"--no-such-flag"}, "", 2},
		{"invalid config", []string{"--max-iterations", "0"}, "", 2},
		{"help", []string{"--help"}, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			got := run(tt.args, strings.NewReader(tt.script), &stdout, &stderr)
			assert.Equal(t, tt.want, got, "stdout=%s stderr=%s", stdout.String(), stderr.String())
		})
	}
}

func TestRunScriptFileWithMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.txt")
	require.NoError(t, os.WriteFile(path, []byte("node 1 1\nnode 2 2\nedge 1 2\n"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--variant", "general", "--metrics", path}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "scoregraph_recalculations_total")
	assert.Contains(t, stdout.String(), `variant="general"`)
	assert.Contains(t, stdout.String(), "scoregraph_nodes_total 2")
}

func TestRunMissingScript(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{filepath.Join(t.TempDir(), "absent")}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr.String(), "failed to open script")
}
