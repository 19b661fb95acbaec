package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestConsensusCommand(t *testing.T) {
	out := run(t, "consensus", "yes", "yes", "no")
	require.Equal(t, "0\t1\n1\t1\n2\t0.3333333333333333\n", out)
}

func TestConsensusCommandByMiner(t *testing.T) {
	out := run(t, "consensus", "--miners", "9,4", "a", "b")
	require.Equal(t, "9\t1\n4\t1\n", out)
	consensusMiners = nil
}

func TestScoreOffline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.yaml")
	content := "" +
		"---\n" +
		"id: r7\n" +
		"tag: tao\n" +
		"---\n" +
		"- - id: \"1\"\n" +
		"    url: https://x.com/a/status/1\n" +
		"    text: tao rises\n" +
		"    timestamp: \"2024-03-01T10:00:00Z\"\n" +
		"- []\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out := run(t, "score", "--offline", path)
	var got scoreOutput
	require.NoError(t, yaml.Unmarshal([]byte(out[strings.Index(out, "round:"):]), &got))
	require.Equal(t, "r7", got.Round)
	require.Equal(t, "tao", got.Tag)
	require.Equal(t, []float64{0, 0}, got.Weights)
	require.Equal(t, []bool{false, true}, got.Metrics.Empty)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "json", map[string]int{"a": 1}))
	require.JSONEq(t, `{"a":1}`, buf.String())
	require.Error(t, writeOutput(&buf, "toml", nil))
}

func TestMinerID(t *testing.T) {
	require.Equal(t, 7, minerID([]int{7, 8}, 0))
	require.Equal(t, 3, minerID(nil, 3))
}

func TestConsensusCommandDuplicateMiner(t *testing.T) {
	defer func() { consensusMiners = nil }()
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"consensus", "--miners", "3,3", "a", "b"})
	require.ErrorContains(t, rootCmd.Execute(), "listed twice")
}
