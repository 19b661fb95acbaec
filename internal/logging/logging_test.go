package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l, err := Setup(&buf, "warn", "json")
	require.NoError(t, err)
	l.Info("hidden")
	slog.Warn("shown", "miner", 3)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"miner":3`)

	_, err = Setup(&buf, "loud", "text")
	require.Error(t, err)
	_, err = Setup(&buf, "info", "xml")
	require.Error(t, err)
}
