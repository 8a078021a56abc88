package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCancelled runs args with an already cancelled context so that
// long-running commands return immediately.
func executeCancelled(args ...string) (string, error) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func TestServeCmd_StartsAndStops(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCancelled("serve")

	require.NoError(t, err)
	assert.Contains(t, out, "Background updates running.")
	assert.True(t, ts.scheduler.started)
	assert.True(t, ts.scheduler.stopped)
	assert.Equal(t, 1, ts.watcher.starts)
	assert.Equal(t, 1, ts.watcher.closes)
}

func TestWatchCmd_StartsAndCloses(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCancelled("watch")

	require.NoError(t, err)
	assert.Contains(t, out, "Watching for content changes.")
	assert.Equal(t, 1, ts.watcher.starts)
	assert.Equal(t, 1, ts.watcher.closes)
}

func TestServeCmd_NotConfigured(t *testing.T) {
	_, err := executeCancelled("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduler not configured")

	_, err = executeCancelled("watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watcher not configured")
}

func TestMCPServeCmd_HasPortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "port flag should exist")
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)

	host := mcpServeCmd.Flags().Lookup("host")
	require.NotNil(t, host)
	assert.Equal(t, "localhost", host.DefValue)
}

func TestMCPServeCmd_RequiresServices(t *testing.T) {
	_, err := executeCancelled("mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalogue service is required")
}
