package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerShowCmd(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("ledger", "show")

	require.NoError(t, err)
	assert.Regexp(t, `Kitchen\s+unlocked\s+ads=2`, out)
	assert.Regexp(t, `Living Room\s+locked\s+ads=1`, out)
}

func TestLedgerResetCmd_Force(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer func() { ledgerResetForce = false }()

	out, err := executeCommand("ledger", "reset", "--force")

	require.NoError(t, err)
	assert.Contains(t, out, "Unlock state cleared.")
	assert.Equal(t, 1, ts.ledger.resets)
}

func TestLedgerResetCmd_Confirmation(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		resets int
		output string
	}{
		{"confirmed", "y\n", 1, "Unlock state cleared."},
		{"declined", "n\n", 0, "Cancelled."},
		{"no input", "", 0, "Cancelled."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, cleanup := setupTestServices()
			defer cleanup()
			rootCmd.SetIn(strings.NewReader(tt.input))
			defer rootCmd.SetIn(nil)

			out, err := executeCommand("ledger", "reset")

			require.NoError(t, err)
			assert.Contains(t, out, tt.output)
			assert.Equal(t, tt.resets, ts.ledger.resets)
		})
	}
}

func TestLedgerCmd_ServiceNotConfigured(t *testing.T) {
	_, err := executeCommand("ledger", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger service not configured")
}
