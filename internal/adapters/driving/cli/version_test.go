package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/architips/internal/logger"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	out, err := executeCommand("version")

	assert.NoError(t, err)
	assert.Equal(t, "architips version dev\n", out)
}

func TestSetVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("1.4.0")
	assert.Equal(t, "1.4.0", version)

	SetVersion("")
	assert.Equal(t, "1.4.0", version)
}

func TestVersionCmd_VerboseShowsRuntime(t *testing.T) {
	defer func() {
		verbose = false
		logger.SetVerbose(false)
	}()

	out, err := executeCommand("version", "--verbose")

	assert.NoError(t, err)
	assert.Contains(t, out, "architips version dev\n")
	assert.Contains(t, out, "go go1.")
}
