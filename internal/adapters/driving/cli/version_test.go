package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	out, err := execute("version")

	assert.NoError(t, err)
	assert.Contains(t, out, "mailfts version dev")
}
