package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status [account-id]", statusCmd.Use)
}

func TestStatusCmd_ShowsMailboxes(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("status", "7")

	assert.NoError(t, err)
	assert.Contains(t, out, "INBOX")
	assert.Contains(t, out, "UIDVALIDITY: 100")
	assert.Contains(t, out, "Last UID:    42")
	assert.Contains(t, out, "Total: 1 mailboxes")
}

func TestStatusCmd_NeverSynced(t *testing.T) {
	_, sync, cleanup := setupTestServices()
	defer cleanup()
	sync.states = nil

	out, err := execute("status", "9")

	assert.NoError(t, err)
	assert.Contains(t, out, "Account 9 has never been synchronised.")
}
