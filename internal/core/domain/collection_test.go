package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseCollection_Known tests parsing of every known collection name
func TestParseCollection_Known(t *testing.T) {
	tests := []struct {
		name     string
		expected Collection
	}{
		{"email", CollectionEmail},
		{"contact", CollectionContact},
		{"calendar", CollectionCalendar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCollection(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
			assert.True(t, c.Valid())
			assert.Equal(t, tt.name, c.String())
		})
	}
}

// TestParseCollection_Unknown tests rejection of unknown names at the boundary
func TestParseCollection_Unknown(t *testing.T) {
	for _, name := range []string{"", "mail", "EMAIL", "event"} {
		t.Run("name="+name, func(t *testing.T) {
			_, err := ParseCollection(name)
			assert.ErrorIs(t, err, ErrUnknownCollection)
		})
	}
}

// TestCollection_IndexName tests the fixed collection to index table
func TestCollection_IndexName(t *testing.T) {
	assert.Equal(t, "fts-email", CollectionEmail.IndexName())
	assert.Equal(t, "fts-contact", CollectionContact.IndexName())
	assert.Equal(t, "fts-calendar", CollectionCalendar.IndexName())
}

// TestCollection_IndexName_Invalid tests that out-of-range values resolve to nothing
func TestCollection_IndexName_Invalid(t *testing.T) {
	c := Collection(99)
	assert.False(t, c.Valid())
	assert.Equal(t, "", c.IndexName())
	assert.Equal(t, "unknown", c.String())
}

// TestAllIndexNames tests that account-wide removal spans every index
func TestAllIndexNames(t *testing.T) {
	names := AllIndexNames()
	assert.Equal(t, []string{"fts-email", "fts-contact", "fts-calendar"}, names)

	// Returned slice is a copy; mutating it must not touch the table.
	names[0] = "mutated"
	assert.Equal(t, "fts-email", CollectionEmail.IndexName())
}

// TestIDList_Enumerate tests the slice-backed document id set
func TestIDList_Enumerate(t *testing.T) {
	assert.Equal(t, []uint32{5, 9}, IDList{5, 9}.Enumerate())
	assert.Empty(t, IDList{}.Enumerate())
	assert.Nil(t, IDList(nil).Enumerate())
}
