package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	cases := []struct {
		name    string
		entries []Entry
	}{
		{"empty", nil},
		{"missing title", []Entry{{ID: "a", Action: "A"}}},
		{"missing action", []Entry{{ID: "a", Title: "Do a"}}},
		{"duplicate id", []Entry{
			{ID: "a", Title: "Do a", Action: "A"},
			{ID: "a", Title: "Do a again", Action: "A2"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.entries)
			assert.Error(t, err)
		})
	}
}

func TestDrawWithoutReplacement(t *testing.T) {
	c, err := New([]Entry{
		{ID: "a", Title: "Do a", Action: "A"},
		{ID: "b", Title: "Do b", Action: "B"},
		{ID: "c", Title: "Do c", Action: "C"},
		{ID: "d", Title: "Do d", Action: "D"},
	})
	require.NoError(t, err)

	drawn := c.Draw(3)
	require.Len(t, drawn, 3)
	seen := make(map[string]bool)
	for _, e := range drawn {
		assert.False(t, seen[e.ID], "entry %s drawn twice", e.ID)
		seen[e.ID] = true
	}

	// over-asking clamps to the pool size
	assert.Len(t, c.Draw(10), 4)
	assert.Nil(t, c.Draw(0))
}

func TestBuiltin(t *testing.T) {
	c := Builtin()
	assert.GreaterOrEqual(t, c.Len(), 16, "builtin pool too small for an eight-player match")
}
