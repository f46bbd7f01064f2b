package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagListValue(t *testing.T) {
	v, err := TagList{"Go", "Notes"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Go","Notes"]`, v)

	v, err = TagList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestTagListScan(t *testing.T) {
	cases := []struct {
		name string
		in   interface{}
		want TagList
	}{
		{"json", []byte(`["a","b"]`), TagList{"a", "b"}},
		{"nil", nil, TagList{}},
		{"null", "null", TagList{}},
		{"comma separated", "go, productivity ,", TagList{"go", "productivity"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got TagList
			require.NoError(t, got.Scan(tc.in))
			assert.Equal(t, tc.want, got)
		})
	}

	var got TagList
	assert.Error(t, got.Scan(42))
}

func TestBeforeCreateAssignsID(t *testing.T) {
	n := &NoteModel{}
	require.NoError(t, n.BeforeCreate(nil))
	assert.Len(t, n.ID, 36)

	n = &NoteModel{Base: Base{ID: "fixed"}}
	require.NoError(t, n.BeforeCreate(nil))
	assert.Equal(t, "fixed", n.ID)
}
