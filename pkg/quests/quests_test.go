package quests

import (
	"testing"

	"github.com/jwebster45206/quest-helper/pkg/items"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_AllValid(t *testing.T) {
	all := Builtin(items.Default())
	require.NotEmpty(t, all)

	for id, q := range all {
		assert.Equal(t, id, q.ID)
		assert.NoError(t, q.Validate(), "quest %s", id)
	}
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{"tribal_totem"}, IDs(items.Default()))
}
