package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPreservesOrder(t *testing.T) {
	all := All()
	require.Len(t, all, 6)
	assert.Equal(t, "purchases", all[0].Key)
	assert.Equal(t, "food", all[1].Key)
	assert.Equal(t, "studies", all[5].Key)
}

func TestAllReturnsACopy(t *testing.T) {
	all := All()
	all[0].Key = "mutated"
	assert.Equal(t, "purchases", All()[0].Key)
}

func TestLookup(t *testing.T) {
	c, ok := Lookup("food")
	require.True(t, ok)
	assert.Equal(t, "Alimentação", c.Name)
	assert.Equal(t, "#FF872C", c.Color)

	_, ok = Lookup("nonexistent")
	assert.False(t, ok)
}

func TestIsChosen(t *testing.T) {
	assert.True(t, IsChosen("food"))
	assert.False(t, IsChosen(""))
	assert.False(t, IsChosen(Unset))
}
