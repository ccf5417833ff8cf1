package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	s := NewStore(Seed())

	p, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Classic White T-Shirt", p.Name)

	_, err = s.Get(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	s := NewStore(Seed())

	assert.Len(t, s.Search("", ""), 6)
	assert.Len(t, s.Search("", "All"), 6)
	assert.Len(t, s.Search("", "Electronics"), 2)

	got := s.Search("bottle", "")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)

	// Matches descriptions too, case-insensitively.
	got = s.Search("NOISE", "Electronics")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	assert.Empty(t, s.Search("bottle", "Clothing"))
}

func TestCategories(t *testing.T) {
	s := NewStore(Seed())
	assert.Equal(t, []string{"Accessories", "Clothing", "Electronics", "Footwear", "Home"}, s.Categories())
}

func TestDecrementStock(t *testing.T) {
	s := NewStore(Seed())

	require.NoError(t, s.DecrementStock(1, 5))
	p, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 20, p.Stock)

	assert.Error(t, s.DecrementStock(1, 21))
	assert.Equal(t, 20, p.Stock)

	assert.ErrorIs(t, s.DecrementStock(99, 1), ErrNotFound)
}
