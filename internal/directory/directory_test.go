package directory

import (
	"testing"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool() []models.Player {
	return []models.Player{
		{ID: 3, Name: "Nikola Jokic", Positions: models.NewPositions(models.Center), Salary: decimal.NewFromFloat(19.5)},
		{ID: 1, Name: "Stephen Curry", Positions: models.NewPositions(models.Guard), Salary: decimal.NewFromFloat(17)},
		{ID: 2, Name: "LeBron James", Positions: models.NewPositions(models.Guard, models.Forward), Salary: decimal.NewFromFloat(18)},
		{ID: 4, Name: "Seth Curry", Positions: models.NewPositions(models.Guard), Salary: decimal.NewFromFloat(5)},
		{ID: 1, Name: "Duplicate Id", Positions: models.NewPositions(models.Guard)},
	}
}

func TestIndex_LookupAndGet(t *testing.T) {
	idx := NewIndex(pool())
	assert.Equal(t, 4, idx.Len())

	p, ok := idx.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, "LeBron James", p.Name)

	p, err := idx.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Stephen Curry", p.Name, "first record for an id wins")

	_, err = idx.Get(99)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestIndex_ByGroup(t *testing.T) {
	idx := NewIndex(pool())

	var bc []int
	for _, p := range idx.ByGroup(roster.Backcourt) {
		bc = append(bc, p.ID)
	}
	assert.Equal(t, []int{2, 1, 4}, bc)

	var fc []int
	for _, p := range idx.ByGroup(roster.Frontcourt) {
		fc = append(fc, p.ID)
	}
	assert.Equal(t, []int{3, 2}, fc)
}

func TestIndex_Search(t *testing.T) {
	idx := NewIndex(pool())

	got := idx.Search("curry", nil, 0)
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []int{1, 4}, []int{got[0].ID, got[1].ID})

	fc := roster.Frontcourt
	assert.Empty(t, idx.Search("curry", &fc, 0))

	got = idx.Search("", &fc, 1)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestIndex_FindByName(t *testing.T) {
	idx := NewIndex(pool())

	p, err := idx.FindByName("nikola jokic")
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)

	p, err = idx.FindByName("Lebron Jamse")
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)

	_, err = idx.FindByName("Zzzzzz Qqqqq")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}
