package roster

import (
	"encoding/json"
	"testing"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(players ...models.Player) func(int) (models.Player, bool) {
	byID := make(map[int]models.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}
	return func(id int) (models.Player, bool) {
		p, ok := byID[id]
		return p, ok
	}
}

func TestEncode_FixedShape(t *testing.T) {
	r := New()
	require.NoError(t, r.Assign(Backcourt, 1, guard(1)))
	require.NoError(t, r.Assign(Frontcourt, 4, center(9)))

	data, err := Encode(r)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Backcourt, 5)
	require.Len(t, doc.Frontcourt, 5)
	assert.Nil(t, doc.Backcourt[0])
	assert.Equal(t, 1, doc.Backcourt[1].ID)
	assert.Equal(t, 9, doc.Frontcourt[4].ID)
	assert.Equal(t, "C", doc.Frontcourt[4].Positions.String())
}

func TestRestore_ResolvesThroughDirectory(t *testing.T) {
	r := fullRoster(t)
	data, err := Encode(r)
	require.NoError(t, err)

	players := append([]models.Player{}, r.Occupants()...)
	restored, err := Restore(data, lookupFrom(players...))
	require.NoError(t, err)
	assert.Equal(t, r.Fingerprint(), restored.Fingerprint())

	p, ok := restored.Slot(Frontcourt, 0)
	require.True(t, ok)
	assert.Equal(t, 11, p.ID)
}

func TestRestore_UnknownIDLeavesSlotEmpty(t *testing.T) {
	doc := `{"backcourt":[{"id":1},{"id":404},null,null,null],"frontcourt":[null,null,null,null,{"id":11}]}`

	restored, err := Restore([]byte(doc), lookupFrom(guard(1), forward(11)))
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())
	_, ok := restored.Slot(Backcourt, 1)
	assert.False(t, ok)
}

func TestRestore_ShortArraysArePadded(t *testing.T) {
	doc := `{"backcourt":[{"id":1}],"frontcourt":[]}`

	restored, err := Restore([]byte(doc), lookupFrom(guard(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Len())
}

func TestRestore_CapabilityChangeLeavesSlotEmpty(t *testing.T) {
	// directory now lists player 1 as a forward
	doc := `{"backcourt":[{"id":1},null,null,null,null],"frontcourt":[null,null,null,null,null]}`

	restored, err := Restore([]byte(doc), lookupFrom(forward(1)))
	require.NoError(t, err)
	assert.Equal(t, 0, restored.Len())
}

func TestRestore_InformationalFieldsAreIgnored(t *testing.T) {
	doc := `{"backcourt":[{"id":1,"positions":"GF","salary":"lots","name":7},null,null,null,null],` +
		`"frontcourt":[{"id":11,"positions":["X"]},null,null,null,null]}`

	restored, err := Restore([]byte(doc), lookupFrom(guard(1), forward(11)))
	require.NoError(t, err)
	assert.Equal(t, 2, restored.Len())

	p, ok := restored.Slot(Backcourt, 0)
	require.True(t, ok)
	assert.Equal(t, guard(1).Positions, p.Positions, "positions come from the directory")
}

func TestRestore_MalformedDiscardsWholeDocument(t *testing.T) {
	cases := map[string]string{
		"id not a number": `{"backcourt":[{"id":"one"}],"frontcourt":[]}`,
		"not json":        `{"backcourt":[`,
		"missing group":   `{"backcourt":[{"id":1}]}`,
		"wrong type":      `{"backcourt":"1,2,3","frontcourt":[]}`,
		"too many slots":  `{"backcourt":[null,null,null,null,null,{"id":1}],"frontcourt":[]}`,
		"top-level list":  `[1,2,3]`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			restored, err := Restore([]byte(doc), lookupFrom(guard(1)))
			assert.ErrorIs(t, err, ErrMalformedDocument)
			require.NotNil(t, restored)
			assert.Equal(t, 0, restored.Len())
		})
	}
}
