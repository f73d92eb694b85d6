package session

import (
	"context"
	"testing"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	var s Selector

	_, idx, ok := s.Current()
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
	assert.ErrorIs(t, s.Select(0), ErrNoSuchProposal)

	s.Set(analysisWith(9))
	require.Equal(t, 4, s.Len())
	_, idx, ok = s.Current()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	require.NoError(t, s.Select(2))
	p, idx, _ := s.Current()
	assert.Equal(t, 2, idx)
	assert.Equal(t, []int{1}, p.DropIDs())

	assert.ErrorIs(t, s.Select(-1), ErrNoSuchProposal)
	assert.ErrorIs(t, s.Select(4), ErrNoSuchProposal)
	_, idx, _ = s.Current()
	assert.Equal(t, 2, idx, "failed select keeps the previous choice")

	s.Set(&models.AnalysisResult{})
	_, _, ok = s.Current()
	assert.False(t, ok, "no proposals")

	s.Set(analysisWith(9))
	s.Reset()
	assert.Equal(t, 0, s.Len())
}

func TestPanelTracker(t *testing.T) {
	var pt panelTracker
	ctx := context.Background()

	c1, t1 := pt.begin(ctx, PanelCoverage)
	_, a1 := pt.begin(ctx, PanelAnalysis)
	assert.True(t, pt.current(t1))

	c2, t2 := pt.begin(ctx, PanelCoverage)
	assert.False(t, pt.current(t1))
	assert.True(t, pt.current(t2))
	assert.ErrorIs(t, c1.Err(), context.Canceled)
	assert.NoError(t, c2.Err())
	assert.True(t, pt.current(a1), "panels are independent")

	pt.finish(t2)
	assert.ErrorIs(t, c2.Err(), context.Canceled, "finish releases the context")
	assert.True(t, pt.current(t2))

	pt.cancelAll()
	assert.False(t, pt.current(t2))
	assert.False(t, pt.current(a1))
	assert.Equal(t, "derived", PanelDerived.String())
}
