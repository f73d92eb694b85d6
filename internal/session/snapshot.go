package session

import (
	"github.com/omarshaarawi/courtside/internal/coverage"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/reconcile"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/shopspring/decimal"
)

// Snapshot is a read-only copy of a session for rendering.
type Snapshot struct {
	Key              string                 `json:"id"`
	GameweekID       int                    `json:"gameweek"`
	Budget           decimal.Decimal        `json:"available_budget"`
	TotalSalary      decimal.Decimal        `json:"total_salary"`
	Backcourt        []*models.Player       `json:"backcourt"`
	Frontcourt       []*models.Player       `json:"frontcourt"`
	Fingerprint      string                 `json:"fingerprint"`
	Coverage         *coverage.Report       `json:"coverage,omitempty"`
	Analysis         *models.AnalysisResult `json:"analysis,omitempty"`
	SelectedProposal int                    `json:"selected_proposal"`
	Comparison       *reconcile.Comparison  `json:"comparison,omitempty"`
}

// Size is the number of filled slots.
func (s Snapshot) Size() int {
	return len(s.Occupants())
}

// Occupants lists filled slots, backcourt first.
func (s Snapshot) Occupants() []models.Player {
	var out []models.Player
	for _, slots := range [][]*models.Player{s.Backcourt, s.Frontcourt} {
		for _, p := range slots {
			if p != nil {
				out = append(out, *p)
			}
		}
	}
	return out
}

// TotalBudget is what the roster is worth plus what is left to spend.
func (s Snapshot) TotalBudget() decimal.Decimal {
	return s.TotalSalary.Add(s.Budget)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Key:              s.key,
		GameweekID:       s.gameweekID,
		Budget:           s.budget,
		TotalSalary:      s.roster.TotalSalary(),
		Backcourt:        slots(s.roster, roster.Backcourt),
		Frontcourt:       slots(s.roster, roster.Frontcourt),
		Fingerprint:      s.roster.Fingerprint(),
		Coverage:         s.coverage,
		Analysis:         s.analysis,
		SelectedProposal: -1,
		Comparison:       s.comparison,
	}
	if s.analysis != nil {
		if _, i, ok := s.selector.Current(); ok {
			snap.SelectedProposal = i
		}
	}
	return snap
}

func slots(r *roster.Roster, g roster.Group) []*models.Player {
	out := make([]*models.Player, models.SlotsPerGroup)
	for i := range out {
		if p, ok := r.Slot(g, i); ok {
			out[i] = &p
		}
	}
	return out
}
