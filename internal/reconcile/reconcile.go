package reconcile

import (
	"errors"
	"fmt"

	"github.com/omarshaarawi/courtside/internal/coverage"
	"github.com/omarshaarawi/courtside/internal/gameday"
	"github.com/omarshaarawi/courtside/internal/models"
)

var (
	ErrConflictingTransaction = errors.New("conflicting transaction")
	ErrRosterSizeMismatch     = errors.New("derived roster size mismatch")
)

// Derive applies a proposal's drops and adds to the current occupants and
// returns the hypothetical roster. The input slice is never modified.
func Derive(occupants []models.Player, p models.TransactionProposal) ([]models.Player, error) {
	rostered := make(map[int]bool, len(occupants))
	for _, o := range occupants {
		rostered[o.ID] = true
	}

	drops := make(map[int]bool, len(p.Drops))
	for _, d := range p.Drops {
		if drops[d.ID] {
			return nil, fmt.Errorf("player %d dropped twice: %w", d.ID, ErrConflictingTransaction)
		}
		if !rostered[d.ID] {
			return nil, fmt.Errorf("dropped player %d is not on the roster: %w", d.ID, ErrConflictingTransaction)
		}
		drops[d.ID] = true
	}

	adds := make(map[int]bool, len(p.Adds))
	for _, a := range p.Adds {
		if drops[a.ID] {
			return nil, fmt.Errorf("player %d is both dropped and added: %w", a.ID, ErrConflictingTransaction)
		}
		if adds[a.ID] {
			return nil, fmt.Errorf("player %d added twice: %w", a.ID, ErrConflictingTransaction)
		}
		if rostered[a.ID] {
			return nil, fmt.Errorf("added player %d is already on the roster: %w", a.ID, ErrConflictingTransaction)
		}
		adds[a.ID] = true
	}

	derived := make([]models.Player, 0, len(occupants)-len(p.Drops)+len(p.Adds))
	for _, o := range occupants {
		if !drops[o.ID] {
			derived = append(derived, o)
		}
	}
	derived = append(derived, p.Adds...)
	return derived, nil
}

// CheckSize reports a proposal that does not leave a full roster.
func CheckSize(derived []models.Player) error {
	if len(derived) != models.RosterSize {
		return fmt.Errorf("derived roster has %d players, want %d: %w", len(derived), models.RosterSize, ErrRosterSizeMismatch)
	}
	return nil
}

type DayDelta struct {
	DayKey          string  `json:"day_key"`
	CurrentPlayers  int     `json:"current_players"`
	DerivedPlayers  int     `json:"derived_players"`
	CurrentReady    bool    `json:"current_ready"`
	DerivedReady    bool    `json:"derived_ready"`
	CurrentFP       float64 `json:"current_fp"`
	DerivedFP       float64 `json:"derived_fp"`
	PlayerDelta     int     `json:"player_delta"`
	ProjectedFPDiff float64 `json:"projected_fp_delta"`
}

type Comparison struct {
	ProposalIndex int                        `json:"proposal_index"`
	Proposal      models.TransactionProposal `json:"proposal"`
	Days          []DayDelta                 `json:"days"`
	NewlyReady    []string                   `json:"newly_ready"`
	NewlyShort    []string                   `json:"newly_short"`
	Derived       coverage.Report            `json:"derived"`
}

// Compare lines up current and derived coverage day by day over the union of
// their day keys.
func Compare(current map[string]models.GamedayCoverage, derived coverage.Report) Comparison {
	keys := make(map[string]struct{}, len(current)+len(derived.Days))
	for k := range current {
		keys[k] = struct{}{}
	}
	for k := range derived.Days {
		keys[k] = struct{}{}
	}

	cmp := Comparison{
		Days:       make([]DayDelta, 0, len(keys)),
		NewlyReady: []string{},
		NewlyShort: []string{},
		Derived:    derived,
	}
	for _, k := range gameday.SortedKeys(keys) {
		c := current[k]
		d := derived.Days[k]
		cmp.Days = append(cmp.Days, DayDelta{
			DayKey:          k,
			CurrentPlayers:  c.DistinctPlayers,
			DerivedPlayers:  d.DistinctPlayers,
			CurrentReady:    c.Ready,
			DerivedReady:    d.Ready,
			CurrentFP:       c.ProjectedFP,
			DerivedFP:       d.ProjectedFP,
			PlayerDelta:     d.DistinctPlayers - c.DistinctPlayers,
			ProjectedFPDiff: d.ProjectedFP - c.ProjectedFP,
		})
		switch {
		case !c.Ready && d.Ready:
			cmp.NewlyReady = append(cmp.NewlyReady, k)
		case c.Ready && !d.Ready:
			cmp.NewlyShort = append(cmp.NewlyShort, k)
		}
	}
	return cmp
}

// IDs returns the ids of a player list in order.
func IDs(players []models.Player) []int {
	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}
