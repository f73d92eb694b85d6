package session

import (
	"errors"
	"fmt"

	"github.com/omarshaarawi/courtside/internal/models"
)

var ErrNoSuchProposal = errors.New("no such proposal")

// Selector tracks which proposal of the latest analysis is being inspected.
// Every reconciliation goes through Current so the choice the user made is
// the one that is evaluated.
type Selector struct {
	proposals []models.TransactionProposal
	index     int
}

// Set adopts the proposals of a new analysis and points at the first one.
func (s *Selector) Set(result *models.AnalysisResult) {
	s.index = 0
	s.proposals = nil
	if result != nil {
		s.proposals = result.Proposals
	}
}

func (s *Selector) Select(i int) error {
	if i < 0 || i >= len(s.proposals) {
		return fmt.Errorf("proposal %d of %d: %w", i+1, len(s.proposals), ErrNoSuchProposal)
	}
	s.index = i
	return nil
}

func (s *Selector) Current() (models.TransactionProposal, int, bool) {
	if len(s.proposals) == 0 {
		return models.TransactionProposal{}, -1, false
	}
	return s.proposals[s.index], s.index, true
}

func (s *Selector) Len() int {
	return len(s.proposals)
}

func (s *Selector) Reset() {
	s.proposals = nil
	s.index = 0
}
