// Package session holds one user's roster workspace: the roster itself, the
// selected gameweek and budget, the last analysis and which of its proposals
// is being inspected. HTTP and Telegram requests for the same user share a
// Session, so state is behind a mutex that is never held across a call to a
// league service.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/omarshaarawi/courtside/internal/coverage"
	"github.com/omarshaarawi/courtside/internal/directory"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/reconcile"
	"github.com/omarshaarawi/courtside/internal/repository"
	"github.com/omarshaarawi/courtside/internal/repository/memory"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/shopspring/decimal"
)

var (
	ErrIncompleteRoster = errors.New("roster is incomplete")
	ErrSuperseded       = errors.New("superseded by a newer request")
	ErrNoAnalysis       = errors.New("no analysis available")
	ErrInvalidGameweek  = errors.New("invalid gameweek")
	ErrNegativeBudget   = errors.New("budget cannot be negative")
)

// Services are the league collaborators a session calls out to.
type Services interface {
	GetSchedule(ctx context.Context, gameweekID int, playerIDs []int) (models.WeekSchedule, error)
	GetRecommendations(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

// Directory yields the current player index.
type Directory interface {
	Index(ctx context.Context) (*directory.Index, error)
}

type Session struct {
	key      string
	services Services
	dir      Directory
	store    repository.RosterStore

	mu         sync.Mutex
	roster     *roster.Roster
	gameweekID int
	budget     decimal.Decimal
	cache      *memory.AnalysisCache
	selector   Selector
	panels     panelTracker
	coverage   *coverage.Report
	analysis   *models.AnalysisResult
	comparison *reconcile.Comparison

	saveMu      sync.Mutex
	restoreOnce sync.Once
	restoreErr  error
}

func newSession(key string, gameweekID int, services Services, dir Directory, store repository.RosterStore) *Session {
	return &Session{
		key:        key,
		services:   services,
		dir:        dir,
		store:      store,
		roster:     roster.New(),
		gameweekID: gameweekID,
		cache:      memory.NewAnalysisCache(),
	}
}

func (s *Session) Key() string {
	return s.key
}

func (s *Session) Assign(ctx context.Context, group roster.Group, index, playerID int) error {
	idx, err := s.dir.Index(ctx)
	if err != nil {
		return err
	}
	player, err := idx.Get(playerID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	err = s.roster.Assign(group, index, player)
	if err == nil {
		s.rosterChanged()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.persist(ctx)
	return nil
}

func (s *Session) Remove(ctx context.Context, group roster.Group, index int) error {
	s.mu.Lock()
	_, occupied := s.roster.Slot(group, index)
	err := s.roster.Remove(group, index)
	if err == nil && occupied {
		s.rosterChanged()
	}
	s.mu.Unlock()
	if err != nil || !occupied {
		return err
	}

	s.persist(ctx)
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.roster.Clear()
	s.rosterChanged()
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

// SetGameweek switches the gameweek under analysis. Every panel is dropped
// because all of them are gameweek specific.
func (s *Session) SetGameweek(gameweekID int) error {
	if gameweekID < 1 {
		return fmt.Errorf("gameweek %d: %w", gameweekID, ErrInvalidGameweek)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameweekID == gameweekID {
		return nil
	}
	s.gameweekID = gameweekID
	s.resetPanels()
	return nil
}

// SetBudget changes the budget sent with the next analysis. A cached
// analysis was computed for the old budget and is discarded.
func (s *Session) SetBudget(budget decimal.Decimal) error {
	if budget.IsNegative() {
		return fmt.Errorf("budget %s: %w", budget, ErrNegativeBudget)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budget.Equal(budget) {
		return nil
	}
	s.budget = budget
	s.cache.Invalidate()
	s.panels.cancel(PanelAnalysis)
	s.panels.cancel(PanelDerived)
	s.selector.Reset()
	s.analysis = nil
	s.comparison = nil
	return nil
}

// Coverage aggregates the current roster's schedule for the selected
// gameweek. An empty roster is aggregated without calling the schedule
// service.
func (s *Session) Coverage(ctx context.Context) (*coverage.Report, error) {
	s.mu.Lock()
	occupants := s.roster.Occupants()
	gameweekID := s.gameweekID
	pctx, tk := s.panels.begin(ctx, PanelCoverage)
	s.mu.Unlock()

	week := models.WeekSchedule{GameweekID: gameweekID}
	var err error
	if len(occupants) > 0 {
		week, err = s.services.GetSchedule(pctx, gameweekID, reconcile.IDs(occupants))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.panels.current(tk) {
		return nil, ErrSuperseded
	}
	s.panels.finish(tk)
	if err != nil {
		return nil, err
	}

	report := coverage.Aggregate(week, occupants)
	s.coverage = &report
	return &report, nil
}

// Analyze asks the Recommendation Service about the full roster. A repeat
// request for the same roster and gameweek is answered from the cache and
// keeps the current proposal selection.
func (s *Session) Analyze(ctx context.Context) (*models.AnalysisResult, error) {
	s.mu.Lock()
	if !s.roster.Full() {
		n := s.roster.Len()
		s.mu.Unlock()
		return nil, fmt.Errorf("%d of %d players selected: %w", n, models.RosterSize, ErrIncompleteRoster)
	}

	fingerprint := s.roster.Fingerprint()
	gameweekID := s.gameweekID
	if cached, ok := s.cache.Get(gameweekID, fingerprint); ok {
		s.analysis = cached
		s.mu.Unlock()
		return cached, nil
	}

	req := models.AnalysisRequest{
		RosterIDs:       s.roster.IDs(),
		AvailableBudget: s.budget,
		GameweekID:      gameweekID,
	}
	pctx, tk := s.panels.begin(ctx, PanelAnalysis)
	s.mu.Unlock()

	result, err := s.services.GetRecommendations(pctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.panels.current(tk) {
		return nil, ErrSuperseded
	}
	s.panels.finish(tk)
	if err != nil {
		return nil, err
	}

	s.cache.Put(gameweekID, fingerprint, result)
	s.selector.Set(result)
	s.analysis = result
	s.comparison = nil
	return result, nil
}

// SelectProposal points the selector at proposal i (zero based) and
// evaluates it. The selection and the derivation happen under one lock, so
// the result is always for proposal i. A later select or compare supersedes
// this one.
func (s *Session) SelectProposal(ctx context.Context, i int) (*reconcile.Comparison, error) {
	return s.compare(ctx, func() error { return s.selector.Select(i) })
}

// CompareSelected derives the roster the selected proposal would produce and
// evaluates it against the current roster on the same schedule. The live
// roster is never touched.
func (s *Session) CompareSelected(ctx context.Context) (*reconcile.Comparison, error) {
	return s.compare(ctx, nil)
}

// compare runs choose, if any, under s.mu right before reading the selection.
func (s *Session) compare(ctx context.Context, choose func() error) (*reconcile.Comparison, error) {
	idx, err := s.dir.Index(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.analysis == nil {
		s.mu.Unlock()
		return nil, ErrNoAnalysis
	}
	if choose != nil {
		if err := choose(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	proposal, index, ok := s.selector.Current()
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("analysis has no proposals: %w", ErrNoSuchProposal)
	}
	occupants := s.roster.Occupants()
	gameweekID := s.gameweekID

	derived, err := reconcile.Derive(occupants, canonical(idx, proposal))
	if err == nil {
		err = reconcile.CheckSize(derived)
	}
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("proposal %d: %w", index+1, err)
	}
	pctx, tk := s.panels.begin(ctx, PanelDerived)
	s.mu.Unlock()

	week, err := s.services.GetSchedule(pctx, gameweekID, unionIDs(occupants, derived))

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.panels.current(tk) {
		return nil, ErrSuperseded
	}
	s.panels.finish(tk)
	if err != nil {
		return nil, err
	}

	current := coverage.Aggregate(week, occupants)
	cmp := reconcile.Compare(current.Days, coverage.Aggregate(week, derived))
	cmp.ProposalIndex = index
	cmp.Proposal = proposal
	s.comparison = &cmp
	return &cmp, nil
}

// Restore loads the persisted roster for this session. A malformed document
// is deleted and the session starts empty.
func (s *Session) Restore(ctx context.Context) error {
	data, err := s.store.Load(ctx, s.key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading roster: %w", err)
	}

	idx, err := s.dir.Index(ctx)
	if err != nil {
		return err
	}

	restored, err := roster.Restore(data, idx.Lookup)

	s.mu.Lock()
	s.roster = restored
	s.rosterChanged()
	s.mu.Unlock()

	if errors.Is(err, roster.ErrMalformedDocument) {
		slog.Warn("Discarding malformed roster document", "session", s.key, "error", err)
		if delErr := s.store.Delete(ctx, s.key); delErr != nil {
			slog.Error("Error deleting roster document", "session", s.key, "error", delErr)
		}
		return nil
	}
	return err
}

func (s *Session) ensureRestored(ctx context.Context) error {
	s.restoreOnce.Do(func() {
		s.restoreErr = s.Restore(ctx)
	})
	return s.restoreErr
}

// rosterChanged must be called with s.mu held.
func (s *Session) rosterChanged() {
	s.resetPanels()
}

// resetPanels must be called with s.mu held.
func (s *Session) resetPanels() {
	s.cache.Invalidate()
	s.panels.cancelAll()
	s.selector.Reset()
	s.coverage = nil
	s.analysis = nil
	s.comparison = nil
}

// persist writes the latest roster. Saves are serialised and each encodes
// the state at the time it runs, so the last write always wins with the
// newest roster.
func (s *Session) persist(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	empty := s.roster.Len() == 0
	doc, err := roster.Encode(s.roster)
	s.mu.Unlock()
	if err != nil {
		slog.Error("Error encoding roster", "session", s.key, "error", err)
		return
	}

	if empty {
		err = s.store.Delete(ctx, s.key)
	} else {
		err = s.store.Save(ctx, s.key, doc)
	}
	if err != nil {
		slog.Error("Error persisting roster", "session", s.key, "error", err)
	}
}

// canonical swaps the proposal's players for their directory records so
// classification uses the same data as the live roster. Players unknown to
// the directory keep the recommendation's copy.
func canonical(idx *directory.Index, p models.TransactionProposal) models.TransactionProposal {
	out := p
	out.Drops = make([]models.Player, len(p.Drops))
	for i, d := range p.Drops {
		out.Drops[i] = resolve(idx, d)
	}
	out.Adds = make([]models.Player, len(p.Adds))
	for i, a := range p.Adds {
		out.Adds[i] = resolve(idx, a)
	}
	return out
}

func resolve(idx *directory.Index, p models.Player) models.Player {
	if known, ok := idx.Lookup(p.ID); ok {
		return known
	}
	return p
}

func unionIDs(a, b []models.Player) []int {
	seen := make(map[int]bool, len(a)+len(b))
	ids := make([]int, 0, len(a)+len(b))
	for _, list := range [][]models.Player{a, b} {
		for _, p := range list {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}
