package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/omarshaarawi/courtside/internal/session"
	"github.com/shopspring/decimal"
)

const maxSearchResults = 50

type assignRequest struct {
	PlayerID int `json:"player_id"`
}

type gameweekRequest struct {
	Gameweek int `json:"gameweek"`
}

type budgetRequest struct {
	AvailableBudget *decimal.Decimal `json:"available_budget"`
}

type proposalRequest struct {
	// Index is zero based.
	Index *int `json:"index"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	success(w, map[string]string{"status": "ok"})
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	var group *roster.Group
	if g := r.URL.Query().Get("group"); g != "" {
		parsed, err := roster.ParseGroup(g)
		if err != nil {
			badRequest(w, err)
			return
		}
		group = &parsed
	}

	idx, err := s.directory.Index(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	success(w, idx.Search(r.URL.Query().Get("q"), group, maxSearchResults))
}

func (s *Server) listGameweeks(w http.ResponseWriter, r *http.Request) {
	gameweeks, err := s.directory.Gameweeks(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	success(w, gameweeks)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Create(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	created(w, sess.Snapshot())
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	success(w, sess.Snapshot())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearRoster(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Clear(r.Context()); err != nil {
		fail(w, err)
		return
	}
	success(w, sess.Snapshot())
}

func (s *Server) assignSlot(w http.ResponseWriter, r *http.Request) {
	group, slot, err := slotParams(r)
	if err != nil {
		badRequest(w, err)
		return
	}
	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, errors.New("invalid request body"))
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Assign(r.Context(), group, slot, req.PlayerID); err != nil {
		fail(w, err)
		return
	}
	success(w, sess.Snapshot())
}

func (s *Server) removeSlot(w http.ResponseWriter, r *http.Request) {
	group, slot, err := slotParams(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Remove(r.Context(), group, slot); err != nil {
		fail(w, err)
		return
	}
	success(w, sess.Snapshot())
}

func (s *Server) setGameweek(w http.ResponseWriter, r *http.Request) {
	var req gameweekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, errors.New("invalid request body"))
		return
	}

	gameweeks, err := s.directory.Gameweeks(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	known := false
	for _, gw := range gameweeks {
		known = known || gw.ID == req.Gameweek
	}
	if !known {
		fail(w, fmt.Errorf("gameweek %d: %w", req.Gameweek, session.ErrInvalidGameweek))
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.SetGameweek(req.Gameweek); err != nil {
		fail(w, err)
		return
	}
	success(w, sess.Snapshot())
}

func (s *Server) setBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AvailableBudget == nil {
		badRequest(w, errors.New("available_budget is required"))
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.SetBudget(*req.AvailableBudget); err != nil {
		fail(w, err)
		return
	}
	success(w, sess.Snapshot())
}

func (s *Server) getCoverage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	report, err := sess.Coverage(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	success(w, report)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	result, err := sess.Analyze(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	success(w, result)
}

func (s *Server) selectProposal(w http.ResponseWriter, r *http.Request) {
	var req proposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		badRequest(w, errors.New("index is required"))
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	cmp, err := sess.SelectProposal(r.Context(), *req.Index)
	if err != nil {
		fail(w, err)
		return
	}
	success(w, cmp)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Find(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err)
		return nil, false
	}
	return sess, true
}

// slotParams reads the group and the 1-based slot from the path and returns
// a zero-based index.
func slotParams(r *http.Request) (roster.Group, int, error) {
	group, err := roster.ParseGroup(chi.URLParam(r, "group"))
	if err != nil {
		return 0, 0, err
	}
	slot, err := strconv.Atoi(chi.URLParam(r, "slot"))
	if err != nil {
		return 0, 0, fmt.Errorf("slot %q is not a number", chi.URLParam(r, "slot"))
	}
	return group, slot - 1, nil
}
