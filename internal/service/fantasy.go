package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/omarshaarawi/courtside/internal/api/fantasy"
	"github.com/omarshaarawi/courtside/internal/coverage"
	"github.com/omarshaarawi/courtside/internal/directory"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/reconcile"
	"github.com/omarshaarawi/courtside/internal/roster"
	"github.com/omarshaarawi/courtside/internal/session"
	"github.com/shopspring/decimal"
)

const searchLimit = 10

// FantasyService renders session operations as Markdown for chat surfaces.
type FantasyService struct {
	api       *fantasy.API
	directory *DirectoryService
	sessions  *session.Manager
}

func NewFantasyService(api *fantasy.API, directory *DirectoryService, sessions *session.Manager) *FantasyService {
	return &FantasyService{api: api, directory: directory, sessions: sessions}
}

func (s *FantasyService) SearchPlayers(ctx context.Context, group *roster.Group, query string) (string, error) {
	idx, err := s.directory.Index(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading players: %w", err)
	}

	players := idx.Search(query, group, searchLimit)
	if len(players) == 0 {
		return fmt.Sprintf("🔍 No player found matching '%s'.", query), nil
	}

	var sb strings.Builder
	if group != nil {
		sb.WriteString(fmt.Sprintf("🔍 *%s players matching '%s'*\n\n", groupTitle(*group), query))
	} else {
		sb.WriteString(fmt.Sprintf("🔍 *Players matching '%s'*\n\n", query))
	}
	for _, p := range players {
		sb.WriteString(fmt.Sprintf("`%d` %s\n", p.ID, playerLine(p)))
	}
	return sb.String(), nil
}

// SetPlayer puts a player into a 1-based slot. ref is a player id or a name.
func (s *FantasyService) SetPlayer(ctx context.Context, key string, group roster.Group, slot int, ref string) (string, error) {
	idx, err := s.directory.Index(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading players: %w", err)
	}

	var player models.Player
	if id, convErr := strconv.Atoi(strings.TrimSpace(ref)); convErr == nil {
		player, err = idx.Get(id)
	} else {
		player, err = idx.FindByName(ref)
	}
	if err != nil {
		return "", err
	}

	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := sess.Assign(ctx, group, slot-1, player.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("✅ %s is now in %s slot %d.\n\n%s", player.Name, groupTitle(group), slot, rosterReport(sess.Snapshot())), nil
}

func (s *FantasyService) DropPlayer(ctx context.Context, key string, group roster.Group, slot int) (string, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := sess.Remove(ctx, group, slot-1); err != nil {
		return "", err
	}
	return rosterReport(sess.Snapshot()), nil
}

func (s *FantasyService) ClearRoster(ctx context.Context, key string) (string, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := sess.Clear(ctx); err != nil {
		return "", err
	}
	return "🗑 Roster cleared.", nil
}

func (s *FantasyService) GetRoster(ctx context.Context, key string) (string, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	return rosterReport(sess.Snapshot()), nil
}

func (s *FantasyService) GetGameweeks(ctx context.Context, key string) (string, error) {
	gameweeks, err := s.directory.Gameweeks(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching gameweeks: %w", err)
	}
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	selected := sess.Snapshot().GameweekID

	var sb strings.Builder
	sb.WriteString("📅 *Gameweeks*\n\n")
	for _, gw := range gameweeks {
		marker := "▫️"
		if gw.ID == selected {
			marker = "▶️"
		}
		status := ""
		switch gw.Status {
		case models.GameweekPast:
			status = " ✓"
		case models.GameweekActive:
			status = " (Current)"
		}
		sb.WriteString(fmt.Sprintf("%s `%d` %s%s\n", marker, gw.ID, gw.Label, status))
	}
	sb.WriteString("\nUse /gw <id> to switch.")
	return sb.String(), nil
}

func (s *FantasyService) SetGameweek(ctx context.Context, key string, gameweekID int) (string, error) {
	gameweeks, err := s.directory.Gameweeks(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching gameweeks: %w", err)
	}
	label := ""
	for _, gw := range gameweeks {
		if gw.ID == gameweekID {
			label = gw.Label
		}
	}
	if label == "" {
		return "", fmt.Errorf("gameweek %d: %w", gameweekID, session.ErrInvalidGameweek)
	}

	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := sess.SetGameweek(gameweekID); err != nil {
		return "", err
	}
	return fmt.Sprintf("📅 Now looking at *%s*.", label), nil
}

func (s *FantasyService) SetBudget(ctx context.Context, key, amount string) (string, error) {
	budget, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(amount), "$"))
	if err != nil {
		return "", fmt.Errorf("budget %q is not a number", amount)
	}

	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	if err := sess.SetBudget(budget); err != nil {
		return "", err
	}
	return fmt.Sprintf("💰 Available budget set to %s.\n\n%s", money(budget), budgetSummary(sess.Snapshot())), nil
}

func (s *FantasyService) GetSchedule(ctx context.Context, key string) (string, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	report, err := sess.Coverage(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching schedule: %w", err)
	}
	return coverageReport(*report), nil
}

func (s *FantasyService) Analyze(ctx context.Context, key string) (string, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	result, err := sess.Analyze(ctx)
	if err != nil {
		return "", err
	}
	return analysisReport(result, sess.Snapshot().SelectedProposal), nil
}

// SelectOption evaluates option n (1-based) of the last analysis.
func (s *FantasyService) SelectOption(ctx context.Context, key string, n int) (string, error) {
	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	cmp, err := sess.SelectProposal(ctx, n-1)
	if err != nil {
		return "", err
	}
	return comparisonReport(cmp), nil
}

// CoverageAlert lists the problem days of the current gameweek for a
// session's roster. It returns "" when there is nothing to report.
func (s *FantasyService) CoverageAlert(ctx context.Context, key string) (string, error) {
	gw, ok, err := s.directory.CurrentGameweek(ctx)
	if err != nil {
		return "", fmt.Errorf("error fetching current gameweek: %w", err)
	}
	if !ok {
		return "", nil
	}

	sess, err := s.sessions.Get(ctx, key)
	if err != nil {
		return "", err
	}
	occupants := sess.Snapshot().Occupants()
	if len(occupants) == 0 {
		return "", nil
	}

	ids := make([]int, len(occupants))
	for i, p := range occupants {
		ids[i] = p.ID
	}
	week, err := s.api.GetSchedule(ctx, gw.ID, ids)
	if err != nil {
		return "", fmt.Errorf("error fetching schedule: %w", err)
	}

	report := coverage.Aggregate(week, occupants)
	if len(report.Insufficient) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚠️ *%s: problem days*\n\n", gw.Label))
	for _, d := range report.Insufficient {
		sb.WriteString(fmt.Sprintf("• *%s*: %d players (need %d more)\n", d.DayKey, d.Total, d.Needed))
	}
	sb.WriteString("\nRun /analyze for transaction options.")
	return sb.String(), nil
}

// UserMessage turns a failure into something a chat user can act on.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, roster.ErrCapabilityMismatch):
		return "❌ That player can't fill that slot. Backcourt needs a guard, frontcourt a forward or center."
	case errors.Is(err, roster.ErrDuplicatePlayer):
		return "❌ That player is already on your roster."
	case errors.Is(err, roster.ErrInvalidSlot):
		return "❌ Slots are numbered 1 to 5."
	case errors.Is(err, directory.ErrUnknownPlayer):
		return "🔍 No such player. Try /players bc <name> or /players fc <name>."
	case errors.Is(err, session.ErrIncompleteRoster):
		return fmt.Sprintf("⚠️ Select all %d players before analyzing. %v", models.RosterSize, err)
	case errors.Is(err, session.ErrNoAnalysis):
		return "⚠️ Run /analyze first."
	case errors.Is(err, session.ErrNoSuchProposal):
		return "⚠️ There is no such option in the last analysis."
	case errors.Is(err, session.ErrInvalidGameweek):
		return "⚠️ Unknown gameweek. Use /gw to list them."
	case errors.Is(err, reconcile.ErrConflictingTransaction):
		return fmt.Sprintf("⚠️ That option conflicts with your current roster: %v", err)
	case errors.Is(err, reconcile.ErrRosterSizeMismatch):
		return fmt.Sprintf("⚠️ That option would not leave a full roster: %v", err)
	case errors.Is(err, session.ErrSuperseded):
		return "⏭ A newer request replaced this one."
	case errors.Is(err, fantasy.ErrServiceUnavailable):
		return fmt.Sprintf("🚧 League data is unavailable right now: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
