package league

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/courtside/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) Players(ctx context.Context) ([]models.Player, error) {
	var resp []playerResponse
	if err := a.client.Get(ctx, "/api/players", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}

	players := make([]models.Player, 0, len(resp))
	for _, r := range resp {
		if !r.Salary.Valid {
			continue
		}
		p, err := r.toModel()
		if err != nil {
			slog.Warn("Skipping player", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

func (a *API) Gameweeks(ctx context.Context) ([]models.Gameweek, error) {
	var resp []gameweekResponse
	if err := a.client.Get(ctx, "/api/gameweeks", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching gameweeks: %w", err)
	}

	gameweeks := make([]models.Gameweek, len(resp))
	for i, g := range resp {
		gameweeks[i] = g.toModel()
	}
	return gameweeks, nil
}

// Schedule fetches the per-gameday games for the given players. Each day is
// normalised to models.DaySchedule; a day in any other shape fails the whole
// response with ErrMalformedSchedule.
func (a *API) Schedule(ctx context.Context, gameweekID int, playerIDs []int) (models.WeekSchedule, error) {
	req := scheduleRequest{PlayerIDs: playerIDs, Gameweek: gameweekID}
	if req.PlayerIDs == nil {
		req.PlayerIDs = []int{}
	}

	var resp scheduleResponse
	if err := a.client.Post(ctx, "/api/game_schedule", req, &resp); err != nil {
		return models.WeekSchedule{}, fmt.Errorf("fetching schedule for gameweek %d: %w", gameweekID, err)
	}

	week := models.WeekSchedule{
		GameweekID: gameweekID,
		Days:       make(map[string]models.DaySchedule, len(resp.GamesByDay)),
	}
	for label, raw := range resp.GamesByDay {
		day, err := decodeDay(label, raw)
		if err != nil {
			return models.WeekSchedule{}, fmt.Errorf("decoding schedule for gameweek %d: %w", gameweekID, err)
		}
		week.Days[label] = day
	}
	return week, nil
}

func (a *API) Recommend(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	body := analyzeRequest{
		CurrentRoster:   req.RosterIDs,
		AvailableBudget: budgetNumber(req.AvailableBudget),
		Gameweek:        req.GameweekID,
	}

	var resp analyzeResponse
	if err := a.client.Post(ctx, "/api/analyze", body, &resp); err != nil {
		return nil, fmt.Errorf("analyzing roster for gameweek %d: %w", req.GameweekID, err)
	}
	return resp.toModel(req.GameweekID), nil
}
