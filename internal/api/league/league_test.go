package league

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/omarshaarawi/courtside/internal/config"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewAPI(NewClient(config.LeagueAPI{URL: srv.URL + "/", Timeout: 5 * time.Second}))
}

func TestPlayers(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/players", r.URL.Path)
		w.Write([]byte(`[
			{"player_id": 1, "player_name": "Stephen Curry", "position": "G", "salary": 17.5, "team_id": 9, "team": "GSW", "fantasy_avg": 44.2, "games_played": 20},
			{"player_id": 2, "player_name": "No Salary", "position": "F", "salary": null},
			{"player_id": 3, "player_name": "Mystery", "position": "QB", "salary": 4},
			{"player_id": 4, "player_name": "Giannis", "position": "F-C", "salary": "19"}
		]`))
	})

	players, err := api.Players(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 2)

	assert.Equal(t, 1, players[0].ID)
	assert.Equal(t, "GSW", players[0].Team)
	assert.True(t, players[0].Salary.Equal(decimal.RequireFromString("17.5")))
	require.NotNil(t, players[0].FantasyAvg)
	assert.InDelta(t, 44.2, *players[0].FantasyAvg, 1e-9)

	assert.Equal(t, 4, players[1].ID)
	assert.True(t, players[1].Positions.Has(models.Center))
	assert.False(t, players[1].IsBackcourt())
}

func TestGameweeks(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"gameweek": 1, "start_date": "2025-10-21", "end_date": "2025-10-27", "status": "completed", "label": "Gameweek 1"},
			{"gameweek": 2, "status": "active"}
		]`))
	})

	gws, err := api.Gameweeks(context.Background())
	require.NoError(t, err)
	require.Len(t, gws, 2)
	assert.Equal(t, models.GameweekPast, gws[0].Status)
	assert.Equal(t, models.GameweekActive, gws[1].Status)
	assert.Equal(t, "Gameweek 2", gws[1].Label)
}

func TestSchedule_NormalisesBothDayShapes(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/game_schedule", r.URL.Path)

		var body scheduleRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int{1, 2}, body.PlayerIDs)
		assert.Equal(t, 9, body.Gameweek)

		w.Write([]byte(`{"games_by_day": {
			"GW9 Day 1": [{"game_id": 22500101, "matchup": "GSW vs LAL", "players": [{"player_id": 1, "player_name": "Curry", "team": "GSW"}]}],
			"GW9 Day 2": {
				"deadline": "2025-12-17T18:30:00+01:00",
				"games": [{"game_id": "g2", "matchup": "MIL vs BOS", "players": [{"player_id": 2}]}],
				"projected_fp": 41.0,
				"player_projections": [{"player_id": 2, "avg_last_5": 41.0, "total_fp": 400, "is_starter": false}]
			},
			"GW9 Day 3": {"games": []}
		}}`))
	})

	week, err := api.Schedule(context.Background(), 9, []int{1, 2})
	require.NoError(t, err)
	require.Len(t, week.Days, 3)
	assert.Equal(t, 9, week.GameweekID)

	day1 := week.Days["GW9 Day 1"]
	require.Len(t, day1.Games, 1)
	assert.Equal(t, "22500101", day1.Games[0].ID)
	assert.False(t, day1.HasProjections)
	assert.Nil(t, day1.Deadline)

	day2 := week.Days["GW9 Day 2"]
	assert.True(t, day2.HasProjections)
	require.Len(t, day2.Projections, 1)
	assert.InDelta(t, 41.0, day2.Projections[0].AvgLastK, 1e-9)
	require.NotNil(t, day2.Deadline)
	assert.Equal(t, 17, day2.Deadline.UTC().Hour())

	assert.False(t, week.Days["GW9 Day 3"].HasProjections)
}

func TestSchedule_MalformedDay(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"games_by_day": {"GW9 Day 1": "tbd"}}`))
	})

	_, err := api.Schedule(context.Background(), 9, nil)
	assert.ErrorIs(t, err, ErrMalformedSchedule)
}

func TestRecommend(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 12.5, body["available_budget"])
		assert.Equal(t, float64(9), body["gameweek"])
		assert.Len(t, body["current_roster"], 10)

		w.Write([]byte(`{
			"gameweek": 9,
			"date_range": "2025-12-16 to 2025-12-22",
			"day_coverage": {"GW9 Day 1": {"total": 4, "bc": 2, "fc": 2}, "GW9 Day 2": {"total": 6, "bc": 3, "fc": 3}},
			"insufficient_days": [{"label": "GW9 Day 1", "total": 4, "needed": 1}],
			"recommendations": [{
				"drops": [{"id": 1, "name": "A", "salary": 5, "position": "G", "fantasy_avg": 20.0}],
				"adds": [{"id": 11, "name": "B", "salary": 6.5, "position": "G", "games": 4, "fantasy_avg": 25.0}],
				"cost": 1.5,
				"fp_improvement": 5.0,
				"depth_score": 100
			}]
		}`))
	})

	res, err := api.Recommend(context.Background(), models.AnalysisRequest{
		RosterIDs:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		AvailableBudget: decimal.RequireFromString("12.5"),
		GameweekID:      9,
	})
	require.NoError(t, err)

	assert.Equal(t, 9, res.GameweekID)
	require.Len(t, res.CoverageByDay, 2)
	assert.False(t, res.CoverageByDay["GW9 Day 1"].Ready)
	assert.True(t, res.CoverageByDay["GW9 Day 2"].Ready)
	assert.Equal(t, []models.InsufficientDay{{DayKey: "GW9 Day 1", Total: 4, Needed: 1}}, res.InsufficientDays)

	require.Len(t, res.Proposals, 1)
	p := res.Proposals[0]
	assert.Equal(t, []int{1}, p.DropIDs())
	assert.Equal(t, 11, p.Adds[0].ID)
	require.NotNil(t, p.Adds[0].GamesPlayed)
	assert.Equal(t, 4, *p.Adds[0].GamesPlayed)
	assert.True(t, p.Cost.Equal(decimal.RequireFromString("1.5")))
	require.NotNil(t, p.DepthScore)
}

func TestClient_NonOKStatus(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := api.Gameweeks(context.Background())
	assert.ErrorContains(t, err, "unexpected status code: 500")
}

func TestClient_ContextCancelled(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := api.Players(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
