package league

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/omarshaarawi/courtside/internal/gameday"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/shopspring/decimal"
)

var ErrMalformedSchedule = errors.New("malformed schedule")

// flexString accepts a JSON string or number. Game ids come back as either.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type playerResponse struct {
	PlayerID    int                 `json:"player_id"`
	ID          int                 `json:"id"`
	PlayerName  string              `json:"player_name"`
	Name        string              `json:"name"`
	Position    string              `json:"position"`
	Salary      decimal.NullDecimal `json:"salary"`
	TeamID      int                 `json:"team_id"`
	Team        string              `json:"team"`
	FantasyAvg  *float64            `json:"fantasy_avg"`
	AvgMinutes  *float64            `json:"avg_minutes"`
	GamesPlayed *int                `json:"games_played"`
}

func (p playerResponse) toModel() (models.Player, error) {
	id := p.PlayerID
	if id == 0 {
		id = p.ID
	}
	name := p.PlayerName
	if name == "" {
		name = p.Name
	}
	if id == 0 {
		return models.Player{}, fmt.Errorf("player %q has no id", name)
	}
	positions, err := models.ParsePositions(p.Position)
	if err != nil {
		return models.Player{}, fmt.Errorf("player %d: %w", id, err)
	}
	if positions.IsZero() {
		return models.Player{}, fmt.Errorf("player %d has no position", id)
	}
	return models.Player{
		ID:          id,
		Name:        name,
		Team:        p.Team,
		TeamID:      p.TeamID,
		Positions:   positions,
		Salary:      p.Salary.Decimal,
		FantasyAvg:  p.FantasyAvg,
		AvgMinutes:  p.AvgMinutes,
		GamesPlayed: p.GamesPlayed,
	}, nil
}

type gameweekResponse struct {
	Gameweek  int    `json:"gameweek"`
	ID        int    `json:"id"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (g gameweekResponse) toModel() models.Gameweek {
	id := g.Gameweek
	if id == 0 {
		id = g.ID
	}
	label := g.Label
	if label == "" {
		label = fmt.Sprintf("Gameweek %d", id)
	}
	return models.Gameweek{
		ID:        id,
		Label:     label,
		Status:    models.ParseGameweekStatus(g.Status),
		StartDate: g.StartDate,
		EndDate:   g.EndDate,
	}
}

type scheduleRequest struct {
	PlayerIDs []int `json:"player_ids"`
	Gameweek  int   `json:"gameweek"`
}

type scheduleResponse struct {
	GamesByDay map[string]json.RawMessage `json:"games_by_day"`
}

type gameResponse struct {
	GameID  flexString               `json:"game_id"`
	Matchup string                   `json:"matchup"`
	Time    string                   `json:"time"`
	Players []models.ScheduledPlayer `json:"players"`
}

type projectionResponse struct {
	PlayerID  int      `json:"player_id"`
	AvgLast5  *float64 `json:"avg_last_5"`
	AvgLastK  *float64 `json:"avg_last_k"`
	TotalFP   float64  `json:"total_fp"`
	IsStarter bool     `json:"is_starter"`
}

type dayResponse struct {
	Games       []gameResponse        `json:"games"`
	Projections *[]projectionResponse `json:"player_projections"`
	ProjectedFP *float64              `json:"projected_fp"`
	Deadline    *string               `json:"deadline"`
}

// decodeDay accepts either a bare array of games or a day object.
func decodeDay(label string, raw json.RawMessage) (models.DaySchedule, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return models.DaySchedule{}, fmt.Errorf("day %q is empty: %w", label, ErrMalformedSchedule)
	}

	switch trimmed[0] {
	case '[':
		var games []gameResponse
		if err := json.Unmarshal(trimmed, &games); err != nil {
			return models.DaySchedule{}, fmt.Errorf("day %q: %v: %w", label, err, ErrMalformedSchedule)
		}
		return models.DaySchedule{Games: toGames(games)}, nil
	case '{':
		var day dayResponse
		if err := json.Unmarshal(trimmed, &day); err != nil {
			return models.DaySchedule{}, fmt.Errorf("day %q: %v: %w", label, err, ErrMalformedSchedule)
		}
		out := models.DaySchedule{
			Games:    toGames(day.Games),
			Deadline: parseDeadline(day.Deadline),
		}
		if day.Projections != nil {
			out.HasProjections = true
			out.Projections = toProjections(*day.Projections)
		}
		return out, nil
	default:
		return models.DaySchedule{}, fmt.Errorf("day %q is neither a list nor an object: %w", label, ErrMalformedSchedule)
	}
}

func toGames(in []gameResponse) []models.Game {
	games := make([]models.Game, len(in))
	for i, g := range in {
		games[i] = models.Game{
			ID:      string(g.GameID),
			Matchup: g.Matchup,
			Time:    g.Time,
			Players: g.Players,
		}
	}
	return games
}

func toProjections(in []projectionResponse) []models.PlayerProjection {
	out := make([]models.PlayerProjection, len(in))
	for i, p := range in {
		avg := 0.0
		switch {
		case p.AvgLastK != nil:
			avg = *p.AvgLastK
		case p.AvgLast5 != nil:
			avg = *p.AvgLast5
		}
		out[i] = models.PlayerProjection{
			PlayerID:  p.PlayerID,
			AvgLastK:  avg,
			TotalFP:   p.TotalFP,
			IsStarter: p.IsStarter,
		}
	}
	return out
}

var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"}

func parseDeadline(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

type analyzeRequest struct {
	CurrentRoster   []int       `json:"current_roster"`
	AvailableBudget json.Number `json:"available_budget"`
	Gameweek        int         `json:"gameweek"`
}

type dayCoverageResponse struct {
	Total int `json:"total"`
	BC    int `json:"bc"`
	FC    int `json:"fc"`
}

type insufficientDayResponse struct {
	Label  string `json:"label"`
	DayKey string `json:"day_key"`
	Total  int    `json:"total"`
	Needed int    `json:"needed"`
}

type transactionPlayerResponse struct {
	ID         int                 `json:"id"`
	PlayerID   int                 `json:"player_id"`
	Name       string              `json:"name"`
	PlayerName string              `json:"player_name"`
	Salary     decimal.NullDecimal `json:"salary"`
	Position   string              `json:"position"`
	Team       string              `json:"team"`
	FantasyAvg *float64            `json:"fantasy_avg"`
	Games      *int                `json:"games"`
}

type proposalResponse struct {
	Drops               []transactionPlayerResponse `json:"drops"`
	Adds                []transactionPlayerResponse `json:"adds"`
	Cost                decimal.NullDecimal         `json:"cost"`
	FPImprovement       *float64                    `json:"fp_improvement"`
	GamesImprovement    *float64                    `json:"games_improvement"`
	DepthScore          *float64                    `json:"depth_score"`
	TeamDaysImprovement *float64                    `json:"team_days_improvement"`
	Warnings            []string                    `json:"warnings"`
}

type analyzeResponse struct {
	Gameweek         int                            `json:"gameweek"`
	DateRange        string                         `json:"date_range"`
	DayCoverage      map[string]dayCoverageResponse `json:"day_coverage"`
	CoverageByDay    map[string]dayCoverageResponse `json:"coverage_by_day"`
	InsufficientDays []insufficientDayResponse      `json:"insufficient_days"`
	Recommendations  []proposalResponse             `json:"recommendations"`
	Proposals        []proposalResponse             `json:"proposals"`
	RosterAvgFP      *float64                       `json:"roster_avg_fp"`
	RosterTotalFP    *float64                       `json:"roster_total_fp"`
}

func (t transactionPlayerResponse) toModel() models.Player {
	id := t.ID
	if id == 0 {
		id = t.PlayerID
	}
	name := t.Name
	if name == "" {
		name = t.PlayerName
	}
	// Unknown position strings are kept as an empty set; the proposal's
	// players are resolved against the directory before use.
	positions, _ := models.ParsePositions(t.Position)
	p := models.Player{
		ID:         id,
		Name:       name,
		Team:       t.Team,
		Positions:  positions,
		Salary:     t.Salary.Decimal,
		FantasyAvg: t.FantasyAvg,
	}
	if t.Games != nil {
		games := *t.Games
		p.GamesPlayed = &games
	}
	return p
}

func (p proposalResponse) toModel() models.TransactionProposal {
	out := models.TransactionProposal{
		Drops:               make([]models.Player, len(p.Drops)),
		Adds:                make([]models.Player, len(p.Adds)),
		Cost:                p.Cost.Decimal,
		FPImprovement:       p.FPImprovement,
		GamesImprovement:    p.GamesImprovement,
		DepthScore:          p.DepthScore,
		TeamDaysImprovement: p.TeamDaysImprovement,
		Warnings:            p.Warnings,
	}
	for i, d := range p.Drops {
		out.Drops[i] = d.toModel()
	}
	for i, a := range p.Adds {
		out.Adds[i] = a.toModel()
	}
	return out
}

func (r analyzeResponse) toModel(gameweekID int) *models.AnalysisResult {
	coverage := r.CoverageByDay
	if coverage == nil {
		coverage = r.DayCoverage
	}
	proposals := r.Proposals
	if proposals == nil {
		proposals = r.Recommendations
	}

	result := &models.AnalysisResult{
		GameweekID:       r.Gameweek,
		DateRange:        r.DateRange,
		CoverageByDay:    make(map[string]models.GamedayCoverage, len(coverage)),
		InsufficientDays: make([]models.InsufficientDay, 0, len(r.InsufficientDays)),
		Proposals:        make([]models.TransactionProposal, 0, len(proposals)),
		RosterAvgFP:      r.RosterAvgFP,
		RosterTotalFP:    r.RosterTotalFP,
	}
	if result.GameweekID == 0 {
		result.GameweekID = gameweekID
	}

	for label, c := range coverage {
		result.CoverageByDay[label] = models.GamedayCoverage{
			DayKey:          label,
			DistinctPlayers: c.Total,
			Backcourt:       c.BC,
			Frontcourt:      c.FC,
			Ready:           c.Total >= models.MinLineup,
		}
	}
	for _, d := range r.InsufficientDays {
		key := d.DayKey
		if key == "" {
			key = d.Label
		}
		result.InsufficientDays = append(result.InsufficientDays, models.InsufficientDay{
			DayKey: key,
			Total:  d.Total,
			Needed: d.Needed,
		})
	}
	sort.SliceStable(result.InsufficientDays, func(i, j int) bool {
		return gameday.Less(result.InsufficientDays[i].DayKey, result.InsufficientDays[j].DayKey)
	})
	for _, p := range proposals {
		result.Proposals = append(result.Proposals, p.toModel())
	}
	return result
}

func budgetNumber(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
