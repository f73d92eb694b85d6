package models

import "time"

type ScheduledPlayer struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"player_name"`
	Team     string `json:"team"`
}

type Game struct {
	ID      string            `json:"game_id,omitempty"`
	Matchup string            `json:"matchup"`
	Time    string            `json:"time,omitempty"`
	Players []ScheduledPlayer `json:"players"`
}

type PlayerProjection struct {
	PlayerID  int     `json:"player_id"`
	AvgLastK  float64 `json:"avg_last_k"`
	TotalFP   float64 `json:"total_fp"`
	IsStarter bool    `json:"is_starter"`
}

// DaySchedule is the normalised shape of one gameday in a schedule response.
// HasProjections distinguishes "no projection data" from "an empty list".
type DaySchedule struct {
	Games          []Game             `json:"games"`
	Projections    []PlayerProjection `json:"player_projections,omitempty"`
	HasProjections bool               `json:"has_projections"`
	Deadline       *time.Time         `json:"deadline,omitempty"`
}

type WeekSchedule struct {
	GameweekID int                    `json:"gameweek_id"`
	Days       map[string]DaySchedule `json:"days"`
}
