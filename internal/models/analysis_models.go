package models

import "github.com/shopspring/decimal"

type GamedayCoverage struct {
	DayKey          string             `json:"day_key"`
	DistinctPlayers int                `json:"distinct_player_count"`
	Backcourt       int                `json:"backcourt_count"`
	Frontcourt      int                `json:"frontcourt_count"`
	Ready           bool               `json:"is_ready"`
	ProjectedFP     float64            `json:"projected_fp"`
	Projections     []PlayerProjection `json:"player_projections,omitempty"`
	PlayerIDs       []int              `json:"player_ids,omitempty"`
}

type InsufficientDay struct {
	DayKey string `json:"day_key"`
	Total  int    `json:"total"`
	Needed int    `json:"needed"`
}

type TransactionProposal struct {
	Drops               []Player        `json:"drops"`
	Adds                []Player        `json:"adds"`
	Cost                decimal.Decimal `json:"cost"`
	FPImprovement       *float64        `json:"fp_improvement,omitempty"`
	GamesImprovement    *float64        `json:"games_improvement,omitempty"`
	DepthScore          *float64        `json:"depth_score,omitempty"`
	TeamDaysImprovement *float64        `json:"team_days_improvement,omitempty"`
	Warnings            []string        `json:"warnings,omitempty"`
}

func (p TransactionProposal) DropIDs() []int {
	ids := make([]int, len(p.Drops))
	for i, d := range p.Drops {
		ids[i] = d.ID
	}
	return ids
}

type AnalysisResult struct {
	GameweekID       int                        `json:"gameweek_id"`
	DateRange        string                     `json:"date_range"`
	CoverageByDay    map[string]GamedayCoverage `json:"coverage_by_day"`
	InsufficientDays []InsufficientDay          `json:"insufficient_days"`
	Proposals        []TransactionProposal      `json:"proposals"`
	RosterAvgFP      *float64                   `json:"roster_avg_fp,omitempty"`
	RosterTotalFP    *float64                   `json:"roster_total_fp,omitempty"`
}

// AnalysisRequest is what the Recommendation Service needs to evaluate a
// full roster for one gameweek.
type AnalysisRequest struct {
	RosterIDs       []int
	AvailableBudget decimal.Decimal
	GameweekID      int
}
