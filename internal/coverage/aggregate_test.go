package coverage

import (
	"testing"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func player(id int, caps ...models.Capability) models.Player {
	return models.Player{ID: id, Positions: models.NewPositions(caps...)}
}

// tenMan: ids 1-5 guards, 6-10 forwards/centers; 3 is a G-F swingman.
func tenMan() []models.Player {
	return []models.Player{
		player(1, models.Guard), player(2, models.Guard), player(3, models.Guard, models.Forward),
		player(4, models.Guard), player(5, models.Guard),
		player(6, models.Forward), player(7, models.Forward), player(8, models.Center),
		player(9, models.Forward, models.Center), player(10, models.Center),
	}
}

func game(matchup string, ids ...int) models.Game {
	g := models.Game{Matchup: matchup}
	for _, id := range ids {
		g.Players = append(g.Players, models.ScheduledPlayer{PlayerID: id})
	}
	return g
}

func TestAggregate_OnlyScheduledPlayersCount(t *testing.T) {
	week := models.WeekSchedule{
		GameweekID: 12,
		Days: map[string]models.DaySchedule{
			"2025-01-10": {Games: []models.Game{game("BOS vs NYK", 1, 2), game("LAL vs DEN", 6, 7)}},
		},
	}

	r := Aggregate(week, tenMan())

	day, ok := r.Day("2025-01-10")
	require.True(t, ok)
	assert.Equal(t, 4, day.DistinctPlayers)
	assert.Equal(t, 2, day.Backcourt)
	assert.Equal(t, 2, day.Frontcourt)
	assert.False(t, day.Ready)
	assert.Equal(t, []models.InsufficientDay{{DayKey: "2025-01-10", Total: 4, Needed: 1}}, r.Insufficient)
}

func TestAggregate_DeduplicatesAcrossGames(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 1": {Games: []models.Game{
			game("A vs B", 1, 2, 6),
			game("A vs C", 1, 2, 6), // same team twice in one gameday
			game("D vs E", 7, 8),
		}},
	}}

	day := Aggregate(week, tenMan()).Days["GW9 Day 1"]
	assert.Equal(t, 5, day.DistinctPlayers)
	assert.True(t, day.Ready)
	assert.Equal(t, []int{1, 2, 6, 7, 8}, day.PlayerIDs)
}

func TestAggregate_ClassifiesFromPlayerRecord(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 1": {Games: []models.Game{game("X vs Y", 3, 9)}},
	}}

	day := Aggregate(week, tenMan()).Days["GW9 Day 1"]
	// G-F counts as backcourt, F-C as frontcourt
	assert.Equal(t, 1, day.Backcourt)
	assert.Equal(t, 1, day.Frontcourt)
}

func TestAggregate_IgnoresUnrosteredPlayers(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 1": {Games: []models.Game{game("X vs Y", 1, 99, 100)}},
	}}

	day := Aggregate(week, tenMan()).Days["GW9 Day 1"]
	assert.Equal(t, 1, day.DistinctPlayers)
}

func TestAggregate_EmptyDayIsInsufficient(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 2": {},
		"GW9 Day 1": {Games: []models.Game{game("X vs Y", 1, 2, 3, 6, 7)}},
	}}

	r := Aggregate(week, tenMan())
	assert.Equal(t, []string{"GW9 Day 1", "GW9 Day 2"}, r.Order)
	require.Len(t, r.Insufficient, 1)
	assert.Equal(t, models.InsufficientDay{DayKey: "GW9 Day 2", Total: 0, Needed: 5}, r.Insufficient[0])
	assert.Equal(t, 1, r.ReadyDays())
	assert.Equal(t, 5, r.PlayersWithGames())
}

func TestAggregate_InsufficientDaysInGamedayOrder(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 10": {},
		"GW9 Day 2":  {},
		"GW10 Day 1": {},
	}}

	r := Aggregate(week, tenMan())
	var keys []string
	for _, d := range r.Insufficient {
		keys = append(keys, d.DayKey)
	}
	assert.Equal(t, []string{"GW9 Day 2", "GW9 Day 10", "GW10 Day 1"}, keys)
}

func TestAggregate_ProjectedFP(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 1": {
			Games: []models.Game{game("X vs Y", 1, 6)},
			Projections: []models.PlayerProjection{
				{PlayerID: 1, AvgLastK: 30.5},
				{PlayerID: 6, AvgLastK: 20},
				{PlayerID: 7, AvgLastK: 99}, // not playing this day
			},
			HasProjections: true,
		},
		"GW9 Day 2": {Games: []models.Game{game("X vs Z", 1, 6)}},
	}}

	r := Aggregate(week, tenMan())
	assert.InDelta(t, 50.5, r.Days["GW9 Day 1"].ProjectedFP, 1e-9)
	assert.Len(t, r.Days["GW9 Day 1"].Projections, 2)
	assert.Equal(t, 0.0, r.Days["GW9 Day 2"].ProjectedFP)
	assert.Empty(t, r.Days["GW9 Day 2"].Projections)
	assert.InDelta(t, 50.5, r.TotalProjectedFP(), 1e-9)
}

func TestAggregate_Starters(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 1": {
			Games: []models.Game{game("X vs Y", 1, 2, 4, 6, 7, 8)},
			Projections: []models.PlayerProjection{
				{PlayerID: 1, AvgLastK: 40},
				{PlayerID: 2, AvgLastK: 30},
				{PlayerID: 4, AvgLastK: 5},
				{PlayerID: 6, AvgLastK: 35},
				{PlayerID: 7, AvgLastK: 25},
				{PlayerID: 8, AvgLastK: 20, IsStarter: true},
			},
			HasProjections: true,
		},
	}}

	day := Aggregate(week, tenMan()).Days["GW9 Day 1"]

	// 2BC+3FC = 40+30+35+25+20 = 150 beats 3BC+2FC = 40+30+5+35+25 = 135
	starters := map[int]bool{}
	for _, pr := range day.Projections {
		if pr.IsStarter {
			starters[pr.PlayerID] = true
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 6: true, 7: true, 8: true}, starters)
	assert.Equal(t, 1, day.Projections[0].PlayerID)
	assert.Equal(t, 4, day.Projections[len(day.Projections)-1].PlayerID)
}

func TestAggregate_NoStartersBelowMinimum(t *testing.T) {
	week := models.WeekSchedule{Days: map[string]models.DaySchedule{
		"GW9 Day 1": {
			Games:          []models.Game{game("X vs Y", 1, 6)},
			Projections:    []models.PlayerProjection{{PlayerID: 1, AvgLastK: 10, IsStarter: true}},
			HasProjections: true,
		},
	}}

	for _, pr := range Aggregate(week, tenMan()).Days["GW9 Day 1"].Projections {
		assert.False(t, pr.IsStarter)
	}
}

func TestAggregate_Pure(t *testing.T) {
	week := models.WeekSchedule{GameweekID: 9, Days: map[string]models.DaySchedule{
		"GW9 Day 1": {
			Games: []models.Game{game("X vs Y", 1, 2, 3, 6, 7, 8)},
			Projections: []models.PlayerProjection{
				{PlayerID: 1, AvgLastK: 0.1}, {PlayerID: 2, AvgLastK: 0.2}, {PlayerID: 3, AvgLastK: 0.3},
				{PlayerID: 6, AvgLastK: 0.7}, {PlayerID: 7, AvgLastK: 1.1}, {PlayerID: 8, AvgLastK: 2.9},
			},
			HasProjections: true,
		},
		"GW9 Day 2": {Games: []models.Game{game("X vs Z", 4, 5)}},
	}}

	first := Aggregate(week, tenMan())
	second := Aggregate(week, tenMan())
	assert.Equal(t, first, second)
}
