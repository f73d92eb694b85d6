// Package coverage turns a gameweek schedule and a set of rostered players
// into per-gameday lineup readiness.
package coverage

import (
	"sort"

	"github.com/omarshaarawi/courtside/internal/gameday"
	"github.com/omarshaarawi/courtside/internal/models"
)

type Report struct {
	GameweekID   int                               `json:"gameweek_id"`
	Days         map[string]models.GamedayCoverage `json:"days"`
	Order        []string                          `json:"order"`
	Insufficient []models.InsufficientDay          `json:"insufficient_days"`
}

// Aggregate computes coverage for every day in the schedule. Only players in
// occupants are counted, and each is classified from its Player record.
func Aggregate(week models.WeekSchedule, occupants []models.Player) Report {
	rostered := make(map[int]models.Player, len(occupants))
	for _, p := range occupants {
		rostered[p.ID] = p
	}

	report := Report{
		GameweekID:   week.GameweekID,
		Days:         make(map[string]models.GamedayCoverage, len(week.Days)),
		Order:        gameday.SortedKeys(week.Days),
		Insufficient: []models.InsufficientDay{},
	}

	for _, key := range report.Order {
		day := aggregateDay(key, week.Days[key], rostered)
		report.Days[key] = day
		if !day.Ready {
			report.Insufficient = append(report.Insufficient, models.InsufficientDay{
				DayKey: key,
				Total:  day.DistinctPlayers,
				Needed: models.MinLineup - day.DistinctPlayers,
			})
		}
	}
	return report
}

func aggregateDay(key string, day models.DaySchedule, rostered map[int]models.Player) models.GamedayCoverage {
	present := make(map[int]bool)
	for _, g := range day.Games {
		for _, sp := range g.Players {
			if _, ok := rostered[sp.PlayerID]; ok {
				present[sp.PlayerID] = true
			}
		}
	}

	ids := make([]int, 0, len(present))
	for id := range present {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	cov := models.GamedayCoverage{
		DayKey:          key,
		DistinctPlayers: len(ids),
		Ready:           len(ids) >= models.MinLineup,
		PlayerIDs:       ids,
	}
	for _, id := range ids {
		if rostered[id].IsBackcourt() {
			cov.Backcourt++
		} else {
			cov.Frontcourt++
		}
	}

	if day.HasProjections {
		cov.Projections = projectionsFor(ids, day.Projections, rostered)
		for _, pr := range projectionsByID(cov.Projections, ids) {
			cov.ProjectedFP += pr.AvgLastK
		}
	}
	return cov
}

// projectionsFor keeps one projection per present player (a missing entry
// projects zero) and marks the day's starters.
func projectionsFor(ids []int, supplied []models.PlayerProjection, rostered map[int]models.Player) []models.PlayerProjection {
	byID := make(map[int]models.PlayerProjection, len(supplied))
	for _, pr := range supplied {
		if _, seen := byID[pr.PlayerID]; !seen {
			byID[pr.PlayerID] = pr
		}
	}

	out := make([]models.PlayerProjection, 0, len(ids))
	for _, id := range ids {
		pr, ok := byID[id]
		if !ok {
			pr = models.PlayerProjection{PlayerID: id}
		}
		pr.IsStarter = false
		out = append(out, pr)
	}

	markStarters(out, rostered)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsStarter != out[j].IsStarter {
			return out[i].IsStarter
		}
		return ranksAbove(out[i], out[j])
	})
	return out
}

// markStarters picks the better of 3 backcourt + 2 frontcourt and
// 2 backcourt + 3 frontcourt by projected points. Nothing is marked when
// fewer than five players are available or neither shape can be filled.
func markStarters(projections []models.PlayerProjection, rostered map[int]models.Player) {
	if len(projections) < models.MinLineup {
		return
	}

	var bc, fc []int
	for i, pr := range projections {
		if rostered[pr.PlayerID].IsBackcourt() {
			bc = append(bc, i)
		} else {
			fc = append(fc, i)
		}
	}
	byRank := func(idx []int) {
		sort.SliceStable(idx, func(a, b int) bool {
			return ranksAbove(projections[idx[a]], projections[idx[b]])
		})
	}
	byRank(bc)
	byRank(fc)

	total := func(idx []int) float64 {
		var sum float64
		for _, i := range idx {
			sum += projections[i].AvgLastK
		}
		return sum
	}

	var starters []int
	threeTwo, twoThree := -1.0, -1.0
	if len(bc) >= 3 && len(fc) >= 2 {
		threeTwo = total(bc[:3]) + total(fc[:2])
	}
	if len(bc) >= 2 && len(fc) >= 3 {
		twoThree = total(bc[:2]) + total(fc[:3])
	}
	switch {
	case threeTwo >= 0 && threeTwo >= twoThree:
		starters = append(append(starters, bc[:3]...), fc[:2]...)
	case twoThree >= 0:
		starters = append(append(starters, bc[:2]...), fc[:3]...)
	}

	for _, i := range starters {
		projections[i].IsStarter = true
	}
}

func ranksAbove(a, b models.PlayerProjection) bool {
	if a.AvgLastK != b.AvgLastK {
		return a.AvgLastK > b.AvgLastK
	}
	if a.TotalFP != b.TotalFP {
		return a.TotalFP > b.TotalFP
	}
	return a.PlayerID < b.PlayerID
}

// projectionsByID returns projections in ascending id order so sums are
// reproducible.
func projectionsByID(projections []models.PlayerProjection, ids []int) []models.PlayerProjection {
	byID := make(map[int]models.PlayerProjection, len(projections))
	for _, pr := range projections {
		byID[pr.PlayerID] = pr
	}
	out := make([]models.PlayerProjection, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out
}

func (r Report) Day(key string) (models.GamedayCoverage, bool) {
	d, ok := r.Days[key]
	return d, ok
}

func (r Report) ReadyDays() int {
	n := 0
	for _, d := range r.Days {
		if d.Ready {
			n++
		}
	}
	return n
}

func (r Report) TotalProjectedFP() float64 {
	var sum float64
	for _, key := range r.Order {
		sum += r.Days[key].ProjectedFP
	}
	return sum
}

// PlayersWithGames counts distinct rostered players with at least one game
// in the week.
func (r Report) PlayersWithGames() int {
	seen := make(map[int]bool)
	for _, d := range r.Days {
		for _, id := range d.PlayerIDs {
			seen[id] = true
		}
	}
	return len(seen)
}
