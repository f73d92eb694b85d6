// Package sqlite reads the player pool and gameweek calendar straight from the
// league database when no league API is available.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/repository"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

const playersQuery = `
	WITH player_fantasy_stats AS (
		SELECT
			pgs.player_id,
			COUNT(*) AS games_played,
			AVG(pgs.points + pgs.rebounds + 2 * pgs.assists +
				3 * pgs.blocks + 3 * pgs.steals) AS fantasy_avg,
			AVG(pgs.minutes_played) AS avg_minutes
		FROM player_game_stats pgs
		GROUP BY pgs.player_id
	)
	SELECT
		p.player_id,
		p.player_name,
		COALESCE(p.position, ''),
		p.salary,
		p.team_id,
		t.team_abbreviation,
		COALESCE(pfs.fantasy_avg, 0),
		COALESCE(pfs.games_played, 0),
		pfs.avg_minutes
	FROM players p
	JOIN teams t ON p.team_id = t.team_id
	LEFT JOIN player_fantasy_stats pfs ON p.player_id = pfs.player_id
	WHERE p.salary IS NOT NULL
	ORDER BY p.salary DESC, p.player_id`

const gameweeksQuery = `
	SELECT week_number, start_date, end_date
	FROM gameweeks
	WHERE season_year = (SELECT MAX(season_year) FROM gameweeks)
	ORDER BY week_number`

type Directory struct {
	db  *sql.DB
	loc *time.Location
	now func() time.Time
}

var _ repository.Directory = (*Directory)(nil)

// Open opens the database at dsn and checks that it is reachable.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", dsn, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite %s: %w", dsn, err)
	}
	return db, nil
}

func NewDirectory(db *sql.DB, loc *time.Location) *Directory {
	if loc == nil {
		loc = time.UTC
	}
	return &Directory{db: db, loc: loc, now: time.Now}
}

func (d *Directory) Players(ctx context.Context) ([]models.Player, error) {
	rows, err := d.db.QueryContext(ctx, playersQuery)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var (
			p          models.Player
			position   string
			salary     float64
			fantasyAvg float64
			games      int
			minutes    sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &p.Name, &position, &salary, &p.TeamID, &p.Team, &fantasyAvg, &games, &minutes); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}

		p.Positions, err = models.ParsePositions(position)
		if err != nil || p.Positions.IsZero() {
			slog.Warn("Skipping player without a usable position", "player_id", p.ID, "position", position)
			continue
		}
		p.Salary = decimal.NewFromFloat(salary)
		p.FantasyAvg = &fantasyAvg
		p.GamesPlayed = &games
		if minutes.Valid {
			avg := minutes.Float64
			p.AvgMinutes = &avg
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating players: %w", err)
	}
	return players, nil
}

func (d *Directory) Gameweeks(ctx context.Context) ([]models.Gameweek, error) {
	rows, err := d.db.QueryContext(ctx, gameweeksQuery)
	if err != nil {
		return nil, fmt.Errorf("querying gameweeks: %w", err)
	}
	defer rows.Close()

	now := d.now().In(d.loc)
	var gameweeks []models.Gameweek
	for rows.Next() {
		var (
			week       int
			start, end string
		)
		if err := rows.Scan(&week, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning gameweek: %w", err)
		}

		startDate, err := time.ParseInLocation(dateLayout, start, d.loc)
		if err != nil {
			return nil, fmt.Errorf("gameweek %d start date: %w", week, err)
		}
		endDate, err := time.ParseInLocation(dateLayout, end, d.loc)
		if err != nil {
			return nil, fmt.Errorf("gameweek %d end date: %w", week, err)
		}

		gameweeks = append(gameweeks, models.Gameweek{
			ID:        week,
			Label:     fmt.Sprintf("Gameweek %d (%s - %s)", week, startDate.Format("Jan 02"), endDate.Format("Jan 02")),
			Status:    statusAt(now, startDate, endDate),
			StartDate: start,
			EndDate:   end,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating gameweeks: %w", err)
	}
	return gameweeks, nil
}

// statusAt treats the end date as inclusive: a week is past only once its
// last day is over.
func statusAt(now, start, end time.Time) models.GameweekStatus {
	switch {
	case !now.Before(end.AddDate(0, 0, 1)):
		return models.GameweekPast
	case !now.Before(start):
		return models.GameweekActive
	default:
		return models.GameweekUpcoming
	}
}
