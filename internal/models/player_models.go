package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MinLineup     = 5
	SlotsPerGroup = 5
	RosterSize    = 2 * SlotsPerGroup
)

type Capability uint8

const (
	Guard Capability = 1 << iota
	Forward
	Center
)

// Positions is the set of capabilities a player can fill.
type Positions uint8

func NewPositions(caps ...Capability) Positions {
	var p Positions
	for _, c := range caps {
		p |= Positions(c)
	}
	return p
}

func (p Positions) Has(c Capability) bool {
	return p&Positions(c) != 0
}

func (p Positions) IsZero() bool {
	return p == 0
}

func (p Positions) String() string {
	parts := make([]string, 0, 3)
	if p.Has(Guard) {
		parts = append(parts, "G")
	}
	if p.Has(Forward) {
		parts = append(parts, "F")
	}
	if p.Has(Center) {
		parts = append(parts, "C")
	}
	return strings.Join(parts, "-")
}

// ParsePositions accepts the short directory form ("G", "G-F", "F/C") as well
// as long names ("Guard", "Backcourt", "Frontcourt").
func ParsePositions(s string) (Positions, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '/' || r == ',' || r == ' '
	})

	var p Positions
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "g", "guard", "pg", "sg", "backcourt", "bc":
			p |= Positions(Guard)
		case "f", "forward", "sf", "pf", "frontcourt", "fc":
			p |= Positions(Forward)
		case "c", "center", "centre":
			p |= Positions(Center)
		default:
			return 0, fmt.Errorf("unknown position %q", f)
		}
	}
	return p, nil
}

func (p Positions) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Positions) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		parsed, err := ParsePositions(single)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("positions must be a string or list of strings: %w", err)
	}
	parsed, err := ParsePositions(strings.Join(many, "-"))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

type Player struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Team        string          `json:"team"`
	TeamID      int             `json:"team_id"`
	Positions   Positions       `json:"positions"`
	Salary      decimal.Decimal `json:"salary"`
	FantasyAvg  *float64        `json:"fantasy_avg,omitempty"`
	AvgMinutes  *float64        `json:"avg_minutes,omitempty"`
	GamesPlayed *int            `json:"games_played,omitempty"`
}

// IsBackcourt reports whether the player counts toward the backcourt for
// coverage purposes. Dual-eligible guards count as backcourt.
func (p Player) IsBackcourt() bool {
	return p.Positions.Has(Guard)
}

func (p Player) FantasyAverage() float64 {
	if p.FantasyAvg == nil {
		return 0
	}
	return *p.FantasyAvg
}

type GameweekStatus string

const (
	GameweekPast     GameweekStatus = "past"
	GameweekActive   GameweekStatus = "active"
	GameweekUpcoming GameweekStatus = "upcoming"
)

// ParseGameweekStatus maps wire values onto the three known statuses.
func ParseGameweekStatus(s string) GameweekStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "past", "completed", "finished":
		return GameweekPast
	case "active", "current":
		return GameweekActive
	default:
		return GameweekUpcoming
	}
}

type Gameweek struct {
	ID        int            `json:"id"`
	Label     string         `json:"label"`
	Status    GameweekStatus `json:"status"`
	StartDate string         `json:"start_date,omitempty"`
	EndDate   string         `json:"end_date,omitempty"`
}
