package roster

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrCapabilityMismatch = errors.New("player cannot fill this slot group")
	ErrDuplicatePlayer    = errors.New("player already on roster")
	ErrInvalidSlot        = errors.New("invalid roster slot")
)

type Group int

const (
	Backcourt Group = iota
	Frontcourt
)

func (g Group) String() string {
	if g == Frontcourt {
		return "frontcourt"
	}
	return "backcourt"
}

func ParseGroup(s string) (Group, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bc", "backcourt", "b", "g":
		return Backcourt, nil
	case "fc", "frontcourt", "f":
		return Frontcourt, nil
	default:
		return 0, fmt.Errorf("unknown slot group %q", s)
	}
}

// Accepts reports whether p has the capability the group requires.
func (g Group) Accepts(p models.Player) bool {
	if g == Backcourt {
		return p.Positions.Has(models.Guard)
	}
	return p.Positions.Has(models.Forward) || p.Positions.Has(models.Center)
}

// Roster is the fixed-shape 10-slot roster. The zero value is not usable;
// call New.
type Roster struct {
	slots [2][models.SlotsPerGroup]*models.Player
}

func New() *Roster {
	return &Roster{}
}

func (r *Roster) Assign(group Group, index int, player models.Player) error {
	if err := checkSlot(group, index); err != nil {
		return err
	}
	if !group.Accepts(player) {
		return fmt.Errorf("assign %s[%d] %s (%s): %w", group, index, player.Name, player.Positions, ErrCapabilityMismatch)
	}
	if g, i, ok := r.find(player.ID); ok {
		return fmt.Errorf("assign %s[%d] %s: held by %s[%d]: %w", group, index, player.Name, g, i, ErrDuplicatePlayer)
	}

	p := player
	r.slots[group][index] = &p
	return nil
}

func (r *Roster) Remove(group Group, index int) error {
	if err := checkSlot(group, index); err != nil {
		return err
	}
	r.slots[group][index] = nil
	return nil
}

func (r *Roster) Clear() {
	r.slots = [2][models.SlotsPerGroup]*models.Player{}
}

// Slot returns the occupant of a slot, if any.
func (r *Roster) Slot(group Group, index int) (models.Player, bool) {
	if checkSlot(group, index) != nil {
		return models.Player{}, false
	}
	p := r.slots[group][index]
	if p == nil {
		return models.Player{}, false
	}
	return *p, true
}

// Occupants lists non-empty slots, backcourt 0..4 then frontcourt 0..4.
func (r *Roster) Occupants() []models.Player {
	out := make([]models.Player, 0, models.RosterSize)
	for g := range r.slots {
		for _, p := range r.slots[g] {
			if p != nil {
				out = append(out, *p)
			}
		}
	}
	return out
}

func (r *Roster) Len() int {
	n := 0
	for g := range r.slots {
		for _, p := range r.slots[g] {
			if p != nil {
				n++
			}
		}
	}
	return n
}

func (r *Roster) Full() bool {
	return r.Len() == models.RosterSize
}

func (r *Roster) IDs() []int {
	occupants := r.Occupants()
	ids := make([]int, len(occupants))
	for i, p := range occupants {
		ids[i] = p.ID
	}
	return ids
}

// Fingerprint identifies the roster by who is on it, not where.
func (r *Roster) Fingerprint() string {
	return Fingerprint(r.Occupants())
}

func (r *Roster) TotalSalary() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Occupants() {
		total = total.Add(p.Salary)
	}
	return total
}

func (r *Roster) Clone() *Roster {
	c := New()
	for g := range r.slots {
		for i, p := range r.slots[g] {
			if p != nil {
				cp := *p
				c.slots[g][i] = &cp
			}
		}
	}
	return c
}

// Fingerprint joins the players' ids in ascending order.
func Fingerprint(players []models.Player) string {
	ids := make([]int, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func (r *Roster) find(id int) (Group, int, bool) {
	for g := range r.slots {
		for i, p := range r.slots[g] {
			if p != nil && p.ID == id {
				return Group(g), i, true
			}
		}
	}
	return 0, 0, false
}

func checkSlot(group Group, index int) error {
	if group != Backcourt && group != Frontcourt {
		return fmt.Errorf("group %d: %w", group, ErrInvalidSlot)
	}
	if index < 0 || index >= models.SlotsPerGroup {
		return fmt.Errorf("%s[%d]: %w", group, index, ErrInvalidSlot)
	}
	return nil
}
