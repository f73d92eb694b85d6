// Package directory indexes the player pool for lookups by id and name.
package directory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/omarshaarawi/courtside/internal/roster"
)

var ErrUnknownPlayer = errors.New("unknown player")

const nameMatchThreshold = 0.7

type Index struct {
	byID    map[int]models.Player
	players []models.Player
	names   []string
}

func NewIndex(players []models.Player) *Index {
	idx := &Index{
		byID:    make(map[int]models.Player, len(players)),
		players: make([]models.Player, 0, len(players)),
	}
	for _, p := range players {
		if _, dup := idx.byID[p.ID]; dup {
			continue
		}
		idx.byID[p.ID] = p
		idx.players = append(idx.players, p)
	}
	sort.Slice(idx.players, func(i, j int) bool {
		return idx.players[i].ID < idx.players[j].ID
	})
	idx.names = make([]string, len(idx.players))
	for i, p := range idx.players {
		idx.names[i] = p.Name
	}
	return idx
}

func (idx *Index) Len() int {
	return len(idx.players)
}

// Lookup matches the signature roster.Restore expects.
func (idx *Index) Lookup(id int) (models.Player, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

func (idx *Index) Get(id int) (models.Player, error) {
	p, ok := idx.byID[id]
	if !ok {
		return models.Player{}, fmt.Errorf("player %d: %w", id, ErrUnknownPlayer)
	}
	return p, nil
}

// ByGroup returns the players eligible for a roster group, by salary then id.
func (idx *Index) ByGroup(g roster.Group) []models.Player {
	var out []models.Player
	for _, p := range idx.players {
		if g.Accepts(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Salary.GreaterThan(out[j].Salary)
	})
	return out
}

// Search ranks players whose name fuzzily contains query. A nil group
// searches the whole pool. Limit <= 0 means no limit.
func (idx *Index) Search(query string, group *roster.Group, limit int) []models.Player {
	query = strings.TrimSpace(query)
	if query == "" {
		var out []models.Player
		for _, p := range idx.players {
			if group == nil || group.Accepts(p) {
				out = append(out, p)
			}
		}
		return truncate(out, limit)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, idx.names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]models.Player, 0, len(ranks))
	for _, r := range ranks {
		p := idx.players[r.OriginalIndex]
		if group != nil && !group.Accepts(p) {
			continue
		}
		out = append(out, p)
	}
	return truncate(out, limit)
}

// FindByName returns the closest full-name match by edit distance, or
// ErrUnknownPlayer when nothing is similar enough.
func (idx *Index) FindByName(name string) (models.Player, error) {
	target := strings.ToLower(strings.TrimSpace(name))
	if target == "" {
		return models.Player{}, fmt.Errorf("empty name: %w", ErrUnknownPlayer)
	}

	best := -1
	bestSimilarity := 0.0
	for i, p := range idx.players {
		full := strings.ToLower(p.Name)
		if full == target {
			return p, nil
		}
		distance := fuzzy.LevenshteinDistance(target, full)
		maxLen := float64(max(len(target), len(full)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > nameMatchThreshold && similarity > bestSimilarity {
			best = i
			bestSimilarity = similarity
		}
	}
	if best < 0 {
		ranked := idx.Search(name, nil, 1)
		if len(ranked) == 1 {
			return ranked[0], nil
		}
		return models.Player{}, fmt.Errorf("%q: %w", name, ErrUnknownPlayer)
	}
	return idx.players[best], nil
}

func truncate(players []models.Player, limit int) []models.Player {
	if limit > 0 && len(players) > limit {
		return players[:limit]
	}
	return players
}
