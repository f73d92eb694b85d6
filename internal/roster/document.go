package roster

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/omarshaarawi/courtside/internal/models"
	"github.com/shopspring/decimal"
)

var ErrMalformedDocument = errors.New("malformed roster document")

type SlotRecord struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Positions models.Positions `json:"positions"`
	Salary    decimal.Decimal  `json:"salary"`
	Team      string           `json:"team"`
}

// Document is the persisted form of a roster: two 5-element arrays with null
// for empty slots.
type Document struct {
	Backcourt  []*SlotRecord `json:"backcourt"`
	Frontcourt []*SlotRecord `json:"frontcourt"`
}

func Encode(r *Roster) ([]byte, error) {
	doc := Document{
		Backcourt:  make([]*SlotRecord, models.SlotsPerGroup),
		Frontcourt: make([]*SlotRecord, models.SlotsPerGroup),
	}
	for i := 0; i < models.SlotsPerGroup; i++ {
		if p, ok := r.Slot(Backcourt, i); ok {
			doc.Backcourt[i] = recordFor(p)
		}
		if p, ok := r.Slot(Frontcourt, i); ok {
			doc.Frontcourt[i] = recordFor(p)
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding roster: %w", err)
	}
	return b, nil
}

// slotRef is the part of a SlotRecord that Restore trusts. The other fields
// are informational and never fail a restore.
type slotRef struct {
	ID int `json:"id"`
}

// Restore rebuilds a roster from a persisted document, resolving each entry
// by id through lookup. A structurally invalid document yields an empty
// roster and ErrMalformedDocument. Entries whose id is unknown, or which no
// longer fit their slot, are left empty.
func Restore(data []byte, lookup func(id int) (models.Player, bool)) (*Roster, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return New(), fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	groups := [2][]*slotRef{}
	for g, name := range []string{"backcourt", "frontcourt"} {
		msg, ok := raw[name]
		if !ok {
			return New(), fmt.Errorf("%w: missing %s", ErrMalformedDocument, name)
		}
		var records []*slotRef
		if err := json.Unmarshal(msg, &records); err != nil {
			return New(), fmt.Errorf("%w: %s: %v", ErrMalformedDocument, name, err)
		}
		if len(records) > models.SlotsPerGroup {
			return New(), fmt.Errorf("%w: %s has %d slots", ErrMalformedDocument, name, len(records))
		}
		groups[g] = records
	}

	r := New()
	for g, records := range groups {
		for i, rec := range records {
			if rec == nil {
				continue
			}
			p, ok := lookup(rec.ID)
			if !ok {
				continue
			}
			// Capability or duplicate failures leave the slot empty.
			_ = r.Assign(Group(g), i, p)
		}
	}
	return r, nil
}

func recordFor(p models.Player) *SlotRecord {
	return &SlotRecord{
		ID:        p.ID,
		Name:      p.Name,
		Positions: p.Positions,
		Salary:    p.Salary,
		Team:      p.Team,
	}
}
