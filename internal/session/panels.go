package session

import "context"

// Panel identifies an independently refreshed view of a session.
type Panel int

const (
	PanelCoverage Panel = iota
	PanelDerived
	PanelAnalysis
	panelCount
)

func (p Panel) String() string {
	switch p {
	case PanelCoverage:
		return "coverage"
	case PanelDerived:
		return "derived"
	case PanelAnalysis:
		return "analysis"
	default:
		return "unknown"
	}
}

type ticket struct {
	panel      Panel
	generation uint64
}

// panelTracker gives each panel a generation counter. Only the response for
// the most recently started request of a panel may be committed. Starting a
// new request cancels the previous one.
type panelTracker struct {
	generations [panelCount]uint64
	cancels     [panelCount]context.CancelFunc
}

func (t *panelTracker) begin(parent context.Context, p Panel) (context.Context, ticket) {
	if cancel := t.cancels[p]; cancel != nil {
		cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	t.generations[p]++
	t.cancels[p] = cancel
	return ctx, ticket{panel: p, generation: t.generations[p]}
}

func (t *panelTracker) current(tk ticket) bool {
	return t.generations[tk.panel] == tk.generation
}

// finish releases the request context of a ticket that is still current.
func (t *panelTracker) finish(tk ticket) {
	if !t.current(tk) {
		return
	}
	if cancel := t.cancels[tk.panel]; cancel != nil {
		cancel()
		t.cancels[tk.panel] = nil
	}
}

func (t *panelTracker) cancel(p Panel) {
	t.generations[p]++
	if cancel := t.cancels[p]; cancel != nil {
		cancel()
		t.cancels[p] = nil
	}
}

func (t *panelTracker) cancelAll() {
	for p := Panel(0); p < panelCount; p++ {
		t.cancel(p)
	}
}
