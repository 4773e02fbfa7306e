package layout

import "github.com/hubgraph/hubgraph/pkg/derive"

// Engine is the shared contract across the four views. SetData fully
// recomputes derived state for the given filtered set and viewport size;
// positions may carry over where an engine chooses to. Step advances
// simulated engines one tick and reports whether more ticks are needed
// (closed-form engines always report false). Drag routes pointer control of
// a single body through the engine so simulated layouts can re-energize.
type Engine interface {
	Name() string
	SetData(fs derive.FilteredSet, width, height float64)
	Step() bool
	Settled() bool
	Bodies() []*Body
	Segments() []Segment
	NodeAt(x, y float64) *Body
	BeginDrag(handle string)
	DragTo(x, y float64)
	EndDrag()
}

// dragState implements the pointer-drag half of the Engine contract for
// simulation-backed engines.
type dragState struct {
	body *Body
}

func (d *dragState) begin(bodies []*Body, handle string) *Body {
	for _, b := range bodies {
		if b.Handle == handle {
			b.Fixed = true
			d.body = b
			return b
		}
	}
	return nil
}

func (d *dragState) moveTo(x, y float64) {
	if d.body == nil {
		return
	}
	d.body.X = x
	d.body.Y = y
}

func (d *dragState) end() {
	if d.body == nil {
		return
	}
	d.body.Fixed = false
	d.body = nil
}
