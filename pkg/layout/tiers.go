package layout

import (
	"math"
	"sort"

	"github.com/hubgraph/hubgraph/pkg/derive"
	"github.com/hubgraph/hubgraph/pkg/model"
)

// Tier boundaries on hub_count. Tier 0 is the inner ring.
const (
	TierInnerMin = 40
	TierMidMin   = 30

	// outerAvatarMin is the hub_count at which outer-ring nodes still show
	// profile imagery.
	outerAvatarMin = 25
)

type tierSpec struct {
	ringFrac     float64 // ring radius as a fraction of min(width, height)/2
	rMin, rMax   float64 // node radius bounds
	hubLo, hubHi int     // hub_count span for radius interpolation
}

var tierSpecs = [3]tierSpec{
	{ringFrac: 0.38, rMin: 16, rMax: 24, hubLo: TierInnerMin, hubHi: 60},
	{ringFrac: 0.66, rMin: 12, rMax: 16, hubLo: TierMidMin, hubHi: TierInnerMin - 1},
	{ringFrac: 0.92, rMin: 8, rMax: 12, hubLo: 20, hubHi: TierMidMin - 1},
}

// tierOf buckets a hub_count. Exhaustive and exclusive: every value lands in
// exactly one tier.
func tierOf(hubCount int) int {
	switch {
	case hubCount >= TierInnerMin:
		return 0
	case hubCount >= TierMidMin:
		return 1
	default:
		return 2
	}
}

// Tiers is the closed-form concentric view: recommendations bucketed into
// three rings by hub_count, evenly spaced from the top clockwise, inner
// rings first. No simulation, no randomness; the same input and size always
// produce the same positions, recomputed from scratch on every change.
type Tiers struct {
	bodies   []*Body
	byHandle map[string]*Body
	drag     dragState
}

func NewTiers() *Tiers { return &Tiers{} }

func (e *Tiers) Name() string { return "tiers" }

func (e *Tiers) SetData(fs derive.FilteredSet, width, height float64) {
	e.bodies = e.bodies[:0]
	e.byHandle = make(map[string]*Body)

	var buckets [3][]*Body
	for _, r := range fs.Recommendations {
		b := &Body{
			Handle:   r.Handle,
			Name:     r.Name,
			Kind:     model.KindRecommendation,
			HubCount: r.HubCount,
		}
		t := tierOf(r.HubCount)
		b.Radius = tierNodeRadius(t, r.HubCount)
		b.Avatar = t < 2 || r.HubCount >= outerAvatarMin
		buckets[t] = append(buckets[t], b)
	}

	cx, cy := width/2, height/2
	half := math.Min(width, height) / 2
	for t, bucket := range buckets {
		// Hub-count descending, input order breaking ties.
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].HubCount > bucket[j].HubCount
		})
		ring := tierSpecs[t].ringFrac * half
		step := 0.0
		if len(bucket) > 0 {
			step = 2 * math.Pi / float64(len(bucket))
		}
		for i, b := range bucket {
			// Start at the top, proceed clockwise (screen y grows down). A
			// single-member tier sits at the top.
			angle := -math.Pi/2 + step*float64(i)
			b.X = cx + ring*math.Cos(angle)
			b.Y = cy + ring*math.Sin(angle)
			e.bodies = append(e.bodies, b)
			e.byHandle[b.Handle] = b
		}
	}
	e.drag = dragState{}
}

// tierNodeRadius interpolates within the tier's radius bounds by where
// hub_count falls in the tier's span, clamped at both ends (tier 0 is
// open-ended above its nominal max).
func tierNodeRadius(tier, hubCount int) float64 {
	spec := tierSpecs[tier]
	span := float64(spec.hubHi - spec.hubLo)
	t := 0.0
	if span > 0 {
		t = (float64(hubCount) - float64(spec.hubLo)) / span
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return spec.rMin + t*(spec.rMax-spec.rMin)
}

// Step is a no-op; tier placement needs no settling.
func (e *Tiers) Step() bool { return false }

func (e *Tiers) Settled() bool { return true }

func (e *Tiers) Bodies() []*Body { return e.bodies }

// Segments returns nil: the tier view renders rings, not edges.
func (e *Tiers) Segments() []Segment { return nil }

func (e *Tiers) NodeAt(x, y float64) *Body { return bodyAt(e.bodies, x, y) }

func (e *Tiers) BeginDrag(handle string) { e.drag.begin(e.bodies, handle) }

func (e *Tiers) DragTo(x, y float64) { e.drag.moveTo(x, y) }

func (e *Tiers) EndDrag() { e.drag.end() }
