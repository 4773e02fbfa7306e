package layout

import "math"

// Zoom bounds for the scene transform.
const (
	MinScale = 0.2
	MaxScale = 5.0
)

// Viewport is the affine scene transform: uniform scale plus translation,
// applied to the whole layout independently of node-level drag.
type Viewport struct {
	Scale float64
	TX    float64
	TY    float64
}

// NewViewport returns the identity transform.
func NewViewport() Viewport { return Viewport{Scale: 1} }

// Apply maps scene coordinates to screen coordinates.
func (v Viewport) Apply(x, y float64) (float64, float64) {
	return x*v.Scale + v.TX, y*v.Scale + v.TY
}

// Invert maps screen coordinates back to scene coordinates for hit testing.
func (v Viewport) Invert(x, y float64) (float64, float64) {
	return (x - v.TX) / v.Scale, (y - v.TY) / v.Scale
}

// Pan shifts the view by a screen-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.TX += dx
	v.TY += dy
	return v
}

// ZoomAt scales around a screen-space anchor so the point under the pointer
// stays put. The resulting scale is clamped to [MinScale, MaxScale].
func (v Viewport) ZoomAt(factor, ax, ay float64) Viewport {
	next := clampScale(v.Scale * factor)
	if next == v.Scale {
		return v
	}
	// Keep the anchor's scene point fixed on screen.
	sx, sy := v.Invert(ax, ay)
	v.Scale = next
	v.TX = ax - sx*next
	v.TY = ay - sy*next
	return v
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Bounds is an axis-aligned box around placed bodies, radius included.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Bounds) width() float64  { return b.MaxX - b.MinX }
func (b Bounds) height() float64 { return b.MaxY - b.MinY }

// BodyBounds computes the box around bodies; ok is false when there are
// none.
func BodyBounds(bodies []*Body) (Bounds, bool) {
	if len(bodies) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, body := range bodies {
		b.MinX = math.Min(b.MinX, body.X-body.Radius)
		b.MinY = math.Min(b.MinY, body.Y-body.Radius)
		b.MaxX = math.Max(b.MaxX, body.X+body.Radius)
		b.MaxY = math.Max(b.MaxY, body.Y+body.Radius)
	}
	return b, true
}

// FitTo frames bounds inside a width-by-height view with margin, clamped to
// the zoom range. Used for the one-shot auto-fit after a layout settles.
func FitTo(b Bounds, width, height, margin float64) Viewport {
	v := NewViewport()
	bw, bh := b.width(), b.height()
	if bw <= 0 || bh <= 0 || width <= 0 || height <= 0 {
		return v
	}
	scale := clampScale(math.Min((width-2*margin)/bw, (height-2*margin)/bh))
	v.Scale = scale
	v.TX = width/2 - (b.MinX+bw/2)*scale
	v.TY = height/2 - (b.MinY+bh/2)*scale
	return v
}
