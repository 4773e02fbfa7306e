package layout

import "math"

// Link is a spring between two bodies by index. Distance is the rest
// separation; Strength scales the pull per tick.
type Link struct {
	I, J     int
	Distance float64
	Strength float64
}

// Config tunes the force terms. Zero-valued terms are disabled.
type Config struct {
	// Repulsion is the many-body push strength between all pairs, capped
	// beyond MaxInteraction for performance.
	Repulsion      float64
	MaxInteraction float64

	// CenterStrength pulls the whole layout toward the viewport center.
	CenterStrength float64

	// CollidePadding separates overlapping bodies beyond their summed radii.
	// Collision runs whenever the padding is non-negative; set to a negative
	// value to disable.
	CollidePadding float64

	// RadialTarget, when non-nil, gives each body a target orbit radius;
	// RadialStrength scales the pull toward it.
	RadialTarget   func(b *Body) float64
	RadialStrength float64

	Damping    float64
	AlphaDecay float64
	AlphaMin   float64
}

// DefaultConfig matches the tuning the interactive views settled on.
func DefaultConfig() Config {
	return Config{
		Repulsion:      2500,
		MaxInteraction: 400,
		CenterStrength: 0.02,
		CollidePadding: 2,
		Damping:        0.85,
		AlphaDecay:     0.0228,
		AlphaMin:       0.005,
	}
}

// Simulation is an explicit per-tick integrator over a fixed body set.
// State machine: simulating while alpha >= AlphaMin, settled below it;
// Reheat (drag) pushes alpha back up, Release lets it decay again. The
// caller owns the tick cadence; the simulation never schedules anything.
type Simulation struct {
	Bodies []*Body
	Links  []Link

	cfg         Config
	cx, cy      float64
	alpha       float64
	alphaTarget float64
}

// NewSimulation seeds bodies that have no position yet on a deterministic
// phyllotaxis spiral around the layout center and starts hot.
func NewSimulation(bodies []*Body, links []Link, cfg Config, width, height float64) *Simulation {
	s := &Simulation{
		Bodies: bodies,
		Links:  links,
		cfg:    cfg,
		cx:     width / 2,
		cy:     height / 2,
		alpha:  1,
	}
	s.seedPositions()
	return s
}

// seedPositions places unpositioned bodies on the phyllotaxis spiral. Bodies
// that already carry a position (relayout after a filter toggle) keep it so
// the scene does not jump.
func (s *Simulation) seedPositions() {
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	const initialRadius = 12.0
	for i, b := range s.Bodies {
		if b.X != 0 || b.Y != 0 {
			continue
		}
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := goldenAngle * float64(i)
		b.X = s.cx + r*math.Cos(a)
		b.Y = s.cy + r*math.Sin(a)
	}
}

// Alpha exposes the current temperature, mainly for tests.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Settled reports whether the temperature has decayed past the stop
// threshold.
func (s *Simulation) Settled() bool { return s.alpha < s.cfg.AlphaMin }

// Reheat re-energizes the simulation for dragging; neighbors keep reacting
// while the pointer holds a body.
func (s *Simulation) Reheat() {
	s.alphaTarget = 0.3
	if s.alpha < 0.3 {
		s.alpha = 0.3
	}
}

// Release lets the simulation cool back toward settled.
func (s *Simulation) Release() { s.alphaTarget = 0 }

// Step advances one tick and reports whether the simulation is still hot.
// It is a pure state transition over body positions/velocities; no timers,
// no goroutines, no wall clock.
func (s *Simulation) Step() bool {
	if s.Settled() && s.alphaTarget == 0 {
		return false
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.applyLinks()
	s.applyManyBody()
	s.applyCenter()
	s.applyRadial()

	for _, b := range s.Bodies {
		if b.Fixed {
			b.VX, b.VY = 0, 0
			continue
		}
		b.VX *= s.cfg.Damping
		b.VY *= s.cfg.Damping
		b.X += b.VX
		b.Y += b.VY
	}

	if s.cfg.CollidePadding >= 0 {
		s.applyCollide()
	}
	return !s.Settled()
}

func (s *Simulation) applyLinks() {
	for _, l := range s.Links {
		a, b := s.Bodies[l.I], s.Bodies[l.J]
		dx, dy := b.X-a.X, b.Y-a.Y
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dy, dist = 1e-6, 1e-6, 1e-6
		}
		// Spring toward the rest distance, split across both ends.
		f := (dist - l.Distance) / dist * l.Strength * s.alpha
		fx, fy := dx*f*0.5, dy*f*0.5
		if !a.Fixed {
			a.VX += fx
			a.VY += fy
		}
		if !b.Fixed {
			b.VX -= fx
			b.VY -= fy
		}
	}
}

func (s *Simulation) applyManyBody() {
	if s.cfg.Repulsion == 0 {
		return
	}
	maxSq := s.cfg.MaxInteraction * s.cfg.MaxInteraction
	n := len(s.Bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := s.Bodies[i], s.Bodies[j]
			dx, dy := b.X-a.X, b.Y-a.Y
			distSq := dx*dx + dy*dy
			if distSq == 0 {
				dx, dy, distSq = 1e-3, 1e-3, 2e-6
			}
			if maxSq > 0 && distSq > maxSq {
				continue
			}
			f := s.cfg.Repulsion / distSq * s.alpha
			dist := math.Sqrt(distSq)
			fx, fy := dx/dist*f, dy/dist*f
			if !a.Fixed {
				a.VX -= fx
				a.VY -= fy
			}
			if !b.Fixed {
				b.VX += fx
				b.VY += fy
			}
		}
	}
}

func (s *Simulation) applyCenter() {
	if s.cfg.CenterStrength == 0 {
		return
	}
	for _, b := range s.Bodies {
		if b.Fixed {
			continue
		}
		b.VX += (s.cx - b.X) * s.cfg.CenterStrength * s.alpha
		b.VY += (s.cy - b.Y) * s.cfg.CenterStrength * s.alpha
	}
}

func (s *Simulation) applyRadial() {
	if s.cfg.RadialTarget == nil || s.cfg.RadialStrength == 0 {
		return
	}
	for _, b := range s.Bodies {
		if b.Fixed {
			continue
		}
		dx, dy := b.X-s.cx, b.Y-s.cy
		dist := math.Hypot(dx, dy)
		if dist == 0 {
			dx, dist = 1e-6, 1e-6
		}
		target := s.cfg.RadialTarget(b)
		f := (target - dist) / dist * s.cfg.RadialStrength * s.alpha
		b.VX += dx * f
		b.VY += dy * f
	}
}

// applyCollide is a positional pass separating overlapping pairs by their
// summed radii plus padding. One sweep per tick keeps it cheap; residual
// overlap resolves over subsequent ticks.
func (s *Simulation) applyCollide() {
	n := len(s.Bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := s.Bodies[i], s.Bodies[j]
			minDist := a.Radius + b.Radius + s.cfg.CollidePadding
			dx, dy := b.X-a.X, b.Y-a.Y
			dist := math.Hypot(dx, dy)
			if dist >= minDist {
				continue
			}
			if dist == 0 {
				dx, dy, dist = 1e-3, 1e-3, math.Sqrt2 * 1e-3
			}
			push := (minDist - dist) / dist / 2
			px, py := dx*push, dy*push
			if !a.Fixed {
				a.X -= px
				a.Y -= py
			}
			if !b.Fixed {
				b.X += px
				b.Y += py
			}
		}
	}
}
