package game

import "github.com/pthm-cable/surfaceplay/systems"

// buildFrame writes one circle per surviving particle into the back buffer.
// With links enabled, a particle above the link threshold first draws a line,
// in its own color, to every smaller-than-threshold survivor within
// the link range of its current cell.
func (s *Simulation) buildFrame(tick int32) {
	cfg := s.cfg
	links := cfg.Render.Links
	threshold := cfg.Derived.LinkThreshold32
	linkRange := cfg.Render.LinkRange

	s.back.Reset(tick)

	for i, p := range s.particles {
		if s.culled[i] {
			continue
		}
		color := s.colorOf(i)

		if links && p.Body.Size > threshold {
			s.neighbors = s.grid.NeighborsAt(s.neighbors[:0], p.Pos.X, p.Pos.Y, linkRange)
			for _, j := range s.neighbors {
				q := s.particles[j]
				if s.culled[j] || q.Body.Size >= threshold {
					continue
				}
				s.back.AddLine(p.Pos.X, p.Pos.Y, q.Pos.X, q.Pos.Y, color)
			}
		}

		s.back.AddCircle(p.Pos.X, p.Pos.Y, p.Body.Size, color)
	}
}

// colorOf returns the draw color of slot i under the configured policy.
func (s *Simulation) colorOf(i int) uint32 {
	if s.cfg.Derived.RandomColors {
		return s.tints[i]
	}
	p := s.particles[i]
	return systems.DeriveColor(p.Pos.X, p.Pos.Y, p.Body.Size, s.bounds)
}

// publishFrame swaps the back buffer in as the latest frame.
func (s *Simulation) publishFrame() {
	s.frameMu.Lock()
	s.front, s.back = s.back, s.front
	s.frameMu.Unlock()
}
