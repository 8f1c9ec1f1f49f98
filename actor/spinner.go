package actor

import (
	"math"
	"time"
)

// Spinner is a decoration that turns at a constant rate.
type Spinner struct {
	X, Y  float64
	Size  float64
	Speed float64 // degrees per second, negative turns counter-clockwise
	Angle float64 // degrees in [0, 360)
}

func (s *Spinner) Update(dt time.Duration) {
	s.Angle = math.Mod(s.Angle+s.Speed*dt.Seconds(), 360)
	if s.Angle < 0 {
		s.Angle += 360
	}
}
