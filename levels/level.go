package levels

import (
	"encoding/json"
	"fmt"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Spinner is a decoration that rotates at a constant rate (degrees/second).
type Spinner struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Speed float64 `json:"speed"`
}

type Target struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Level is the on-disk layout of one level.
type Level struct {
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Spawn    Point     `json:"spawn"`
	Walls    []Rect    `json:"walls,omitempty"`
	Spinners []Spinner `json:"spinners,omitempty"`
	Targets  []Target  `json:"targets,omitempty"`
}

func LoadLevel(file string) (*Level, error) {
	data, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("levels: read %s: %w", file, err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", file, err)
	}
	return lvl, nil
}

func ParseLevel(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("level size %gx%g must be positive", lvl.Width, lvl.Height)
	}
	for i, w := range lvl.Walls {
		if w.W <= 0 || w.H <= 0 {
			return nil, fmt.Errorf("wall %d has non-positive size", i)
		}
	}
	for i, tg := range lvl.Targets {
		if tg.Radius <= 0 {
			return nil, fmt.Errorf("target %d has non-positive radius", i)
		}
	}
	return &lvl, nil
}
