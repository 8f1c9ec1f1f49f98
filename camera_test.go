package main

import (
	"math"
	"testing"
)

func TestCameraRoundTrip(t *testing.T) {
	c := NewCamera(1280, 720)
	c.SnapTo(1000, 800, 2)

	sx, sy := c.WorldToScreen(1000, 800)
	if sx != 640 || sy != 360 {
		t.Fatalf("camera center should map to screen center, got %g,%g", sx, sy)
	}
	wx, wy := c.ScreenToWorld(100, 50)
	bx, by := c.WorldToScreen(wx, wy)
	if math.Abs(bx-100) > 1e-9 || math.Abs(by-50) > 1e-9 {
		t.Fatalf("round trip drifted: %g,%g", bx, by)
	}
}

func TestCameraClampsToWorld(t *testing.T) {
	cases := []struct {
		name         string
		worldW       float64
		worldH       float64
		x, y         float64
		wantX, wantY float64
	}{
		{name: "top_left_corner", worldW: 2000, worldH: 1400, x: 0, y: 0, wantX: 640, wantY: 360},
		{name: "bottom_right_corner", worldW: 2000, worldH: 1400, x: 5000, y: 5000, wantX: 1360, wantY: 1040},
		{name: "inside", worldW: 2000, worldH: 1400, x: 1000, y: 700, wantX: 1000, wantY: 700},
		{name: "world_smaller_than_view", worldW: 600, worldH: 400, x: 10, y: 10, wantX: 300, wantY: 200},
		{name: "unbounded", x: -50, y: -50, wantX: -50, wantY: -50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(1280, 720)
			c.SetWorldBounds(tc.worldW, tc.worldH)
			c.SnapTo(tc.x, tc.y, 1)
			if c.PosX != tc.wantX || c.PosY != tc.wantY {
				t.Fatalf("expected %g,%g got %g,%g", tc.wantX, tc.wantY, c.PosX, c.PosY)
			}
		})
	}
}

func TestCameraEasesTowardTarget(t *testing.T) {
	c := NewCamera(1280, 720)
	c.SnapTo(0, 0, 1)
	c.Update(1000, 0, 2)
	if c.PosX <= 0 || c.PosX >= 1000 {
		t.Fatalf("camera should move part of the way, got %g", c.PosX)
	}
	if c.Zoom() <= 1 || c.Zoom() >= 2 {
		t.Fatalf("zoom should ease toward target, got %g", c.Zoom())
	}
}
