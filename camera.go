package main

import "math"

// Camera centers the view on a world point and eases toward new targets and
// zoom levels.
type Camera struct {
	PosX float64
	PosY float64

	screenW float64
	screenH float64
	zoom    float64

	// smoothing factor (0..1). higher -> faster follow
	smooth float64
	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		PosX:    float64(screenW) / 2,
		PosY:    float64(screenH) / 2,
		screenW: float64(screenW),
		screenH: float64(screenH),
		zoom:    1,
		smooth:  0.15,
	}
}

// SetWorldBounds sets the world pixel dimensions for clamping camera position.
func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW = w
	c.worldH = h
}

func (c *Camera) Zoom() float64 { return c.zoom }

// Update moves the camera toward the target point and zoom. Call once per
// tick so smoothing is frame-rate independent of drawing.
func (c *Camera) Update(targetX, targetY, zoom float64) {
	if zoom > 0 {
		c.zoom += (zoom - c.zoom) * c.smooth
	}
	c.PosX += (targetX - c.PosX) * c.smooth
	c.PosY += (targetY - c.PosY) * c.smooth
	c.constrain()
}

// SnapTo places the camera immediately, e.g. after a level load.
func (c *Camera) SnapTo(x, y, zoom float64) {
	if zoom > 0 {
		c.zoom = zoom
	}
	c.PosX = x
	c.PosY = y
	c.constrain()
}

// ViewTopLeft returns the world-space top-left of the current view.
func (c *Camera) ViewTopLeft() (float64, float64) {
	return c.PosX - c.screenW/c.zoom/2, c.PosY - c.screenH/c.zoom/2
}

func (c *Camera) WorldToScreen(x, y float64) (float64, float64) {
	left, top := c.ViewTopLeft()
	return (x - left) * c.zoom, (y - top) * c.zoom
}

func (c *Camera) ScreenToWorld(x, y float64) (float64, float64) {
	left, top := c.ViewTopLeft()
	return x/c.zoom + left, y/c.zoom + top
}

func (c *Camera) constrain() {
	// snap position to 1/zoom grid to align to integer screen pixels
	c.PosX = math.Round(c.PosX*c.zoom) / c.zoom
	c.PosY = math.Round(c.PosY*c.zoom) / c.zoom

	halfW := c.screenW / c.zoom / 2
	halfH := c.screenH / c.zoom / 2
	if c.worldW > 0 {
		c.PosX = clampAxis(c.PosX, halfW, c.worldW)
	}
	if c.worldH > 0 {
		c.PosY = clampAxis(c.PosY, halfH, c.worldH)
	}
}

// clampAxis keeps a view of half-size half inside [0, size], centering it
// when the world is smaller than the view.
func clampAxis(v, half, size float64) float64 {
	lo, hi := half, size-half
	if hi < lo {
		return size / 2
	}
	return math.Max(lo, math.Min(v, hi))
}
