package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/snowfight/actor"
)

const stickDeadzone = 0.2

// Controls is one frame of sampled input.
type Controls struct {
	actor.Input

	// Any is true while any key, mouse button or gamepad button is down.
	Any bool

	Menu     bool
	Next     bool
	Previous bool
}

// rawInput is the device state read from ebiten for one frame.
type rawInput struct {
	left, right, up, down bool

	aim, fire        bool
	cursorX, cursorY int

	menu, next, previous bool
	anyKey, anyMouse     bool

	pad                     bool
	leftX, leftY            float64
	rightX, rightY          float64
	padAim, padFire, padAny bool
	padMenu                 bool
}

// sampleControls reads keyboard, mouse and the first gamepad. The cursor is
// converted to world coordinates through cam.
func sampleControls(cam *Camera, avatarX, avatarY float64) Controls {
	return readInput().controls(cam, avatarX, avatarY)
}

func readInput() rawInput {
	var r rawInput
	r.left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	r.right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	r.up = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	r.down = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	r.aim = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	// held, not just pressed: the avatar's cooldown paces repeat throws
	r.fire = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	r.cursorX, r.cursorY = ebiten.CursorPosition()

	r.menu = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	r.next = inpututil.IsKeyJustPressed(ebiten.KeyPageDown)
	r.previous = inpututil.IsKeyJustPressed(ebiten.KeyPageUp)

	r.anyKey = len(inpututil.AppendPressedKeys(nil)) > 0
	r.anyMouse = r.aim || r.fire

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		r.pad = true
		r.leftX = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		r.leftY = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		r.rightX = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal)
		r.rightY = ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical)
		r.padAim = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		r.padFire = ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		r.padMenu = inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
		for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
			if ebiten.IsStandardGamepadButtonPressed(id, b) {
				r.padAny = true
				break
			}
		}
	}
	return r
}

func (r rawInput) controls(cam *Camera, avatarX, avatarY float64) Controls {
	var c Controls

	if r.left {
		c.MoveX -= 1
	}
	if r.right {
		c.MoveX += 1
	}
	if r.up {
		c.MoveY += 1
	}
	if r.down {
		c.MoveY -= 1
	}
	c.Aim = r.aim
	c.Fire = r.fire
	c.CursorX, c.CursorY = cam.ScreenToWorld(float64(r.cursorX), float64(r.cursorY))

	c.Menu = r.menu
	c.Next = r.next
	c.Previous = r.previous
	c.Any = r.anyKey || r.anyMouse

	if r.pad {
		if math.Hypot(r.leftX, r.leftY) > stickDeadzone {
			// stick up is negative
			c.MoveX, c.MoveY = r.leftX, -r.leftY
		}
		c.Aim = c.Aim || r.padAim
		c.Fire = c.Fire || r.padFire
		c.Menu = c.Menu || r.padMenu
		c.Any = c.Any || r.padAny

		if math.Hypot(r.rightX, r.rightY) > stickDeadzone {
			c.CursorX = avatarX + r.rightX*100
			c.CursorY = avatarY + r.rightY*100
		}
	}

	c.MoveX = clampUnit(c.MoveX)
	c.MoveY = clampUnit(c.MoveY)
	return c
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
