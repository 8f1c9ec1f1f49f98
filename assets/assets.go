// Package assets provides the fonts and colors shared by the game and its
// menus.
package assets

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	Snow      = colornames.Snow
	Ice       = colornames.Lightsteelblue
	Rock      = colornames.Slategray
	Avatar    = colornames.Crimson
	Target    = colornames.Orange
	TargetHit = colornames.Limegreen
	Spinner   = colornames.Mediumpurple
	Crosshair = colornames.Black
	Text      = colornames.White

	// Panel backs the menu and loading overlay.
	Panel = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200}
)

// DefaultBackground is used when a level has no background or it cannot be
// parsed.
var DefaultBackground = colornames.Darkslategray

// Face returns the built-in UI font face.
func Face() ebtext.Face {
	return ebtext.NewGoXFace(basicfont.Face7x13)
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("assets: bad color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("assets: bad color %q: %w", s, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Background resolves a level's background color, falling back to
// DefaultBackground.
func Background(hex string) color.Color {
	if hex == "" {
		return DefaultBackground
	}
	c, err := ParseHex(hex)
	if err != nil {
		return DefaultBackground
	}
	return c
}
