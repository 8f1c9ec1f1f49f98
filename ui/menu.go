// Package ui holds the main menu input glue, the loading overlay and the
// ebitenui views that present them.
package ui

import (
	"errors"
	"log"

	"github.com/milk9111/snowfight/scene"
)

// Advancer is the part of the sequencer the menu drives.
type Advancer interface {
	IsTransitioning() bool
	CurrentLevel() scene.Index
	LoadNext() (*scene.Transition, error)
}

// MenuController turns "any input" on the main menu into a LoadNext
// request.
type MenuController struct {
	seq  Advancer
	menu func() scene.Index

	held bool
}

// NewMenuController builds a controller for seq. menu reports the catalog's
// menu index at the time of the press.
func NewMenuController(seq Advancer, menu func() scene.Index) *MenuController {
	return &MenuController{seq: seq, menu: menu}
}

// OnAdvance is called every frame with whether any input is down. Only the
// frame the input goes down counts, and only while the menu is showing and
// no transition is running. It returns the started transition, if any.
func (m *MenuController) OnAdvance(pressed bool) *scene.Transition {
	edge := pressed && !m.held
	m.held = pressed
	if !edge {
		return nil
	}
	if m.seq.IsTransitioning() || m.seq.CurrentLevel() != m.menu() {
		return nil
	}

	t, err := m.seq.LoadNext()
	if err != nil {
		if !errors.Is(err, scene.ErrTransitionInProgress) {
			log.Printf("menu: advance: %v", err)
		}
		return nil
	}
	return t
}
