// Package scene sequences level loads and unloads against a Scene Host and
// publishes lifecycle notifications around each transition.
package scene

import "errors"

// Index identifies a level in the catalog.
type Index int

// NoLevel is the current level before the first transition completes.
const NoLevel Index = -1

var (
	ErrInvalidLevelIndex       = errors.New("scene: invalid level index")
	ErrTransitionInProgress    = errors.New("scene: transition already in progress")
	ErrSceneHost               = errors.New("scene: scene host failure")
	ErrDuplicateInitialization = errors.New("scene: sequencer already initialized")
)

// Catalog is the ordered registry of loadable levels, indexed 0..Count()-1.
type Catalog interface {
	Count() int
	MenuIndex() Index
}

// Host loads and unloads levels asynchronously. Both calls return
// immediately; the returned operation completes when the work is done.
type Host interface {
	LoadAdditive(index Index) *Operation
	Unload(index Index) *Operation
}

func validIndex(c Catalog, i Index) bool {
	return i >= 0 && int(i) < c.Count()
}
