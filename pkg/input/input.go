// Package input maps raw key state to stable per-frame movement and
// rotation intents, decoupled from event timing.
package input

import "strings"

// Intent is a bitset of movement/rotation actions asserted this frame.
type Intent uint16

// Intent flags
const (
	MoveForward Intent = 1 << iota
	MoveBack
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	RotateUp
	RotateDown
	RotateLeft
	RotateRight

	// None is the zero intent: no keys held.
	None Intent = 0
)

var intentNames = []struct {
	flag Intent
	name string
}{
	{MoveForward, "MoveForward"},
	{MoveBack, "MoveBack"},
	{MoveLeft, "MoveLeft"},
	{MoveRight, "MoveRight"},
	{MoveUp, "MoveUp"},
	{MoveDown, "MoveDown"},
	{RotateUp, "RotateUp"},
	{RotateDown, "RotateDown"},
	{RotateLeft, "RotateLeft"},
	{RotateRight, "RotateRight"},
}

// Has reports whether all flags in want are asserted.
func (i Intent) Has(want Intent) bool {
	return i&want == want
}

// Any reports whether at least one flag is asserted.
func (i Intent) Any() bool {
	return i != None
}

// String returns a pipe-separated list of asserted flags.
func (i Intent) String() string {
	if i == None {
		return "None"
	}
	var parts []string
	for _, in := range intentNames {
		if i.Has(in.flag) {
			parts = append(parts, in.name)
		}
	}
	return strings.Join(parts, "|")
}

// Key identifies a physical key in the enumerated set the viewer cares
// about. The platform layer translates these to backend key codes.
type Key int

// Key constants for keyboard input
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyLeftShift
	KeySpace
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
)

// KeySource reports whether a key is currently held. Implementations
// must be non-blocking; an unknown key simply reads as not held.
type KeySource interface {
	KeyHeld(key Key) bool
}

// Poller converts raw key state into an Intent each frame.
type Poller struct {
	source   KeySource
	bindings map[Key]Intent
}

// DefaultBindings returns the standard WASD + Shift/Space + arrow-key map.
func DefaultBindings() map[Key]Intent {
	return map[Key]Intent{
		KeyW:          MoveForward,
		KeyS:          MoveBack,
		KeyA:          MoveLeft,
		KeyD:          MoveRight,
		KeySpace:      MoveUp,
		KeyLeftShift:  MoveDown,
		KeyArrowUp:    RotateUp,
		KeyArrowDown:  RotateDown,
		KeyArrowLeft:  RotateLeft,
		KeyArrowRight: RotateRight,
	}
}

// NewPoller creates a poller over the given key source. A nil bindings
// map selects DefaultBindings.
func NewPoller(source KeySource, bindings map[Key]Intent) *Poller {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Poller{
		source:   source,
		bindings: bindings,
	}
}

// Poll reads the current key state and returns the asserted intents.
// It never blocks; with no keys held it returns None.
func (p *Poller) Poll() Intent {
	var intent Intent
	for key, flag := range p.bindings {
		if p.source.KeyHeld(key) {
			intent |= flag
		}
	}
	return intent
}
