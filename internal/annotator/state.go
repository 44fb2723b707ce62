package annotator

import (
	"time"

	"pointerapp/pkg/window"
)

// State is the pointer annotation state. It is owned by the frame routine
// and mutated in place once per frame.
type State struct {
	Position window.Point // last observed pointer position
	LastMove time.Time    // when Position last changed
	Visible  bool         // whether the annotation is painted
}

// NewState returns the initial state: pointer at the origin, hidden,
// idle timer started at now.
func NewState(now time.Time) *State {
	return &State{
		LastMove: now,
	}
}

// Transition describes how a frame changed the visibility of the annotation
type Transition int

const (
	Unchanged Transition = iota
	Shown
	Hidden
)

func (t Transition) String() string {
	switch t {
	case Shown:
		return "shown"
	case Hidden:
		return "hidden"
	default:
		return "unchanged"
	}
}

// Step applies one frame of pointer input to st.
//
// A sample that differs from the stored position in either coordinate is a
// move: it is recorded, the idle timer restarts at now and the annotation is
// hidden. Without a move, the annotation becomes visible once threshold has
// elapsed since the last move. A missing sample (ok == false) never counts as
// a move.
func Step(st *State, sample window.Point, ok bool, now time.Time, threshold time.Duration) (moved bool, tr Transition) {
	wasVisible := st.Visible

	if ok && sample != st.Position {
		st.Position = sample
		st.LastMove = now
		st.Visible = false
		moved = true
	}

	if !moved && now.Sub(st.LastMove) >= threshold {
		st.Visible = true
	}

	switch {
	case !wasVisible && st.Visible:
		tr = Shown
	case wasVisible && !st.Visible:
		tr = Hidden
	}

	return moved, tr
}
