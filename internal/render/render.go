// Package render draws table and trial progress for the simulation. The
// simulation core only talks to the Renderer interface, so backends can be
// swapped without touching it.
package render

import (
	"time"

	"github.com/lox/setsim/internal/statistics"
	"github.com/lox/setsim/set"
)

// EventKind identifies what happened on the table
type EventKind int

const (
	// EventDeal is emitted before each search of the table.
	EventDeal EventKind = iota
	// EventCount carries the number of sets visible on the table.
	EventCount
	// EventTake is emitted after a set has been picked up.
	EventTake
	// EventNoSet is emitted when the table has no set and grows by three.
	EventNoSet
	// EventTrialDone is emitted once a deck has been played out.
	EventTrialDone
)

func (k EventKind) String() string {
	switch k {
	case EventDeal:
		return "deal"
	case EventCount:
		return "count"
	case EventTake:
		return "take"
	case EventNoSet:
		return "no-set"
	case EventTrialDone:
		return "trial-done"
	}
	return "unknown"
}

// View is the table state at the time of an event. Slots[:Out] are face up,
// Slots[Out:Left] are still in the deck. Slots is a copy owned by the
// receiver, so events may be kept after the call returns.
type View struct {
	Slots    []set.Slot
	Out      int
	Left     int
	ShowDeck bool
}

// Event is a single render event
type Event struct {
	Kind     EventKind
	View     View
	Triple   [3]set.Card // EventTake
	Sets     int         // EventCount
	Trial    int         // EventTrialDone
	Leftover int         // EventTrialDone
}

// Report is the final summary of a run
type Report struct {
	Stats     *statistics.Statistics
	Seed      int64
	Elapsed   time.Duration
	Cancelled bool
}

// Renderer receives simulation events. Calls are never concurrent.
type Renderer interface {
	Event(Event)
	Report(Report)
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) Event(Event)   {}
func (Nop) Report(Report) {}
func (Nop) Close() error  { return nil }
