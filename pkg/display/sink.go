// Package display renders download progress rows on a terminal.
//
// A Sink is driven by the tracker package through row handles the tracker
// allocates itself. Sinks only render; the counters that matter live in the
// tracker.
package display

import "time"

// RowID identifies a progress row within a Sink.
type RowID uint64

// Sink is a terminal progress renderer.
//
// Implementations must ignore operations on unknown rows.
type Sink interface {
	// Create adds a row labelled label. Hidden rows take no screen space
	// until Show is called.
	Create(id RowID, label string, visible bool)
	// SetTotal sets the expected size of the row in bytes.
	SetTotal(id RowID, total int64)
	// Incr advances the row by n bytes.
	Incr(id RowID, n int64)
	// Restyle switches the template used to draw the row.
	Restyle(id RowID, s Style)
	// Show makes a hidden row visible.
	Show(id RowID)
	// Finish freezes the row in its current style. elapsed is the time the
	// row spent in progress and is used by the Downloaded template.
	Finish(id RowID, elapsed time.Duration)
	// FinishAndClear removes the row from the screen.
	FinishAndClear(id RowID)
	// Close releases the terminal.
	Close()
}
