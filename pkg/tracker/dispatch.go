package tracker

import (
	"toolup/pkg/display"
	"toolup/pkg/notify"
)

// Tracker is a notification handler that drives a display.Sink.
type Tracker interface {
	notify.Handler
	// Step updates the tracker state for n and returns the display commands
	// it produced without applying them. consumed is false for
	// notifications the tracker does not understand.
	Step(n notify.Notification) (consumed bool, cmds []Command)
}

var (
	_ Tracker = (*Multi)(nil)
	_ Tracker = (*Single)(nil)
)

// progressState is the set of operations notifications are routed to.
type progressState interface {
	create(component string) (cmds []Command, ok bool)
	setTotal(file string, size int64) []Command
	advance(file string, n int64) []Command
	finish(file string) []Command
}

// dispatch routes n to the matching operation on s.
func dispatch(s progressState, n notify.Notification) (bool, []Command) {
	switch n.Kind {
	case notify.ContentLengthReceived:
		return true, s.setTotal(n.File, n.Size)
	case notify.DataReceived:
		return true, s.advance(n.File, n.Size)
	case notify.DownloadFinished:
		return true, s.finish(n.File)
	case notify.ComponentStarted:
		cmds, ok := s.create(n.Component)
		return ok, cmds
	case notify.PushUnit, notify.PopUnit:
		// Units are accepted but do not change how rows are drawn yet.
		return true, nil
	default:
		return false, nil
	}
}

func handle(t Tracker, sink display.Sink, n notify.Notification) bool {
	consumed, cmds := t.Step(n)
	Apply(sink, cmds...)
	return consumed
}
