package tracker

import (
	"time"

	"toolup/pkg/display"
	"toolup/pkg/notify"
)

// DebounceWindow is how long a download must run before Single draws it.
const DebounceWindow = time.Second

// SingleDownload is the state of the download Single is tracking.
type SingleDownload struct {
	Row      display.RowID
	Hidden   bool
	Total    int64
	HasTotal bool
	Consumed int64
	// Started is when the row was created, not when the first byte arrived.
	Started time.Time
}

// Single tracks one download at a time on a single row. The row is hidden
// until the download has run for DebounceWindow on a terminal with display
// enabled, and is replaced by a fresh hidden row after every finish.
// Mutable
type Single struct {
	sink    display.Sink
	opts    options
	cur     SingleDownload
	lastRow display.RowID
}

// NewSingle creates a Single drawing to sink and allocates its first,
// hidden, row.
func NewSingle(sink display.Sink, opts ...Option) *Single {
	s := &Single{
		sink: sink,
		opts: newOptions(opts),
	}
	Apply(sink, s.reset()...)
	return s
}

// HandleNotification updates the tracker and the display for n.
func (s *Single) HandleNotification(n notify.Notification) bool {
	return handle(s, s.sink, n)
}

// Step routes n. Data for a non-terminal output is consumed without being
// tracked so that nothing is ever drawn to it.
func (s *Single) Step(n notify.Notification) (bool, []Command) {
	if n.Kind == notify.DataReceived && !s.opts.isTerminal {
		return true, nil
	}
	return dispatch(s, n)
}

// SetTotal sets the size of the current download.
func (s *Single) SetTotal(size int64) {
	Apply(s.sink, s.setTotal("", size)...)
}

// Advance records n more bytes for the current download.
func (s *Single) Advance(n int64) {
	Apply(s.sink, s.advance("", n)...)
}

// Finish clears the current row and prepares a new hidden one.
func (s *Single) Finish() {
	Apply(s.sink, s.finish("")...)
}

// Current returns a copy of the current download state.
func (s *Single) Current() SingleDownload {
	return s.cur
}

func (s *Single) reset() []Command {
	s.lastRow++
	s.cur = SingleDownload{
		Row:     s.lastRow,
		Hidden:  true,
		Started: s.opts.now(),
	}
	return []Command{{Op: OpCreate, Row: s.cur.Row, Visible: false}}
}

// Component starts are not tracked in single file mode.
func (s *Single) create(string) ([]Command, bool) {
	return nil, false
}

func (s *Single) setTotal(_ string, size int64) []Command {
	s.cur.Total, s.cur.HasTotal = size, true
	return []Command{
		{Op: OpSetTotal, Row: s.cur.Row, N: size},
		{Op: OpRestyle, Row: s.cur.Row, Style: display.Downloading},
	}
}

func (s *Single) advance(_ string, n int64) []Command {
	var cmds []Command
	if s.cur.Hidden && s.opts.displayProgress && s.opts.isTerminal &&
		s.opts.now().Sub(s.cur.Started) >= DebounceWindow {
		s.cur.Hidden = false
		cmds = append(cmds, Command{Op: OpShow, Row: s.cur.Row})
	}
	if n > 0 {
		s.cur.Consumed += n
		cmds = append(cmds, Command{Op: OpIncr, Row: s.cur.Row, N: n})
	}
	return cmds
}

func (s *Single) finish(string) []Command {
	cmds := []Command{{Op: OpFinishAndClear, Row: s.cur.Row}}
	return append(cmds, s.reset()...)
}
