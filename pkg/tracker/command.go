package tracker

import (
	"fmt"
	"time"

	"toolup/pkg/display"
)

// Op is a display operation.
type Op int

const (
	OpCreate Op = iota
	OpSetTotal
	OpIncr
	OpRestyle
	OpShow
	OpFinish
	OpFinishAndClear
)

// Command is a single instruction for a display.Sink.
// Immutable
type Command struct {
	Op      Op
	Row     display.RowID
	Label   string
	Visible bool
	N       int64
	Style   display.Style
	Elapsed time.Duration
}

func (c Command) String() string {
	switch c.Op {
	case OpCreate:
		return fmt.Sprintf("create %d %q visible=%t", c.Row, c.Label, c.Visible)
	case OpSetTotal:
		return fmt.Sprintf("total %d %d", c.Row, c.N)
	case OpIncr:
		return fmt.Sprintf("incr %d %d", c.Row, c.N)
	case OpRestyle:
		return fmt.Sprintf("style %d %s", c.Row, c.Style)
	case OpShow:
		return fmt.Sprintf("show %d", c.Row)
	case OpFinish:
		return fmt.Sprintf("finish %d %s", c.Row, c.Elapsed)
	case OpFinishAndClear:
		return fmt.Sprintf("clear %d", c.Row)
	default:
		return fmt.Sprintf("op(%d) %d", int(c.Op), c.Row)
	}
}

// Apply executes cmds against s in order.
func Apply(s display.Sink, cmds ...Command) {
	for _, c := range cmds {
		switch c.Op {
		case OpCreate:
			s.Create(c.Row, c.Label, c.Visible)
		case OpSetTotal:
			s.SetTotal(c.Row, c.N)
		case OpIncr:
			s.Incr(c.Row, c.N)
		case OpRestyle:
			s.Restyle(c.Row, c.Style)
		case OpShow:
			s.Show(c.Row)
		case OpFinish:
			s.Finish(c.Row, c.Elapsed)
		case OpFinishAndClear:
			s.FinishAndClear(c.Row)
		}
	}
}
