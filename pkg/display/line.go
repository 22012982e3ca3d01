package display

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"golang.org/x/time/rate"
)

const (
	clearLine   = "\r\x1b[2K"
	redrawEvery = 100 * time.Millisecond
)

// LineSink draws visible rows on a single, continuously rewritten terminal
// line. It is meant for one download at a time; when several rows are
// visible the most recently updated one owns the line.
//
// LineSink draws synchronously from the calling goroutine and is not safe
// for concurrent use.
// Mutable
type LineSink struct {
	out    io.Writer
	bar    progress.Model
	now    func() time.Time
	redraw *rate.Limiter
	rows   map[RowID]*lineRow

	dirty bool
}

var _ Sink = (*LineSink)(nil)

type lineRow struct {
	label    string
	visible  bool
	total    int64
	hasTotal bool
	current  int64
	style    Style
	started  time.Time
}

// NewLineSink creates a LineSink writing to w.
func NewLineSink(w io.Writer) *LineSink {
	bar := progress.New(progress.WithWidth(barWidth), progress.WithoutPercentage())
	bar.Full = '#'
	bar.Empty = ' '
	return &LineSink{
		out:    w,
		bar:    bar,
		now:    time.Now,
		redraw: rate.NewLimiter(rate.Every(redrawEvery), 1),
		rows:   make(map[RowID]*lineRow),
	}
}

func (l *LineSink) line(r *lineRow, elapsed time.Duration) string {
	st := Stats{
		Label:    r.label,
		Total:    r.total,
		HasTotal: r.hasTotal,
		Current:  r.current,
		Elapsed:  elapsed,
	}
	return Render(r.style, st, l.bar.ViewAs(st.Fraction()))
}

// draw rewrites the line with r. Unless force is set, redraws are limited
// to one per redrawEvery.
func (l *LineSink) draw(r *lineRow, force bool) {
	if !r.visible {
		return
	}
	now := l.now()
	if !l.redraw.AllowN(now, 1) && !force {
		return
	}
	l.dirty = true
	fmt.Fprint(l.out, clearLine+l.line(r, now.Sub(r.started)))
}

func (l *LineSink) Create(id RowID, label string, visible bool) {
	r := &lineRow{label: label, visible: visible, started: l.now()}
	l.rows[id] = r
	l.draw(r, true)
}

func (l *LineSink) SetTotal(id RowID, total int64) {
	if r, ok := l.rows[id]; ok {
		r.total, r.hasTotal = total, true
		l.draw(r, true)
	}
}

func (l *LineSink) Incr(id RowID, n int64) {
	if r, ok := l.rows[id]; ok {
		r.current += n
		l.draw(r, false)
	}
}

func (l *LineSink) Restyle(id RowID, s Style) {
	if r, ok := l.rows[id]; ok {
		r.style = s
		l.draw(r, true)
	}
}

func (l *LineSink) Show(id RowID) {
	if r, ok := l.rows[id]; ok && !r.visible {
		r.visible = true
		l.draw(r, true)
	}
}

// Finish prints the final state of the row and moves to a new line.
func (l *LineSink) Finish(id RowID, elapsed time.Duration) {
	r, ok := l.rows[id]
	if !ok {
		return
	}
	delete(l.rows, id)
	if !r.visible {
		return
	}
	fmt.Fprint(l.out, clearLine+l.line(r, elapsed)+"\n")
	l.dirty = false
}

func (l *LineSink) FinishAndClear(id RowID) {
	r, ok := l.rows[id]
	if !ok {
		return
	}
	delete(l.rows, id)
	if r.visible && l.dirty {
		fmt.Fprint(l.out, clearLine)
		l.dirty = false
	}
}

// Close ends a partially drawn line, leaving it in its last state.
func (l *LineSink) Close() {
	if l.dirty {
		fmt.Fprintln(l.out)
		l.dirty = false
	}
}
