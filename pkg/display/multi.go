package display

import (
	"io"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

const barWidth = 40

// MultiSink renders any number of rows with an mpb container. Rows stay on
// screen after Finish; FinishAndClear drops them.
// Mutable
type MultiSink struct {
	out     io.Writer
	visible bool
	p       *mpb.Progress
	now     func() time.Time

	mu   sync.Mutex
	rows map[RowID]*mpbRow
}

var _ Sink = (*MultiSink)(nil)

// NewMultiSink creates a MultiSink drawing to w. When visible is false the
// container draws nowhere and no row is ever attached to it.
func NewMultiSink(w io.Writer, visible bool) *MultiSink {
	opts := []mpb.ContainerOption{mpb.WithOutput(nil)}
	if visible {
		opts = []mpb.ContainerOption{mpb.WithOutput(w), mpb.WithAutoRefresh()}
	}
	return &MultiSink{
		out:     w,
		visible: visible,
		p:       mpb.New(opts...),
		now:     time.Now,
		rows:    make(map[RowID]*mpbRow),
	}
}

// Writer returns a writer whose output is printed above the bars.
func (m *MultiSink) Writer() io.Writer {
	if !m.visible {
		return m.out
	}
	return m.p
}

// mpbRow mirrors the row state read by the decorators from the render
// goroutine.
type mpbRow struct {
	mu       sync.Mutex
	label    string
	total    int64
	hasTotal bool
	current  int64
	style    Style
	started  time.Time
	elapsed  time.Duration
	done     bool
	now      func() time.Time

	bar *mpb.Bar
}

func (r *mpbRow) stats() (Style, Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	elapsed := r.elapsed
	if !r.done {
		elapsed = r.now().Sub(r.started)
	}
	return r.style, Stats{
		Label:    r.label,
		Total:    r.total,
		HasTotal: r.hasTotal,
		Current:  r.current,
		Elapsed:  elapsed,
	}
}

func (r *mpbRow) before(decor.Statistics) string {
	before, _, _ := split(r.stats())
	return before
}

func (r *mpbRow) after(decor.Statistics) string {
	_, after, _ := split(r.stats())
	return after
}

func (r *mpbRow) fill(base mpb.BarFiller) mpb.BarFiller {
	return mpb.BarFillerFunc(func(w io.Writer, st decor.Statistics) error {
		if _, _, hasBar := split(r.stats()); !hasBar {
			return nil
		}
		return base.Fill(w, st)
	})
}

func (m *MultiSink) row(id RowID) *mpbRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id]
}

// attach adds the row to the container. The bar is created with a dynamic
// total so that completion is only ever triggered by Finish.
func (m *MultiSink) attach(r *mpbRow) {
	if !m.visible {
		return
	}
	r.mu.Lock()
	if r.bar != nil {
		r.mu.Unlock()
		return
	}
	total, hasTotal, current := r.total, r.hasTotal, r.current
	r.mu.Unlock()

	bar := m.p.New(0,
		mpb.BarStyle().Lbound("").Rbound("").Filler("#").Tip("#").Padding(" "),
		mpb.BarWidth(barWidth),
		mpb.BarFillerMiddleware(r.fill),
		mpb.PrependDecorators(decor.Any(r.before)),
		mpb.AppendDecorators(decor.Any(r.after)),
	)
	if hasTotal {
		bar.SetTotal(total, false)
	}
	if current > 0 {
		bar.SetCurrent(current)
	}

	r.mu.Lock()
	r.bar = bar
	r.mu.Unlock()
}

func (m *MultiSink) Create(id RowID, label string, visible bool) {
	r := &mpbRow{label: label, started: m.now(), now: m.now}
	m.mu.Lock()
	m.rows[id] = r
	m.mu.Unlock()
	if visible {
		m.attach(r)
	}
}

func (m *MultiSink) SetTotal(id RowID, total int64) {
	r := m.row(id)
	if r == nil {
		return
	}
	r.mu.Lock()
	r.total, r.hasTotal = total, true
	bar := r.bar
	r.mu.Unlock()
	if bar != nil {
		bar.SetTotal(total, false)
	}
}

func (m *MultiSink) Incr(id RowID, n int64) {
	r := m.row(id)
	if r == nil {
		return
	}
	r.mu.Lock()
	r.current += n
	bar := r.bar
	r.mu.Unlock()
	if bar != nil {
		bar.IncrInt64(n)
	}
}

func (m *MultiSink) Restyle(id RowID, s Style) {
	if r := m.row(id); r != nil {
		r.mu.Lock()
		r.style = s
		r.mu.Unlock()
	}
}

func (m *MultiSink) Show(id RowID) {
	if r := m.row(id); r != nil {
		m.attach(r)
	}
}

func (m *MultiSink) Finish(id RowID, elapsed time.Duration) {
	r := m.row(id)
	if r == nil {
		return
	}
	r.mu.Lock()
	r.elapsed, r.done = elapsed, true
	bar := r.bar
	r.mu.Unlock()
	if bar != nil {
		bar.SetTotal(-1, true)
	}
}

func (m *MultiSink) FinishAndClear(id RowID) {
	m.mu.Lock()
	r := m.rows[id]
	delete(m.rows, id)
	m.mu.Unlock()
	if r == nil {
		return
	}
	r.mu.Lock()
	r.done = true
	bar := r.bar
	r.mu.Unlock()
	if bar != nil {
		bar.Abort(true)
	}
}

// Close aborts rows that never finished, leaving them on screen in their
// last state, and waits for the final render.
func (m *MultiSink) Close() {
	m.mu.Lock()
	var pending []*mpb.Bar
	for _, r := range m.rows {
		r.mu.Lock()
		if !r.done && r.bar != nil {
			pending = append(pending, r.bar)
		}
		r.mu.Unlock()
	}
	m.mu.Unlock()

	for _, bar := range pending {
		bar.Abort(false)
	}
	m.p.Wait()
}
