package display

import (
	"fmt"
	"sync"
	"time"
)

// RowState is the last state a Recorder saw for a row.
type RowState struct {
	Label    string
	Visible  bool
	Total    int64
	HasTotal bool
	Consumed int64
	Style    Style
	Finished bool
	Cleared  bool
	Elapsed  time.Duration
}

// Recorder is a Sink that draws nothing and remembers every row and
// operation. It is safe for concurrent use.
// Mutable
type Recorder struct {
	mu     sync.Mutex
	rows   map[RowID]*RowState
	order  []RowID
	ops    []string
	closed bool
}

var _ Sink = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{rows: make(map[RowID]*RowState)}
}

func (r *Recorder) log(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *Recorder) Create(id RowID, label string, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		r.order = append(r.order, id)
	}
	r.rows[id] = &RowState{Label: label, Visible: visible}
	r.log("create %d %s visible=%t", id, label, visible)
}

func (r *Recorder) SetTotal(id RowID, total int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.Total, row.HasTotal = total, true
		r.log("total %d %d", id, total)
	}
}

func (r *Recorder) Incr(id RowID, n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.Consumed += n
		r.log("incr %d %d", id, n)
	}
}

func (r *Recorder) Restyle(id RowID, s Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.Style = s
		r.log("style %d %s", id, s)
	}
}

func (r *Recorder) Show(id RowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.Visible = true
		r.log("show %d", id)
	}
}

func (r *Recorder) Finish(id RowID, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.Finished, row.Elapsed = true, elapsed
		r.log("finish %d %s", id, elapsed)
	}
}

func (r *Recorder) FinishAndClear(id RowID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[id]; ok {
		row.Finished, row.Cleared, row.Visible = true, true, false
		r.log("clear %d", id)
	}
}

func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.log("close")
}

// Row returns a copy of the state of row id.
func (r *Recorder) Row(id RowID) (RowState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return RowState{}, false
	}
	return *row, true
}

// Labelled returns the most recently created row with the given label.
func (r *Recorder) Labelled(label string) (RowState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if row := r.rows[r.order[i]]; row.Label == label {
			return *row, true
		}
	}
	return RowState{}, false
}

// Rows returns the number of rows ever created.
func (r *Recorder) Rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Ops returns the operation log.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
