package tracker

import (
	"time"

	"toolup/pkg/display"
	"toolup/pkg/notify"
)

// TrackedDownload is the progress of one component download.
type TrackedDownload struct {
	Name     string
	Row      display.RowID
	Total    int64
	HasTotal bool
	Consumed int64
	Started  time.Time
	// Finished downloads are frozen and ignore further notifications.
	Finished bool
	Elapsed  time.Duration
}

// Multi tracks downloads of several named components, one row each.
// Entries are never removed; finished rows stay visible as a summary.
//
// A finished entry still takes part in resolution. With the Substring
// resolver, a finished "foo" keeps claiming files that also contain a later
// "foobar", and events for those files are dropped. Use Longest when
// component names overlap.
// Mutable
type Multi struct {
	sink      display.Sink
	opts      options
	downloads map[string]*TrackedDownload
	names     []string
	lastRow   display.RowID
}

// NewMulti creates a Multi drawing to sink.
func NewMulti(sink display.Sink, opts ...Option) *Multi {
	return &Multi{
		sink:      sink,
		opts:      newOptions(opts),
		downloads: make(map[string]*TrackedDownload),
	}
}

// HandleNotification updates the tracker and the display for n.
func (m *Multi) HandleNotification(n notify.Notification) bool {
	return handle(m, m.sink, n)
}

func (m *Multi) Step(n notify.Notification) (bool, []Command) {
	return dispatch(m, n)
}

// Create starts a row for component.
func (m *Multi) Create(component string) {
	cmds, _ := m.create(component)
	Apply(m.sink, cmds...)
}

// SetTotal sets the size of the download file belongs to.
func (m *Multi) SetTotal(file string, size int64) {
	Apply(m.sink, m.setTotal(file, size)...)
}

// Advance records n more bytes for the download file belongs to.
func (m *Multi) Advance(file string, n int64) {
	Apply(m.sink, m.advance(file, n)...)
}

// Finish freezes the download file belongs to with a summary line.
func (m *Multi) Finish(file string) {
	Apply(m.sink, m.finish(file)...)
}

// Download returns a copy of the entry registered for component.
func (m *Multi) Download(component string) (TrackedDownload, bool) {
	d, ok := m.downloads[component]
	if !ok {
		return TrackedDownload{}, false
	}
	return *d, true
}

// Components returns the registered component names in registration order.
func (m *Multi) Components() []string {
	return append([]string(nil), m.names...)
}

// lookup resolves file to an active download. The installer reports some
// steps with an empty file, which never matches.
func (m *Multi) lookup(file string) *TrackedDownload {
	if file == "" {
		return nil
	}
	name, ok := m.opts.resolver(file, m.names)
	if !ok {
		return nil
	}
	d := m.downloads[name]
	if d == nil || d.Finished {
		return nil
	}
	return d
}

// create registers component, replacing any previous entry of that name.
func (m *Multi) create(component string) ([]Command, bool) {
	if component == "" {
		return nil, true
	}
	if _, ok := m.downloads[component]; !ok {
		m.names = append(m.names, component)
	}
	m.lastRow++
	d := &TrackedDownload{
		Name:    component,
		Row:     m.lastRow,
		Started: m.opts.now(),
	}
	m.downloads[component] = d
	return []Command{
		{Op: OpCreate, Row: d.Row, Label: component, Visible: m.opts.displayProgress},
		{Op: OpRestyle, Row: d.Row, Style: display.Downloading},
	}, true
}

func (m *Multi) setTotal(file string, size int64) []Command {
	d := m.lookup(file)
	if d == nil {
		return nil
	}
	d.Total, d.HasTotal = size, true
	return []Command{{Op: OpSetTotal, Row: d.Row, N: size}}
}

func (m *Multi) advance(file string, n int64) []Command {
	if n <= 0 {
		return nil
	}
	d := m.lookup(file)
	if d == nil {
		return nil
	}
	d.Consumed += n
	return []Command{{Op: OpIncr, Row: d.Row, N: n}}
}

func (m *Multi) finish(file string) []Command {
	d := m.lookup(file)
	if d == nil {
		return nil
	}
	d.Finished = true
	d.Elapsed = m.opts.now().Sub(d.Started)
	return []Command{
		{Op: OpRestyle, Row: d.Row, Style: display.Downloaded},
		{Op: OpFinish, Row: d.Row, Elapsed: d.Elapsed},
	}
}
