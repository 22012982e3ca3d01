package display

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDownloading(t *testing.T) {
	line := Render(Downloading, Stats{
		Label:    "rustc",
		Total:    1024,
		HasTotal: true,
		Current:  512,
		Elapsed:  2 * time.Second,
	}, "##")

	assert.Contains(t, line, "rustc  [##] 512 B/1.0 KiB (256 B/s, ETA: 2s)")
}

func TestRenderUnknownTotal(t *testing.T) {
	line := Render(Downloading, Stats{Label: "cargo", Current: 10}, "")

	assert.Contains(t, line, "10 B/?")
	assert.Contains(t, line, "(?/s, ETA: ?)")
}

func TestRenderDownloaded(t *testing.T) {
	line := Render(Downloaded, Stats{
		Label:    "rustc",
		Total:    1000,
		HasTotal: true,
		Current:  1000,
		Elapsed:  75 * time.Second,
	}, "ignored")

	assert.Contains(t, line, "rustc  downloaded 1000 B in 1m 15s.")
	assert.NotContains(t, line, "ignored")
}

func TestSplit(t *testing.T) {
	st := Stats{Label: "rust-std", Total: 10, HasTotal: true}

	before, after, hasBar := split(Downloading, st)
	assert.True(t, hasBar)
	assert.True(t, strings.HasSuffix(before, "["))
	assert.True(t, strings.HasPrefix(after, "]"))

	before, after, hasBar = split(Downloaded, st)
	assert.False(t, hasBar)
	assert.Contains(t, before, "downloaded")
	assert.Empty(t, after)
}

func TestStatsFraction(t *testing.T) {
	assert.Equal(t, 0.0, Stats{Current: 5}.Fraction())
	assert.Equal(t, 0.5, Stats{Total: 10, HasTotal: true, Current: 5}.Fraction())
	assert.Equal(t, 1.0, Stats{Total: 10, HasTotal: true, Current: 50}.Fraction())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0s", FormatDuration(0))
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "59s", FormatDuration(59600*time.Millisecond))
	assert.Equal(t, "1m 0s", FormatDuration(time.Minute))
	assert.Equal(t, "2m 5s", FormatDuration(125*time.Second))
	assert.Equal(t, "1h 1m 1s", FormatDuration(time.Hour+time.Minute+time.Second))
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLineSink(buf *bytes.Buffer) (*LineSink, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := NewLineSink(buf)
	l.now = clock.now
	return l, clock
}

func TestLineSinkHiddenRowDrawsNothing(t *testing.T) {
	buf := &bytes.Buffer{}
	l, _ := newTestLineSink(buf)

	l.Create(1, "", false)
	l.SetTotal(1, 100)
	l.Restyle(1, Downloading)
	l.Incr(1, 50)
	l.FinishAndClear(1)
	l.Close()

	assert.Empty(t, buf.String())
}

func TestLineSinkShowAndClear(t *testing.T) {
	buf := &bytes.Buffer{}
	l, clock := newTestLineSink(buf)

	l.Create(1, "", false)
	l.SetTotal(1, 100)
	clock.advance(time.Second)
	l.Show(1)
	require.Contains(t, buf.String(), clearLine)
	require.Contains(t, buf.String(), "0 B/100 B")

	buf.Reset()
	l.Incr(1, 10)
	assert.Empty(t, buf.String(), "redraw is throttled")

	clock.advance(redrawEvery + time.Millisecond)
	l.Incr(1, 10)
	assert.Contains(t, buf.String(), "20 B/100 B")

	buf.Reset()
	l.FinishAndClear(1)
	assert.Equal(t, clearLine, buf.String())

	buf.Reset()
	l.Incr(1, 10)
	l.Close()
	assert.Empty(t, buf.String(), "cleared rows are forgotten")
}

func TestLineSinkFinishKeepsSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	l, _ := newTestLineSink(buf)

	l.Create(7, "cargo", true)
	l.SetTotal(7, 2048)
	l.Incr(7, 2048)
	l.Restyle(7, Downloaded)
	buf.Reset()
	l.Finish(7, 3*time.Second)

	assert.Contains(t, buf.String(), "cargo  downloaded 2.0 KiB in 3s.")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestMultiSinkHidden(t *testing.T) {
	buf := &bytes.Buffer{}
	m := NewMultiSink(buf, false)

	m.Create(1, "rustc", true)
	m.SetTotal(1, 10)
	m.Incr(1, 10)
	m.Restyle(1, Downloaded)
	m.Finish(1, time.Second)
	m.Incr(42, 1)
	m.Close()

	assert.Empty(t, buf.String())
	assert.Equal(t, buf, m.Writer())
}

func TestMultiSinkRendersSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	m := NewMultiSink(buf, true)

	m.Create(1, "rustc", true)
	m.SetTotal(1, 1000)
	m.Incr(1, 400)
	m.Incr(1, 600)
	m.Restyle(1, Downloaded)
	m.Finish(1, 2*time.Second)

	m.Create(2, "", false)
	m.Incr(2, 5)
	m.FinishAndClear(2)

	m.Close()

	assert.Contains(t, buf.String(), "rustc")
	assert.Contains(t, buf.String(), "downloaded 1000 B in 2s.")
}
