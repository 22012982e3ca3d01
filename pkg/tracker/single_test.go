package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolup/pkg/display"
	"toolup/pkg/notify"
)

func newTestSingle(opts ...Option) (*Single, *display.Recorder, *fakeClock) {
	rec := display.NewRecorder()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.now), WithTerminal(true)}, opts...)
	return NewSingle(rec, opts...), rec, clock
}

func visible(t *testing.T, rec *display.Recorder, id display.RowID) bool {
	t.Helper()
	row, ok := rec.Row(id)
	require.True(t, ok, "row %d", id)
	return row.Visible
}

func TestSingleStartsHidden(t *testing.T) {
	s, rec, _ := newTestSingle()

	cur := s.Current()
	assert.True(t, cur.Hidden)
	assert.Equal(t, display.RowID(1), cur.Row)
	assert.False(t, visible(t, rec, cur.Row))
}

func TestSingleShortDownloadNeverShows(t *testing.T) {
	s, rec, clock := newTestSingle()
	row := s.Current().Row

	s.HandleNotification(notify.ContentLength(300, "f"))
	for i := 0; i < 3; i++ {
		clock.advance(300 * time.Millisecond)
		require.True(t, s.HandleNotification(notify.Data(100, "f")))
		assert.False(t, visible(t, rec, row))
	}
	assert.True(t, s.Current().Hidden)
	assert.Equal(t, int64(300), s.Current().Consumed)

	s.HandleNotification(notify.Finished("f"))
	cleared, _ := rec.Row(row)
	assert.True(t, cleared.Cleared)
	assert.Equal(t, int64(300), cleared.Consumed)
}

func TestSingleLongDownloadShows(t *testing.T) {
	s, rec, clock := newTestSingle()
	row := s.Current().Row

	s.HandleNotification(notify.ContentLength(1000, "f"))
	clock.advance(600 * time.Millisecond)
	s.HandleNotification(notify.Data(100, "f"))
	assert.False(t, visible(t, rec, row))

	clock.advance(400 * time.Millisecond)
	consumed, cmds := s.Step(notify.Data(100, "f"))
	require.True(t, consumed)
	require.Len(t, cmds, 2)
	assert.Equal(t, OpShow, cmds[0].Op)
	assert.Equal(t, OpIncr, cmds[1].Op)
	Apply(rec, cmds...)

	assert.True(t, visible(t, rec, row))
	assert.False(t, s.Current().Hidden)

	// Once shown, the row is not shown again.
	clock.advance(time.Second)
	_, cmds = s.Step(notify.Data(100, "f"))
	require.Len(t, cmds, 1)
	assert.Equal(t, OpIncr, cmds[0].Op)
}

func TestSingleNonTerminalNeverShows(t *testing.T) {
	s, rec, clock := newTestSingle(WithTerminal(false))
	row := s.Current().Row

	s.HandleNotification(notify.ContentLength(1<<30, "f"))
	for i := 0; i < 50; i++ {
		clock.advance(time.Second)
		consumed, cmds := s.Step(notify.Data(1<<20, "f"))
		assert.True(t, consumed)
		assert.Empty(t, cmds)
	}
	s.Advance(1 << 20)

	assert.False(t, visible(t, rec, row))
	assert.True(t, s.Current().Hidden)
}

func TestSingleDisplayDisabledNeverShows(t *testing.T) {
	s, rec, clock := newTestSingle(WithDisplayProgress(false))
	row := s.Current().Row

	clock.advance(5 * time.Second)
	s.HandleNotification(notify.Data(10, "f"))

	assert.False(t, visible(t, rec, row))
	assert.Equal(t, int64(10), s.Current().Consumed)
}

func TestSingleFinishResets(t *testing.T) {
	s, rec, clock := newTestSingle()

	for i := 0; i < 3; i++ {
		before := s.Current()
		assert.True(t, before.Hidden)
		assert.Zero(t, before.Consumed)
		assert.False(t, before.HasTotal)
		assert.Equal(t, clock.now(), before.Started)

		s.SetTotal(50)
		clock.advance(2 * time.Second)
		s.Advance(50)
		assert.True(t, visible(t, rec, before.Row))
		s.Finish()

		old, _ := rec.Row(before.Row)
		assert.True(t, old.Cleared)
		assert.Equal(t, int64(50), old.Consumed)

		after := s.Current()
		assert.NotEqual(t, before.Row, after.Row)
		assert.False(t, visible(t, rec, after.Row))
	}
	assert.Equal(t, 4, rec.Rows())
}

func TestSingleSetTotalAppliesStyle(t *testing.T) {
	s, _, _ := newTestSingle()

	consumed, cmds := s.Step(notify.ContentLength(42, ""))
	require.True(t, consumed)
	require.Len(t, cmds, 2)
	assert.Equal(t, Command{Op: OpSetTotal, Row: 1, N: 42}, cmds[0])
	assert.Equal(t, Command{Op: OpRestyle, Row: 1, Style: display.Downloading}, cmds[1])
}

func TestSingleDispatch(t *testing.T) {
	s, _, _ := newTestSingle()

	tests := []struct {
		n        notify.Notification
		consumed bool
	}{
		{notify.Started("rustc"), false},
		{notify.Push(notify.Items), true},
		{notify.Pop(), true},
		{notify.Extract("rustc", "rustc.tar"), false},
		{notify.Notification{}, false},
	}
	for _, tt := range tests {
		consumed, cmds := s.Step(tt.n)
		assert.Equal(t, tt.consumed, consumed, "event %s", tt.n)
		assert.Empty(t, cmds, "event %s", tt.n)
	}
}
