package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	id0 := q.Add("echo one", "/tmp")
	id1 := q.Add("echo two", "/tmp")

	require.Equal(ID(0), id0)
	require.Equal(ID(1), id1)
	require.Equal(ID(2), q.NextID())
	require.Equal(2, q.Len())
}

func TestHeadIsLowestPendingID(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	q.Add("first", "/tmp")
	q.Add("second", "/tmp")

	head, ok := q.Head()
	require.True(ok)
	require.Equal("first", head.Command)
}

func TestHeadOnEmptyQueue(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	_, ok := q.Head()
	require.False(ok)
}

func TestPromoteThenCompleteRunningMovesJobToLog(t *testing.T) {
	t.Parallel()
	require := require.New(t)
	assert := assert.New(t)

	q := New()
	q.Add("echo hi", "/tmp")

	job, ok := q.PromoteHeadToRunning()
	require.True(ok)
	require.Equal(ID(0), job.ID)

	cur, hasCur := q.CurrentID()
	require.True(hasCur)
	require.Equal(ID(0), cur)

	c, err := q.CompleteRunning(0, "hi\n", "")
	require.NoError(err)
	assert.Equal(0, c.ReturnCode)
	assert.False(c.Failed())

	require.Equal(0, q.Len())
	_, hasCur = q.CurrentID()
	require.False(hasCur)

	last, ok := q.LastCompletedID()
	require.True(ok)
	assert.Equal(ID(0), last)

	logged, ok := q.LookupLog(0)
	require.True(ok)
	assert.Equal("hi\n", logged.Stdout)
}

func TestCompleteRunningWithoutCurrentFails(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	_, err := q.CompleteRunning(0, "", "")
	require.ErrorIs(err, ErrNotRunning)
}

func TestRemoveRunningJobRefusedUnlessPaused(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	q.Add("sleep 1", "/tmp")
	_, ok := q.PromoteHeadToRunning()
	require.True(ok)

	err := q.Remove(0)
	require.ErrorIs(err, ErrRunning)

	q.Pause()
	require.NoError(q.Remove(0))
}

func TestRemoveUnknownID(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	require.ErrorIs(q.Remove(42), ErrUnknownID)
}

func TestResetClearsPendingAndRestartsIDs(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	q.Add("a", "/tmp")
	q.Add("b", "/tmp")
	q.Reset()

	require.Equal(0, q.Len())
	require.Equal(ID(0), q.NextID())

	id := q.Add("c", "/tmp")
	require.Equal(ID(0), id)
}

func TestRotateLogEmptiesInMemoryLog(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	q.Add("a", "/tmp")
	_, _ = q.PromoteHeadToRunning()
	_, err := q.CompleteRunning(0, "", "")
	require.NoError(err)

	old := q.RotateLog()
	require.Len(old, 1)

	_, ok := q.LookupLog(0)
	require.False(ok)
}

func TestRestoreStateDerivesNextIDFromMax(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	pending := map[ID]Job{
		3: {ID: 3, Command: "c", Path: "/tmp"},
	}
	log := map[ID]Completed{
		1: {Job: Job{ID: 1, Command: "a", Path: "/tmp"}, ReturnCode: 0},
		5: {Job: Job{ID: 5, Command: "b", Path: "/tmp"}, ReturnCode: 1},
	}

	q.RestoreState(pending, log)

	require.Equal(ID(6), q.NextID())
	head, ok := q.Head()
	require.True(ok)
	require.Equal(ID(3), head.ID)
}

func TestPauseStartRoundTrip(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	require.False(q.Paused())
	q.Pause()
	require.True(q.Paused())
	q.Start()
	require.False(q.Paused())
}

func TestStatusOfDistinguishesRunningFromQueued(t *testing.T) {
	t.Parallel()
	require := require.New(t)

	q := New()
	q.Add("a", "/tmp")
	q.Add("b", "/tmp")

	head, _ := q.PromoteHeadToRunning()
	require.Equal(StatusRunning, q.StatusOf(head))

	other := Job{ID: 1}
	require.Equal(StatusQueued, q.StatusOf(other))
}
