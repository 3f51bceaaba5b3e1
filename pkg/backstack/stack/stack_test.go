package stack

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/backstack/pkg/backstack/key"
)

func entry(t *testing.T, tag string) Entry {
	t.Helper()
	e, err := NewEntry(tag, Binding{})
	require.NoError(t, err)
	return e
}

func TestNewEntry(t *testing.T) {
	e, err := NewEntry("list|1|5", Binding{})
	require.NoError(t, err)
	assert.Equal(t, key.Key{Title: "list", SurfaceID: 1, RecordID: 5}, e.Key)
	assert.Equal(t, "list|1|5", e.Tag)
	assert.Nil(t, e.Handle)

	_, err = NewEntry("list|1", Binding{})
	assert.True(t, errors.Is(err, key.ErrMalformedKey))
}

func TestStore_Empty(t *testing.T) {
	s := NewStore()
	assert.True(t, s.IsEmpty())
	assert.Equal(t, 0, s.Len())

	_, ok := s.Top()
	assert.False(t, ok)

	_, ok = s.Pop()
	assert.False(t, ok)

	assert.Empty(t, s.Snapshot())
	assert.False(t, s.Exists("a|1|1"))
}

func TestStore_AppendAndTop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(entry(t, "a|1|1"), entry(t, "b|1|2")))
	require.NoError(t, s.Append(entry(t, "c|1|3")))

	assert.Equal(t, []string{"a|1|1", "b|1|2", "c|1|3"}, s.Tags())
	top, ok := s.Top()
	require.True(t, ok)
	assert.Equal(t, "c|1|3", top.Tag)
	assert.True(t, s.Exists("b|1|2"))
}

func TestStore_AppendRejectsDuplicates(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(entry(t, "a|1|1")))

	err := s.Append(entry(t, "b|1|2"), entry(t, "a|1|1"))
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, []string{"a|1|1"}, s.Tags(), "rejected batch must not be partially applied")

	err = s.Append(entry(t, "c|1|3"), entry(t, "c|1|3"))
	assert.True(t, errors.Is(err, ErrDuplicate))
	assert.Equal(t, 1, s.Len())
}

func TestStore_AppendRejectsMalformed(t *testing.T) {
	s := NewStore()
	err := s.Append(Entry{Tag: "nope"})
	assert.True(t, errors.Is(err, key.ErrMalformedKey))
	assert.True(t, s.IsEmpty())
}

func TestStore_Pop(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(entry(t, "a|1|1"), entry(t, "b|1|2")))

	e, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "b|1|2", e.Tag)
	assert.False(t, s.Exists("b|1|2"))

	// the popped tag may be pushed again
	require.NoError(t, s.Append(e))
	assert.Equal(t, []string{"a|1|1", "b|1|2"}, s.Tags())
}

func TestStore_SnapshotIsCopy(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(entry(t, "a|1|1"), entry(t, "b|1|2")))

	snap := s.Snapshot()
	snap[0].Tag = "changed"
	assert.Equal(t, []string{"a|1|1", "b|1|2"}, s.Tags())
}

func TestStore_ClearKeepsHandles(t *testing.T) {
	s := NewStore()
	h := &struct{ destroyed bool }{}
	e := entry(t, "a|1|1")
	e.Handle = h
	require.NoError(t, s.Append(e))

	snap := s.Snapshot()
	s.Clear()
	assert.True(t, s.IsEmpty())
	assert.False(t, s.Exists("a|1|1"))
	assert.Same(t, h, snap[0].Handle)
}

func TestStore_Find(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Append(entry(t, "a|1|7"), entry(t, "a|2|7"), entry(t, "b|1|7")))

	e, ok := s.Find(func(e Entry) bool { return e.Key.Title == "a" && e.Key.RecordID == 7 })
	require.True(t, ok)
	assert.Equal(t, "a|1|7", e.Tag, "first match from the bottom wins")

	_, ok = s.Find(func(e Entry) bool { return e.Key.Title == "z" })
	assert.False(t, ok)
}
