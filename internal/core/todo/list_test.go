package todo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, kind string, fields map[string]string) *Item {
	t.Helper()
	item, err := NewItem(kind, fields)
	require.NoError(t, err)
	return item
}

func prefab(t *testing.T, unity, godot string) *Item {
	t.Helper()
	return mustItem(t, "Prefab", map[string]string{FieldUnityPath: unity, FieldGodotPath: godot})
}

func TestList_InsertReplaces(t *testing.T) {
	l := NewList()
	first := mustItem(t, "Prefab", map[string]string{
		FieldUnityPath: "a",
		FieldGodotPath: "b",
		"note":         "old",
	})
	l.Insert("g1", first)

	second := prefab(t, "c", "d")
	l.Insert("g1", second)

	got, ok := l.Get("g1")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, l.Len())

	_, hasNote := got.Get("note")
	assert.False(t, hasNote, "old fields must not be merged into the replacement")
}

func TestList_Add(t *testing.T) {
	l := NewList()
	require.NoError(t, l.Add("g1", prefab(t, "a", "b")))

	err := l.Add("g1", prefab(t, "c", "d"))
	require.ErrorIs(t, err, ErrDuplicate)

	got, _ := l.Get("g1")
	assert.Equal(t, "a", got.UnityPath)
}

func TestList_Contains(t *testing.T) {
	l := NewList()
	assert.False(t, l.Contains("g1"))

	l.Insert("g1", prefab(t, "a", "b"))
	assert.True(t, l.Contains("g1"))
	assert.False(t, l.Contains("g2"))
}

func TestList_ZeroValueInsert(t *testing.T) {
	var l List
	l.Insert("g1", prefab(t, "a", "b"))
	assert.True(t, l.Contains("g1"))
}

func TestList_UpdateStatus(t *testing.T) {
	l := NewList()
	l.Insert("g1", prefab(t, "a", "b"))

	require.NoError(t, l.UpdateStatus("g1", "Failed", "missing texture"))

	got, _ := l.Get("g1")
	assert.Equal(t, "Failed", got.Status)
	assert.Equal(t, "missing texture", got.Info)
}

func TestList_UpdateStatus_NotFound(t *testing.T) {
	l := NewList()
	l.Insert("g1", prefab(t, "a", "b"))
	before := l.Node()

	err := l.UpdateStatus("nope", "Done", "x")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.GUID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, before, l.Node())
}

func TestList_MarkDone(t *testing.T) {
	l := NewList()
	l.Insert("g1", prefab(t, "a", "b"))

	require.NoError(t, l.MarkDone("g1"))

	got, _ := l.Get("g1")
	assert.Equal(t, StatusDone, got.Status)
	assert.Equal(t, DefaultDoneInfo, got.Info)

	require.NoError(t, l.MarkDoneWith("g1", "checked by hand"))
	assert.Equal(t, "checked by hand", got.Info)

	assert.ErrorIs(t, l.MarkDone("missing"), ErrNotFound)
}

func TestList_Remove(t *testing.T) {
	l := NewList()
	l.Insert("g1", prefab(t, "a", "b"))

	require.NoError(t, l.Remove("g1"))
	assert.False(t, l.Contains("g1"))

	assert.ErrorIs(t, l.Remove("g1"), ErrNotFound)
}

func TestList_EntriesSorted(t *testing.T) {
	l := NewList()
	l.Insert("c", prefab(t, "3", "3"))
	l.Insert("a", prefab(t, "1", "1"))
	l.Insert("b", prefab(t, "2", "2"))

	var guids []string
	for _, e := range l.Entries() {
		guids = append(guids, e.GUID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, guids)
}

func TestList_Summary(t *testing.T) {
	l := NewList()
	l.Insert("a", prefab(t, "1", "1"))
	l.Insert("b", prefab(t, "2", "2"))
	l.Insert("c", prefab(t, "3", "3"))
	require.NoError(t, l.MarkDone("b"))

	empty := prefab(t, "4", "4")
	empty.SetStatus("")
	l.Insert("d", empty)

	assert.Equal(t, map[string]int{"Open": 3, "Done": 1}, l.Summary())
}
