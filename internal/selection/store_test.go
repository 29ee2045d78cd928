package selection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cellxplore/domain/core"
	"cellxplore/domain/table"
)

func rowsWithIDs(ids ...int) []table.Row {
	rows := make([]table.Row, len(ids))
	for i, id := range ids {
		rows[i] = table.Row{ID: id, Fields: map[string]any{"n": float64(id)}}
	}
	return rows
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := NewStore()

	saved, err := store.Save("tumor", rowsWithIDs(1, 2, 3))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	got, ok := store.Get("tumor")
	require.True(t, ok)
	assert.Equal(t, saved.Rows, got.Rows)
	assert.Equal(t, 1, store.Len())
}

func TestSaveRejectsEmptyAndBlank(t *testing.T) {
	store := NewStore()
	_, _ = store.Save("existing", rowsWithIDs(1))

	_, err := store.Save("tumor", nil)
	assert.ErrorIs(t, err, core.ErrEmptySelection)

	_, err = store.Save("  ", rowsWithIDs(1))
	assert.ErrorIs(t, err, core.ErrInvalidName)

	// Failed saves leave the store untouched.
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, []string{"existing"}, store.Names())
}

func TestSaveOverwritesKeepingOrder(t *testing.T) {
	store := NewStore()
	_, _ = store.Save("a", rowsWithIDs(1))
	_, _ = store.Save("b", rowsWithIDs(2))

	_, err := store.Save("a", rowsWithIDs(9, 10))
	require.NoError(t, err)

	got, ok := store.Get("a")
	require.True(t, ok)
	assert.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"a", "b"}, store.Names(), "overwrite keeps list position")
}

func TestSavedSelectionIsASnapshot(t *testing.T) {
	store := NewStore()
	rows := rowsWithIDs(1)
	_, err := store.Save("snap", rows)
	require.NoError(t, err)

	rows[0].Fields["n"] = 99.0

	got, _ := store.Get("snap")
	assert.Equal(t, 1.0, got.Rows[0].Fields["n"])
}

func TestRename(t *testing.T) {
	store := NewStore()
	_, _ = store.Save("old", rowsWithIDs(1))
	_, _ = store.Save("taken", rowsWithIDs(2))

	assert.ErrorIs(t, store.Rename("missing", "x"), core.ErrNotFound)
	assert.ErrorIs(t, store.Rename("old", "taken"), core.ErrNameCollision)
	assert.ErrorIs(t, store.Rename("old", " "), core.ErrInvalidName)

	require.NoError(t, store.Rename("old", "new"))
	_, ok := store.Get("old")
	assert.False(t, ok)
	got, ok := store.Get("new")
	require.True(t, ok)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, []string{"new", "taken"}, store.Names())
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	store := NewStore()
	_, _ = store.Save("gone", rowsWithIDs(1))

	require.NoError(t, store.Delete("gone"))
	assert.ErrorIs(t, store.Delete("gone"), core.ErrNotFound)
	assert.Empty(t, store.Names())
}

func TestUnionDeduplicatesByID(t *testing.T) {
	store := NewStore()
	_, _ = store.Save("a", rowsWithIDs(1, 2))
	_, _ = store.Save("b", rowsWithIDs(2, 3))

	merged, err := store.Union("a", "b")
	require.NoError(t, err)
	assert.Len(t, merged, 3)

	_, err = store.Union("a", "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMergeRowsFingerprintFallback(t *testing.T) {
	a := table.Row{ID: -1, Fields: map[string]any{"x": "1"}}
	b := table.Row{ID: -1, Fields: map[string]any{"x": "1"}}
	c := table.Row{ID: -1, Fields: map[string]any{"x": "2"}}

	merged := MergeRows([]table.Row{a}, []table.Row{b, c})
	assert.Len(t, merged, 2, "identical unidentified rows collapse structurally")
}

func TestSubscribeReceivesStoreEvents(t *testing.T) {
	store := NewStore()
	ch := store.Subscribe()
	defer store.Unsubscribe(ch)

	_, err := store.Save("sel", rowsWithIDs(1, 2))
	require.NoError(t, err)
	require.NoError(t, store.Rename("sel", "sel2"))
	require.NoError(t, store.Delete("sel2"))

	expectEvent := func(wantType EventType) Event {
		select {
		case ev := <-ch:
			assert.Equal(t, wantType, ev.Type)
			return ev
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s event", wantType)
			return Event{}
		}
	}

	saved := expectEvent(EventSaved)
	assert.Equal(t, "sel", saved.Name)
	assert.Equal(t, 2, saved.Count)

	renamed := expectEvent(EventRenamed)
	assert.Equal(t, "sel2", renamed.Name)
	assert.Equal(t, "sel", renamed.OldName)

	deleted := expectEvent(EventDeleted)
	assert.Equal(t, "sel2", deleted.Name)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	store := NewStore()
	ch := store.Subscribe()
	store.Unsubscribe(ch)

	_, ok := <-ch
	assert.False(t, ok)

	// Mutations after unsubscribe must not panic on the closed channel.
	_, err := store.Save("sel", rowsWithIDs(1))
	assert.NoError(t, err)
}
