package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/longkey1/agentc/internal/agentc"
)

var inputs = []agentc.Message{
	{Role: agentc.RoleSystem, Content: "be brief"},
	{Role: agentc.RoleUser, Content: "Hello!\nSecond line"},
}

const reply = `{"conversation_id":"conv_42","outputs":[{"role":"assistant","content":"Hi there!"}]}`

func TestNew(t *testing.T) {
	tr := New("ag_test123", inputs, []byte(reply))
	require.Len(t, tr.ID, 36)
	require.Equal(t, tr.ID[:8], tr.GetShortID())
	require.Equal(t, "conv_42", tr.ConversationID)
	require.Equal(t, 2, tr.InputCount())
	require.Equal(t, "Hello!", tr.Preview(40))
	require.Equal(t, "He...", tr.Preview(5))
	require.JSONEq(t, reply, string(tr.Response))
}

func TestStore_SaveLoadDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "transcripts"))
	tr := New("ag_test123", inputs, []byte(reply))

	require.NoError(t, store.Save(tr))

	loaded, err := store.Load(tr.ID)
	require.NoError(t, err)
	require.Equal(t, tr.AgentID, loaded.AgentID)
	require.Equal(t, tr.Inputs, loaded.Inputs)
	require.JSONEq(t, reply, string(loaded.Response))
	require.True(t, tr.CreatedAt.Equal(loaded.CreatedAt))

	require.NoError(t, store.Delete(tr.ID))
	_, err = store.Load(tr.ID)
	require.Error(t, err)
	require.Contains(t, err.Error(), "transcript not found")

	err = store.Delete(tr.ID)
	require.Error(t, err)
}

func TestStore_ListSkipsCorruptAndSortsNewestFirst(t *testing.T) {
	store := NewStore(t.TempDir())

	older := New("ag_a", inputs, []byte(`{}`))
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := New("ag_b", inputs, []byte(`{}`))
	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "broken.json"), []byte("{"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "notes.txt"), []byte("x"), 0600))

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID)
	require.Equal(t, older.ID, list[1].ID)

	latest, err := store.FindByPrefix("latest")
	require.NoError(t, err)
	require.Equal(t, newer.ID, latest.ID)
}

func TestStore_ListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent"))
	list, err := store.List()
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = store.Latest()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no transcripts found")
}

func TestStore_FindByPrefix(t *testing.T) {
	store := NewStore(t.TempDir())

	a := New("ag_a", inputs, []byte(`{}`))
	a.ID = "aaaa1111-0000-4000-8000-000000000001"
	b := New("ag_b", inputs, []byte(`{}`))
	b.ID = "aaaa2222-0000-4000-8000-000000000002"
	require.NoError(t, store.Save(a))
	require.NoError(t, store.Save(b))

	got, err := store.FindByPrefix("aaaa1")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	got, err = store.FindByPrefix(b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)

	_, err = store.FindByPrefix("aaaa")
	var ambiguous *AmbiguousIDError
	require.True(t, errors.As(err, &ambiguous))
	require.Len(t, ambiguous.Matches, 2)
	require.True(t, strings.Contains(err.Error(), "Ambiguous transcript ID"))

	_, err = store.FindByPrefix("aaa")
	require.Error(t, err)
	require.Contains(t, err.Error(), "at least 4 characters")

	_, err = store.FindByPrefix("bbbb")
	require.Error(t, err)
	require.Contains(t, err.Error(), "transcript not found")
}

func TestStore_Prune(t *testing.T) {
	store := NewStore(t.TempDir())
	now := time.Now()

	old := New("ag_a", inputs, []byte(`{}`))
	old.CreatedAt = now.AddDate(0, 0, -40)
	recent := New("ag_b", inputs, []byte(`{}`))
	recent.CreatedAt = now.AddDate(0, 0, -2)
	require.NoError(t, store.Save(old))
	require.NoError(t, store.Save(recent))

	deleted, err := store.Prune(30, now)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, recent.ID, list[0].ID)
}

func TestDirFor(t *testing.T) {
	require.Equal(t, filepath.Join("/etc/agentc", "transcripts"), DirFor("/etc/agentc"))
}
