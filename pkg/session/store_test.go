package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func testRecord(username string, expires float64) *Record {
	now := float64(time.Now().Unix())
	return &Record{
		StorageState: StorageState{
			Cookies: []Cookie{
				{Name: "csrftoken", Value: "abc", Expires: expires},
				{Name: SessionCookieName, Value: "secret", Domain: ".instagram.com", Expires: expires},
			},
		},
		Metadata: Metadata{
			Username:  username,
			CreatedAt: now,
			LastUsed:  now,
		},
	}
}

func TestValid(t *testing.T) {
	now := time.Now()
	future := float64(now.Unix() + 3600)
	past := float64(now.Unix() - 3600)

	tests := []struct {
		name    string
		cookies []Cookie
		want    bool
	}{
		{
			name:    "future sessionid is valid",
			cookies: []Cookie{{Name: "sessionid", Expires: future}},
			want:    true,
		},
		{
			name:    "expired sessionid is invalid",
			cookies: []Cookie{{Name: "sessionid", Expires: past}},
			want:    false,
		},
		{
			name:    "expiry equal to now is invalid",
			cookies: []Cookie{{Name: "sessionid", Expires: float64(now.Unix())}},
			want:    false,
		},
		{
			name:    "no sessionid is invalid",
			cookies: []Cookie{{Name: "csrftoken", Expires: future}},
			want:    false,
		},
		{
			name:    "empty cookie set is invalid",
			cookies: nil,
			want:    false,
		},
		{
			name: "one valid among expired is valid",
			cookies: []Cookie{
				{Name: "sessionid", Expires: past},
				{Name: "sessionid", Expires: future},
			},
			want: true,
		},
		{
			name:    "session-scoped cookie (expires -1) is invalid",
			cookies: []Cookie{{Name: "sessionid", Expires: -1}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Valid(StorageState{Cookies: tt.cookies}, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("Alice"))
	assert.Equal(t, "alice", NormalizeUsername(" alice "))

	// Idempotent: normalizing twice yields the same value.
	once := NormalizeUsername("MixedCase")
	assert.Equal(t, once, NormalizeUsername(once))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "alice_session.json", FileName("Alice"))
	assert.Equal(t, DefaultFileName, FileName(""))
	assert.Equal(t, DefaultFileName, FileName("default"))
	assert.Equal(t, DefaultFileName, FileName("DEFAULT"))

	// Same inputs always resolve to the same file.
	assert.Equal(t, FileName("Bob"), FileName("bob"))
}

func TestUsernameFromFileName(t *testing.T) {
	assert.Equal(t, "alice", UsernameFromFileName("alice_session.json"))
	assert.Equal(t, "", UsernameFromFileName(DefaultFileName))
	assert.Equal(t, "", UsernameFromFileName("notes.txt"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	rec := testRecord("Alice", float64(time.Now().Unix()+86400))

	require.NoError(t, store.Save(rec))

	loaded, err := store.Load("alice")
	require.NoError(t, err)

	assert.Equal(t, rec.Metadata, loaded.Metadata)
	assert.Equal(t, rec.StorageState.Cookies, loaded.StorageState.Cookies)
	assert.True(t, loaded.Valid(time.Now()))
}

func TestTouchUpdatesLastUsed(t *testing.T) {
	store := newTestStore(t)
	rec := testRecord("alice", float64(time.Now().Unix()+86400))
	rec.Metadata.LastUsed = rec.Metadata.CreatedAt - 100
	require.NoError(t, store.Save(rec))

	before := float64(time.Now().Unix())
	touched, err := store.Touch("alice")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, touched, before)

	loaded, err := store.Load("alice")
	require.NoError(t, err)
	assert.Equal(t, touched, loaded.Metadata.LastUsed)

	// Everything except last_used survives untouched.
	assert.Equal(t, rec.Metadata.Username, loaded.Metadata.Username)
	assert.Equal(t, rec.Metadata.CreatedAt, loaded.Metadata.CreatedAt)
}

func TestLoadMissingFile(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("nobody")
	assert.True(t, os.IsNotExist(err))
}

func writeLegacyFile(t *testing.T, store *Store, username string, expires float64) string {
	t.Helper()

	// Bare storage state, as written before the metadata envelope existed.
	legacy := map[string]interface{}{
		"cookies": []map[string]interface{}{
			{"name": "sessionid", "value": "s", "expires": expires},
		},
		"origins": []interface{}{},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	path := filepath.Join(store.Dir(), FileName(username))
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestLoadLegacyFormat(t *testing.T) {
	store := newTestStore(t)
	future := float64(time.Now().Unix() + 3600)
	writeLegacyFile(t, store, "bob", future)

	rec, err := store.Load("bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", rec.Metadata.Username)
	assert.NotZero(t, rec.Metadata.CreatedAt)
	assert.True(t, rec.Legacy)

	// The cookie itself is readable, but a legacy record never counts
	// as a usable session even with a future expiry.
	assert.True(t, Valid(rec.StorageState, time.Now()))
	assert.False(t, rec.Valid(time.Now()))
}

func TestListReportsLegacyInvalid(t *testing.T) {
	store := newTestStore(t)
	future := float64(time.Now().Unix() + 3600)
	writeLegacyFile(t, store, "bob", future)

	infos := store.List()
	require.Len(t, infos, 1)
	assert.Equal(t, "bob", infos[0].Username)
	assert.False(t, infos[0].Valid)
}

func TestTouchRefusesLegacyFile(t *testing.T) {
	store := newTestStore(t)
	future := float64(time.Now().Unix() + 3600)
	path := writeLegacyFile(t, store, "bob", future)

	_, err := store.Touch("bob")
	assert.Error(t, err)

	// The file keeps its bare shape.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.NotContains(t, string(data), "storage_state")
}

func TestLoadRejectsUnrecognizedShape(t *testing.T) {
	store := newTestStore(t)
	path := filepath.Join(store.Dir(), "odd_session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"foo": 1}`), 0600))

	_, err := store.Load("odd")
	assert.Error(t, err)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	t.Run("missing session returns false", func(t *testing.T) {
		assert.False(t, store.Remove("ghost"))
	})

	t.Run("removes exactly the named session", func(t *testing.T) {
		require.NoError(t, store.Save(testRecord("alice", 0)))
		require.NoError(t, store.Save(testRecord("bob", 0)))

		assert.True(t, store.Remove("Alice"))

		_, err := os.Stat(store.Path("alice"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(store.Path("bob"))
		assert.NoError(t, err)
	})
}

func TestList(t *testing.T) {
	store := newTestStore(t)
	future := float64(time.Now().Unix() + 3600)

	for i, username := range []string{"old", "mid", "new"} {
		rec := testRecord(username, future)
		rec.Metadata.LastUsed = float64(1000 * (i + 1))
		require.NoError(t, store.Save(rec))
	}

	// Expired session and junk that must be skipped, not fatal.
	expired := testRecord("stale", float64(time.Now().Unix()-3600))
	expired.Metadata.LastUsed = 1
	require.NoError(t, store.Save(expired))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "broken_session.json"), []byte("{"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "readme.txt"), []byte("not a session"), 0600))

	infos := store.List()
	require.Len(t, infos, 4)

	// Sorted by last_used descending.
	assert.Equal(t, "new", infos[0].Username)
	assert.Equal(t, "mid", infos[1].Username)
	assert.Equal(t, "old", infos[2].Username)
	assert.Equal(t, "stale", infos[3].Username)

	assert.True(t, infos[0].Valid)
	assert.False(t, infos[3].Valid)
	assert.Greater(t, infos[0].FileSize, int64(0))
}

func TestListEmptyDir(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.List())
}

func TestResolveDir(t *testing.T) {
	t.Run("explicit dir wins", func(t *testing.T) {
		dir, err := ResolveDir(DirOptions{Dir: "/tmp/custom", UseProjectDir: true})
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom", dir)
	})

	t.Run("project dir", func(t *testing.T) {
		dir, err := ResolveDir(DirOptions{UseProjectDir: true})
		require.NoError(t, err)
		cwd, _ := os.Getwd()
		assert.Equal(t, filepath.Join(cwd, "sessions"), dir)
	})

	t.Run("home default", func(t *testing.T) {
		dir, err := ResolveDir(DirOptions{})
		require.NoError(t, err)
		home, _ := os.UserHomeDir()
		assert.Equal(t, filepath.Join(home, ".instagrab", "sessions"), dir)
	})
}
