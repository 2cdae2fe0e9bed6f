package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mirasocial/mira-client/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set(KeyTheme, []byte("dark")))
	v, err := s.Get(KeyTheme)
	require.NoError(t, err)
	require.Equal(t, "dark", string(v))

	// Overwrite.
	require.NoError(t, s.Set(KeyTheme, []byte("light")))
	v, err = s.Get(KeyTheme)
	require.NoError(t, err)
	require.Equal(t, "light", string(v))
}

func TestStoreMissingKey(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get("absent")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDeleteIdempotent(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Set(KeyLanguage, []byte("en")))
	require.NoError(t, s.Delete(KeyLanguage))
	require.NoError(t, s.Delete(KeyLanguage))

	_, err := s.Get(KeyLanguage)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoreSessionJSON(t *testing.T) {
	s := openTestStore(t)

	in := model.Session{
		User:      model.User{ID: "u1", Username: "ada", Email: "ada@example.com"},
		AuthToken: "tok-1",
	}
	require.NoError(t, s.SetJSON(KeySession, in))

	var out model.Session
	require.NoError(t, s.GetJSON(KeySession, &out))
	require.Equal(t, in, out)
}
