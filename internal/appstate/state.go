// Package appstate holds shared client state: the session, theme and
// language. It is constructed explicitly and passed to components instead of
// living in package-level singletons.
package appstate

import (
	"errors"
	"sync"

	"github.com/mirasocial/mira-client/internal/model"
	"github.com/mirasocial/mira-client/internal/storage"
)

// State is the per-process application state, persisted through the client
// store under fixed keys.
type State struct {
	mu       sync.RWMutex
	session  *model.Session
	theme    string
	language string
	store    *storage.Store
}

// New creates the state and loads any persisted session, theme and language
// from the store.
func New(store *storage.Store) (*State, error) {
	s := &State{store: store, theme: "light", language: "en"}

	var sess model.Session
	err := store.GetJSON(storage.KeySession, &sess)
	switch {
	case err == nil:
		s.session = &sess
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	if raw, err := store.Get(storage.KeyTheme); err == nil {
		s.theme = string(raw)
	}
	if raw, err := store.Get(storage.KeyLanguage); err == nil {
		s.language = string(raw)
	}
	return s, nil
}

// Session returns the current session, or nil when logged out.
func (s *State) Session() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SetSession stores and persists a new session.
func (s *State) SetSession(sess *model.Session) error {
	s.mu.Lock()
	s.session = sess
	s.mu.Unlock()
	return s.store.SetJSON(storage.KeySession, sess)
}

// ClearSession drops the session in memory and in the store.
func (s *State) ClearSession() error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	return s.store.Delete(storage.KeySession)
}

// Theme returns the current UI theme name.
func (s *State) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme stores and persists the theme.
func (s *State) SetTheme(theme string) error {
	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	return s.store.Set(storage.KeyTheme, []byte(theme))
}

// Language returns the current UI language code.
func (s *State) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage stores and persists the language.
func (s *State) SetLanguage(lang string) error {
	s.mu.Lock()
	s.language = lang
	s.mu.Unlock()
	return s.store.Set(storage.KeyLanguage, []byte(lang))
}
