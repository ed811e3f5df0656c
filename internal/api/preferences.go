package api

import (
	"net/http"
	"sync"

	"fleet-dashboard/internal/models"
)

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.store.LoadPreferences())
}

// handleUpdatePreferences merges the given keys into the stored
// preferences. Storage failures are logged and otherwise ignored.
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var patch map[string]string
	if err := decode(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	prefs := s.store.LoadPreferences()
	for key, value := range patch {
		prefs = prefs.With(key, value)
	}

	if err := s.store.SavePreferences(prefs); err != nil {
		s.log.Warn().Err(err).Msg("preferences not saved")
	}
	respondJSON(w, http.StatusOK, prefs)
}

var _ Store = (*memStore)(nil)

// memStore keeps preferences in memory for runs without a database
type memStore struct {
	mu    sync.Mutex
	prefs models.Preferences
}

// NewMemoryStore returns a Store that keeps preferences for the process
// lifetime only
func NewMemoryStore() Store {
	return &memStore{prefs: models.DefaultPreferences()}
}

func (m *memStore) GetStats() (map[string]interface{}, error) {
	return map[string]interface{}{}, nil
}

func (m *memStore) LoadPreferences() models.Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

func (m *memStore) SavePreferences(p models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = p
	return nil
}
