package clockify

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Session holds the API key for the running process. Every request reads the
// key through it, so a key cleared after an auth failure is seen by the next call.
type Session struct {
	mu        sync.RWMutex
	apiKey    string
	listeners []func(apiKey string)
}

func NewSession(apiKey string) *Session {
	return &Session{apiKey: apiKey}
}

func (s *Session) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

func (s *Session) HasCredential() bool {
	return s.APIKey() != ""
}

// SetAPIKey is the only way the key changes. Listeners are notified when the
// value actually differs.
func (s *Session) SetAPIKey(apiKey string) {
	s.mu.Lock()
	s.replaceLocked(apiKey)
}

func (s *Session) Clear() {
	s.SetAPIKey("")
}

// Invalidate clears the key only if it is still the one that was rejected, so
// a key set while the failing request was in flight survives.
func (s *Session) Invalidate(rejected string) bool {
	s.mu.Lock()
	if rejected == "" || s.apiKey != rejected {
		s.mu.Unlock()
		return false
	}
	log.Warn("Clockify rejected the stored API key, clearing it")
	s.replaceLocked("")
	return true
}

// replaceLocked must be called with mu held and releases it before notifying.
func (s *Session) replaceLocked(apiKey string) {
	if s.apiKey == apiKey {
		s.mu.Unlock()
		return
	}
	s.apiKey = apiKey
	listeners := make([]func(string), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(apiKey)
	}
}

func (s *Session) OnChange(listener func(apiKey string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}
