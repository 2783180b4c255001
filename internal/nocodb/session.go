// ABOUTME: Lazily-created shared HTTP session for outbound NocoDB calls.
// ABOUTME: One client per process, recreated after release, guarded against duplicate creation.

package nocodb

import (
	"net/http"
	"sync"
	"time"
)

// DefaultRequestTimeout is the total-request timeout applied to the shared
// HTTP client when the configuration does not override it.
const DefaultRequestTimeout = 30 * time.Second

// Session owns the process-wide outbound HTTP client. The client is created
// on first Acquire and reused by every concurrent dispatch; Release drops it
// so a later Acquire builds a fresh one. Creation is mutex-guarded because
// handlers run on preemptive goroutines.
type Session struct {
	mu      sync.Mutex
	timeout time.Duration
	client  *http.Client
}

// NewSession creates a Session whose client, once created, uses the given
// total-request timeout. A non-positive timeout falls back to the default.
func NewSession(timeout time.Duration) *Session {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Session{timeout: timeout}
}

// Acquire returns the live HTTP client, creating one if none exists or the
// previous one was released.
func (s *Session) Acquire() *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		s.client = &http.Client{Timeout: s.timeout}
	}
	return s.client
}

// Release closes the session's idle connections and drops the client.
// Safe to call multiple times; a later Acquire recreates the client.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.CloseIdleConnections()
		s.client = nil
	}
}
