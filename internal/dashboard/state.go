package dashboard

import (
	"slices"
	"sync"
	"time"

	"github.com/skycast/skycast/internal/weather"
)

// clientState is what the dashboard remembers about one client between
// requests.
type clientState struct {
	mu sync.Mutex

	// generation is bumped each time a search starts; a completion is
	// applied only if its generation is still the latest.
	generation uint64

	city     string
	samples  []weather.Sample
	location *time.Location
	lastSeen time.Time
}

// begin starts a search and returns its generation.
func (s *clientState) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.lastSeen = time.Now()
	return s.generation
}

func (s *clientState) isLatest(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen == s.generation
}

// apply records the displayed search if gen is still the latest.
func (s *clientState) apply(gen uint64, city string, samples []weather.Sample, loc *time.Location) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	s.city = city
	s.samples = samples
	s.location = loc
	s.lastSeen = time.Now()
	return true
}

// chart returns a copy of the retained chart samples.
func (s *clientState) chart() ([]weather.Sample, *time.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.samples == nil {
		return nil, nil, false
	}
	return slices.Clone(s.samples), s.location, true
}

func (s *clientState) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// stateTable maps client ids to their state, bounded by max entries.
type stateTable struct {
	mu      sync.Mutex
	max     int
	clients map[string]*clientState
}

func newStateTable(limit int) *stateTable {
	return &stateTable{
		max:     limit,
		clients: make(map[string]*clientState),
	}
}

// get returns the state of clientID, creating it if needed.
func (t *stateTable) get(clientID string) *clientState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.clients[clientID]; ok {
		return s
	}

	if len(t.clients) >= t.max {
		t.evictOldest()
	}

	s := &clientState{lastSeen: time.Now()}
	t.clients[clientID] = s
	return s
}

// lookup returns the state of clientID without creating or evicting one.
func (t *stateTable) lookup(clientID string) (*clientState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.clients[clientID]
	return s, ok
}

func (t *stateTable) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range t.clients {
		seen := s.seen()
		if oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(t.clients, oldestID)
}
