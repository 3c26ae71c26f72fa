// Package state keeps the latest backup ranking and a history of how it
// changed, with thread-safe access.
package state

import (
	"sync"
	"time"

	"github.com/pscicluna/obsplan/internal/backup"
)

// EventType represents the type of ranking change.
type EventType string

const (
	EventBackupAdded   EventType = "BACKUP_ADDED"
	EventBackupDropped EventType = "BACKUP_DROPPED"
	EventBackupMoved   EventType = "BACKUP_MOVED"
)

// Event is a change between two consecutive rankings.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Target    string    `json:"target"`
	OldRank   int       `json:"old_rank,omitempty"` // 1-based, 0 if absent
	NewRank   int       `json:"new_rank,omitempty"`
}

// Ranking is one completed ranking run.
type Ranking struct {
	RunID   string
	Start   time.Time // window start
	Options backup.Options
	Scores  []backup.Score
}

// HistoryEntry summarizes one ranking for trend display.
type HistoryEntry struct {
	Timestamp   time.Time
	RunID       string
	Count       int
	BestAirmass float64 // of the top entry, 0 when empty
}

// Manager handles shared ranking state.
type Manager struct {
	mu sync.RWMutex

	current      *Ranking
	lastRank     time.Time
	lastError    error
	rankDuration time.Duration

	// Target name -> 1-based rank in the previous ranking.
	prevRanks map[string]int

	history       []HistoryEntry
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // two hours at one ranking per minute
		MaxEvents:       50,
		RefreshInterval: time.Minute,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 120
	}
	return &Manager{
		maxHistoryLen:   maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		prevRanks:       make(map[string]int),
	}
}

// Update records a ranking run. A failed run keeps the previous ranking.
func (m *Manager) Update(r *Ranking, rankDuration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastRank = time.Now()
	m.lastError = err
	m.rankDuration = rankDuration

	if r == nil || err != nil {
		return
	}

	ranks := make(map[string]int, len(r.Scores))
	for i, s := range r.Scores {
		ranks[s.Target.Name] = i + 1
	}
	if m.current != nil {
		m.detectEvents(r, ranks)
	} else {
		for i, s := range r.Scores {
			m.addEvent(Event{Type: EventBackupAdded, Timestamp: m.lastRank, RunID: r.RunID, Target: s.Target.Name, NewRank: i + 1})
		}
	}

	m.current = r
	m.prevRanks = ranks

	entry := HistoryEntry{Timestamp: m.lastRank, RunID: r.RunID, Count: len(r.Scores)}
	if len(r.Scores) > 0 {
		entry.BestAirmass = r.Scores[0].BestAirmass
	}
	m.history = append(m.history, entry)
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}
}

// detectEvents compares the new ranking with the previous one. Events are
// emitted in new-rank order, then drops in old-rank order.
func (m *Manager) detectEvents(r *Ranking, ranks map[string]int) {
	now := m.lastRank

	for i, s := range r.Scores {
		name := s.Target.Name
		newRank := i + 1
		oldRank, wasRanked := m.prevRanks[name]
		switch {
		case !wasRanked:
			m.addEvent(Event{Type: EventBackupAdded, Timestamp: now, RunID: r.RunID, Target: name, NewRank: newRank})
		case oldRank != newRank:
			m.addEvent(Event{Type: EventBackupMoved, Timestamp: now, RunID: r.RunID, Target: name, OldRank: oldRank, NewRank: newRank})
		}
	}

	for i, s := range m.current.Scores {
		if _, still := ranks[s.Target.Name]; !still {
			m.addEvent(Event{Type: EventBackupDropped, Timestamp: now, RunID: r.RunID, Target: s.Target.Name, OldRank: i + 1})
		}
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Ranking      *Ranking
	LastRank     time.Time
	LastError    error
	RankDuration time.Duration
	NextRefresh  time.Time
	History      []HistoryEntry
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := make([]HistoryEntry, len(m.history))
	copy(history, m.history)

	var next time.Time
	if !m.lastRank.IsZero() {
		next = m.lastRank.Add(m.refreshInterval)
	}

	return Snapshot{
		Ranking:      m.current,
		LastRank:     m.lastRank,
		LastError:    m.lastError,
		RankDuration: m.rankDuration,
		NextRefresh:  next,
		History:      history,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		result[i] = m.events[(m.eventWriteAt+i)%m.maxEvents]
	}
	return result
}

// RecentEvents returns the last n events, oldest first.
func (m *Manager) RecentEvents(n int) []Event {
	if n <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// HasData returns true once a ranking has succeeded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}
