package session

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/maze-race/game/engine"
	"github.com/wricardo/maze-race/game/stats"
)

// DefaultAutosaveInterval is the autosave period outside the menu.
const DefaultAutosaveInterval = time.Second

// Manager is the control loop's single entry point. It owns the engine, flushes
// the session to persistence and records round outcomes in the stats store.
// Every command runs to completion under the manager's lock.
type Manager struct {
	engine           *engine.GameEngine
	persistence      SessionPersistence
	stats            stats.Store
	autosaveInterval time.Duration
	now              func() time.Time
	lastSave         time.Time
	lastRecord       *stats.WinRecord
	mu               sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithAutosaveInterval overrides DefaultAutosaveInterval. Zero or negative
// disables periodic autosave; outcome and shutdown saves still happen.
func WithAutosaveInterval(d time.Duration) Option {
	return func(m *Manager) { m.autosaveInterval = d }
}

// WithClock replaces time.Now, used for history timestamps and autosave timing.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager wires an engine to its persistence and stats store.
func NewManager(eng *engine.GameEngine, persistence SessionPersistence, store stats.Store, opts ...Option) *Manager {
	m := &Manager{
		engine:           eng,
		persistence:      persistence,
		stats:            store,
		autosaveInterval: DefaultAutosaveInterval,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSave = m.now()
	return m
}

// Execute applies one command. Commands that make no sense in the current mode
// are ignored and report Applied == false. The only errors returned come from
// explicit stats operations; save failures are logged and never block play.
func (m *Manager) Execute(cmd engine.Command) (engine.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mode := m.engine.State().Mode

	switch cmd.Kind {
	case engine.CmdNewGame:
		if mode != engine.ModeMenu {
			return engine.Result{}, nil
		}
		m.deleteSave()
		res := m.engine.Apply(cmd)
		m.lastSave = m.now()
		return res, nil

	case engine.CmdContinueGame:
		if mode != engine.ModeMenu || !m.persistence.Exists() {
			return engine.Result{}, nil
		}
		m.continueGame()
		m.lastSave = m.now()
		return engine.Result{Applied: true}, nil

	case engine.CmdResetTallies:
		if mode != engine.ModeMenu {
			return engine.Result{}, nil
		}
		if err := m.stats.ResetTally(); err != nil {
			return engine.Result{}, fmt.Errorf("failed to reset tallies: %w", err)
		}
		return engine.Result{Applied: true}, nil

	case engine.CmdShutdown:
		if mode != engine.ModeMenu {
			m.save()
		}
		return engine.Result{Applied: true}, nil

	case engine.CmdRestart:
		res := m.engine.Apply(cmd)
		if res.Applied {
			m.deleteSave()
			m.lastSave = m.now()
		}
		return res, nil

	case engine.CmdTick:
		m.lastRecord = nil
		res := m.engine.Apply(cmd)
		if res.Outcome != nil {
			m.recordOutcome(*res.Outcome)
		}
		m.autosave()
		return res, nil

	default:
		return m.engine.Apply(cmd), nil
	}
}

// continueGame restores the save. An unreadable save is discarded and a fresh
// game is started in its place.
func (m *Manager) continueGame() {
	state, err := m.persistence.Load()
	if err == nil {
		err = m.engine.SetState(state)
	}
	if err == nil {
		log.Printf("Resumed saved session in mode %v", state.Mode)
		return
	}

	log.Printf("Warning: Discarding unreadable save: %v", err)
	m.deleteSave()
	m.engine.StartNewGame()
}

func (m *Manager) recordOutcome(outcome engine.Outcome) {
	rec := stats.WinRecord{Label: outcome.Label, At: m.now()}
	m.lastRecord = &rec

	if err := m.stats.AppendHistory(rec); err != nil {
		log.Printf("Warning: Failed to append win history: %v", err)
	}
	if !outcome.Tie {
		if _, err := m.stats.AddWin(int(outcome.Winner) + 1); err != nil {
			log.Printf("Warning: Failed to update win tally: %v", err)
		}
	}
	m.save()
}

func (m *Manager) autosave() {
	if m.autosaveInterval <= 0 || m.engine.State().Mode == engine.ModeMenu {
		return
	}
	if m.now().Sub(m.lastSave) >= m.autosaveInterval {
		m.save()
	}
}

func (m *Manager) save() {
	m.lastSave = m.now()
	if err := m.persistence.Save(m.engine.State()); err != nil {
		log.Printf("Warning: Failed to save session: %v", err)
	}
}

func (m *Manager) deleteSave() {
	if err := m.persistence.Delete(); err != nil {
		log.Printf("Warning: Failed to delete save: %v", err)
	}
}

// Snapshot returns a deep copy of the current session.
func (m *Manager) Snapshot() *engine.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.State().Clone()
}

// LastRecord is the win record written by the most recent tick, if any.
func (m *Manager) LastRecord() *stats.WinRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRecord
}

// HasSave reports whether "continue" would find a save.
func (m *Manager) HasSave() bool {
	return m.persistence.Exists()
}

// Tally returns the persisted win counts.
func (m *Manager) Tally() (stats.Tally, error) {
	return m.stats.Tally()
}

// History returns the win history, newest first.
func (m *Manager) History() ([]stats.WinRecord, error) {
	return m.stats.History()
}

// Save flushes the session immediately regardless of the autosave timer.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine.State().Mode == engine.ModeMenu {
		return errors.New("nothing to save in the menu")
	}
	m.lastSave = m.now()
	return m.persistence.Save(m.engine.State())
}
