package project

import (
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jakoblorz/go-codestart/internal/logger"
	"github.com/jakoblorz/go-codestart/internal/models"
)

// DefaultSyncInterval is how long edits settle before they are written.
const DefaultSyncInterval = 500 * time.Millisecond

// SyncState is the phase of the Synchronizer.
type SyncState int

const (
	// StateIdle has nothing to write
	StateIdle SyncState = iota

	// StatePendingLocal waits for edits to settle
	StatePendingLocal

	// StateSyncing has a write in flight
	StateSyncing
)

func (s SyncState) String() string {
	switch s {
	case StatePendingLocal:
		return "pending"
	case StateSyncing:
		return "syncing"
	default:
		return "idle"
	}
}

// Sink receives settled project definitions.
type Sink interface {
	Write(p *models.ProjectDefinition) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(p *models.ProjectDefinition) error

func (f SinkFunc) Write(p *models.ProjectDefinition) error { return f(p) }

// FlushMsg fires when an edit has settled. Messages carrying an outdated
// token belong to superseded edits and are ignored.
type FlushMsg struct {
	token uint64
}

// SyncedMsg reports a finished write.
type SyncedMsg struct {
	Project *models.ProjectDefinition
	Err     error
}

// Synchronizer debounces project edits and writes the settled value to
// its sinks, one write at a time and in edit order. It is driven by the
// bubbletea update loop: feed Edit results and every message through
// Update and run the returned commands.
type Synchronizer struct {
	interval time.Duration
	sinks    []Sink
	log      *logger.Logger

	state   SyncState
	token   uint64
	pending *models.ProjectDefinition
	queued  bool

	writeMu sync.Mutex
	applied uint64
}

// NewSynchronizer creates an idle Synchronizer.
func NewSynchronizer(interval time.Duration, log *logger.Logger, sinks ...Sink) *Synchronizer {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Synchronizer{interval: interval, sinks: sinks, log: log}
}

// State returns the current phase.
func (s *Synchronizer) State() SyncState {
	return s.state
}

// Pending returns the edit waiting to be written, if any.
func (s *Synchronizer) Pending() *models.ProjectDefinition {
	return s.pending
}

// Edit records p as the latest value. While idle or pending it restarts
// the settle timer; while a write is in flight the value waits for it.
func (s *Synchronizer) Edit(p *models.ProjectDefinition) tea.Cmd {
	s.pending = p.Clone()

	if s.state == StateSyncing {
		s.queued = true
		return nil
	}

	s.state = StatePendingLocal
	s.token++
	return s.tick(s.token)
}

func (s *Synchronizer) tick(token uint64) tea.Cmd {
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return FlushMsg{token: token}
	})
}

// Update advances the state machine. Messages it does not own are ignored.
func (s *Synchronizer) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case FlushMsg:
		if msg.token != s.token || s.state != StatePendingLocal {
			return nil
		}
		p := s.pending
		s.pending = nil
		s.state = StateSyncing
		return s.write(p, msg.token)

	case SyncedMsg:
		if s.state != StateSyncing {
			return nil
		}
		if msg.Err != nil {
			s.log.Warn("failed to sync project", "error", msg.Err)
		}
		s.state = StateIdle
		if s.queued {
			s.queued = false
			s.state = StatePendingLocal
			s.token++
			return s.tick(s.token)
		}
	}
	return nil
}

func (s *Synchronizer) write(p *models.ProjectDefinition, seq uint64) tea.Cmd {
	return func() tea.Msg {
		return SyncedMsg{Project: p, Err: s.apply(p, seq)}
	}
}

// apply writes p to every sink unless a newer value was already written.
func (s *Synchronizer) apply(p *models.ProjectDefinition, seq uint64) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq <= s.applied {
		return nil
	}
	s.applied = seq

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush writes the pending value right away, cancelling its timer. It is
// meant for program exit and returns nil when nothing is pending.
func (s *Synchronizer) Flush() error {
	if s.pending == nil {
		return nil
	}
	p := s.pending
	s.pending = nil
	s.queued = false
	s.token++
	s.state = StateIdle
	return s.apply(p, s.token)
}

// Discard drops the pending value and any write that has not started yet,
// e.g. after the stored project was reset.
func (s *Synchronizer) Discard() {
	s.pending = nil
	s.queued = false
	s.token++
	if s.state == StatePendingLocal {
		s.state = StateIdle
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.applied = s.token
}
