package liveness

import (
	"sync"
	"time"

	"github.com/siddharthray/chatApp-backend/pkg/log"
)

// State of a monitored connection.
type State string

const (
	StateActive     State = "ACTIVE"
	StateWarning    State = "WARNING"
	StateTerminated State = "TERMINATED"
)

// Transport is the slice of a connection the supervisor drives: sending a
// ping control frame and abruptly closing the underlying socket. Kept
// narrow so tests can substitute a double that drops frames.
type Transport interface {
	Ping() error
	Terminate() error
}

// Config controls probe cadence and escalation thresholds.
type Config struct {
	// Interval between ping probes.
	Interval time.Duration
	// WarnAfter is the pending-probe count that flips the state to WARNING.
	WarnAfter int
	// CloseAfter is the pending-probe count that force-closes the transport.
	CloseAfter int
}

// Supervisor hands out heartbeat monitors for new connections.
type Supervisor struct {
	cfg Config
}

func NewSupervisor(cfg Config) *Supervisor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.WarnAfter <= 0 {
		cfg.WarnAfter = 3
	}
	if cfg.CloseAfter <= cfg.WarnAfter {
		cfg.CloseAfter = cfg.WarnAfter + 2
	}
	return &Supervisor{cfg: cfg}
}

// Watch starts heartbeat supervision for one connection and returns its
// monitor. The caller routes transport pong frames to Monitor.Pong and
// invokes Monitor.Stop from its single teardown path.
func (s *Supervisor) Watch(id string, t Transport) *Monitor {
	m := newMonitor(id, t, s.cfg)
	go m.run()
	return m
}

// Monitor is the per-connection heartbeat state machine. The missed
// counter is a pending-response count: it increments when a probe goes out
// and resets only when a pong arrives.
type Monitor struct {
	id        string
	transport Transport
	cfg       Config

	mu       sync.Mutex
	state    State
	missed   int
	lastPong time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

func newMonitor(id string, t Transport, cfg Config) *Monitor {
	return &Monitor{
		id:        id,
		transport: t,
		cfg:       cfg,
		state:     StateActive,
		lastPong:  time.Now(),
		stop:      make(chan struct{}),
	}
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick sends one probe and escalates on the pending-response count.
func (m *Monitor) tick() {
	l := log.L()
	m.mu.Lock()
	if m.state == StateTerminated {
		m.mu.Unlock()
		return
	}

	// A send failure counts exactly like a timeout: the probe is pending
	// either way, so the increment below already covers it.
	if err := m.transport.Ping(); err != nil {
		l.Warn().Str(log.FieldConnID, m.id).Err(err).Msg("heartbeat probe send failed")
	}
	m.missed++

	switch {
	case m.missed >= m.cfg.CloseAfter:
		m.state = StateTerminated
		m.mu.Unlock()
		l.Error().
			Str(log.FieldConnID, m.id).
			Int(log.FieldMissed, m.cfg.CloseAfter).
			Msg("heartbeat limit reached, terminating connection")
		if err := m.transport.Terminate(); err != nil {
			l.Warn().Str(log.FieldConnID, m.id).Err(err).Msg("transport terminate failed")
		}
		m.cancel()
		return
	case m.missed == m.cfg.WarnAfter:
		m.state = StateWarning
		l.Warn().
			Str(log.FieldConnID, m.id).
			Int(log.FieldMissed, m.missed).
			Str(log.FieldState, string(StateWarning)).
			Msg("peer not answering heartbeat probes")
	}
	m.mu.Unlock()
}

// Pong records a heartbeat response: the pending count resets and a
// WARNING connection becomes ACTIVE again. Pongs arriving after
// termination earn no credit.
func (m *Monitor) Pong() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateTerminated {
		return
	}
	m.missed = 0
	m.lastPong = time.Now()
	if m.state == StateWarning {
		m.state = StateActive
	}
}

// Stop is the single teardown path: it cancels the timer and marks the
// monitor TERMINATED. Safe to call more than once and from outside the
// supervisor; a second invocation is a no-op.
func (m *Monitor) Stop() {
	m.mu.Lock()
	m.state = StateTerminated
	m.mu.Unlock()
	m.cancel()
}

func (m *Monitor) cancel() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

// State returns the current liveness state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Missed returns the current pending-probe count.
func (m *Monitor) Missed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.missed
}

// LastPong returns when the peer last answered a probe.
func (m *Monitor) LastPong() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPong
}
