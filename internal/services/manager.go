// Package services wires the ledger store, the analysis catalog and the
// background watcher together for the user interfaces.
package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/config"
	"github.com/j-veylop/securecheck-dashboard/internal/db"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
	"github.com/j-veylop/securecheck-dashboard/internal/logger"
)

// reloadDebounce coalesces bursts of writes to the ledger file.
const reloadDebounce = 500 * time.Millisecond

type (
	// LedgerChangedEvent is emitted when the watched ledger file is written.
	LedgerChangedEvent struct {
		Path string
	}

	// ErrorEvent is emitted when an operation fails.
	ErrorEvent struct {
		Service string
		Error   error
	}

	// StoreStatusEvent is emitted when the store goes down or comes back.
	StoreStatusEvent struct {
		Reachable bool
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (LedgerChangedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()         {}
func (StoreStatusEvent) isServiceEvent()   {}

// Notifier raises a desktop notification.
type Notifier func(title, message string) error

// Option customizes a Manager.
type Option func(*Manager)

// WithConnector replaces the connection provider built from the config.
func WithConnector(c db.Connector) Option {
	return func(m *Manager) { m.conn = c }
}

// WithNotifier replaces the desktop notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notify = n }
}

// Manager owns the executor, the analysis runner and the ledger watcher.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	conn        db.Connector
	executor    *db.Executor
	runner      *catalog.Runner
	notify      Notifier
	storeDown   bool
	watcher     *fsnotify.Watcher
	debounce    *time.Timer
	stopChan    chan struct{}
	subscribers []chan ServiceEvent
	closeOnce   sync.Once
}

// NewManager creates a manager for cfg. The ledger watcher starts only when
// watching is enabled and the store is a sqlite file.
func NewManager(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		cfg:      cfg,
		stopChan: make(chan struct{}),
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.conn == nil {
		m.conn = db.NewProvider(cfg.Store())
	}

	m.executor = db.NewExecutor(m.conn)
	m.runner = catalog.NewRunner(m.executor)

	if cfg.Watch && cfg.Driver == config.DriverSQLite && cfg.Path != "" {
		if err := m.startWatcher(cfg.Path); err != nil {
			return nil, fmt.Errorf("failed to watch ledger file: %w", err)
		}
	}

	return m, nil
}

// Config returns the configuration the manager was built from.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// Executor returns the query executor.
func (m *Manager) Executor() *db.Executor {
	return m.executor
}

// LoadLedger reads the full ledger. On a connection failure the returned
// ledger is empty and the error is reported to subscribers.
func (m *Manager) LoadLedger(ctx context.Context) (*ledger.Ledger, error) {
	l, err := ledger.Load(ctx, m.executor)
	m.observe("ledger", err)
	return l, err
}

// RunAnalysis runs a catalog entry by label.
func (m *Manager) RunAnalysis(ctx context.Context, label string) (*catalog.Result, error) {
	res, err := m.runner.Run(ctx, label)
	m.observe("catalog", err)
	return res, err
}

// RunEntry runs an already resolved catalog entry.
func (m *Manager) RunEntry(ctx context.Context, entry catalog.Entry) (*catalog.Result, error) {
	res, err := m.runner.RunEntry(ctx, entry)
	m.observe("catalog", err)
	return res, err
}

// observe tracks store reachability and reports failures.
func (m *Manager) observe(service string, err error) {
	var connErr *db.ConnectionError
	down := errors.As(err, &connErr)
	if err != nil && !down && !db.IsQueryError(err) {
		// Lookup failures are caller mistakes, not store state.
		return
	}

	m.mu.Lock()
	changed := down != m.storeDown
	m.storeDown = down
	m.mu.Unlock()

	if err != nil {
		m.broadcast(ErrorEvent{Service: service, Error: err})
	}
	if !changed {
		return
	}

	m.broadcast(StoreStatusEvent{Reachable: !down})
	if down && m.cfg.Notify {
		if nerr := m.notify("SecureCheck: ledger store unreachable", connErr.Error()); nerr != nil {
			logger.Warn("failed to send notification", "error", nerr)
		}
	}
}

func (m *Manager) startWatcher(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory so replaced files and WAL writes are seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}
	m.watcher = watcher

	go m.watchLoop(path)
	return nil
}

func (m *Manager) watchLoop(path string) {
	base := filepath.Base(path)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Base(event.Name)
			if name != base && name != base+"-wal" {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				m.mu.Lock()
				if m.debounce != nil {
					m.debounce.Stop()
				}
				m.debounce = time.AfterFunc(reloadDebounce, func() {
					logger.Debug("ledger file changed", "path", path)
					m.broadcast(LedgerChangedEvent{Path: path})
				})
				m.mu.Unlock()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			m.broadcast(ErrorEvent{Service: "watcher", Error: err})

		case <-m.stopChan:
			return
		}
	}
}

// broadcast sends an event to all subscribers without blocking.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Unsubscribe removes a subscriber channel and closes it.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close stops the watcher and closes all subscriber channels. It is safe to
// call more than once.
func (m *Manager) Close() error {
	var err error
	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		if m.debounce != nil {
			m.debounce.Stop()
		}
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.watcher != nil {
			err = m.watcher.Close()
		}
	})
	return err
}
