// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/charts"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

// LoadingNotificationID is the fixed ID for the loading notification.
const LoadingNotificationID = "__loading__"

// maxNotifications caps the toast stack.
const maxNotifications = 10

// Loadable resources.
const (
	ResourceInitial  = "initial"
	ResourceLedger   = "ledger"
	ResourceAnalysis = "analysis"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired. A zero duration
// never expires.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial  bool
	Ledger   bool
	Analysis bool
}

// State is shared by the root model and every tab. Tabs only read it; the
// root model writes it from the update loop.
type State struct {
	mu sync.RWMutex

	ledger    *ledger.Ledger
	ledgerErr error
	metrics   ledger.Metrics
	dashboard []charts.Spec
	durations []string

	analysis    *catalog.Result
	analysisErr error

	storeReachable bool

	Loading     LoadingState
	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState returns the state shown before the first load completes.
func NewState() *State {
	return &State{
		durations:      ledger.Durations(nil),
		storeReachable: true,
		notifications:  make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case ResourceInitial:
		s.Loading.Initial = loading
	case ResourceLedger:
		s.Loading.Ledger = loading
	case ResourceAnalysis:
		s.Loading.Analysis = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial || s.Loading.Ledger || s.Loading.Analysis
}

// IsLoading reports whether a single resource is loading.
func (s *State) IsLoading(resource string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch resource {
	case ResourceInitial:
		return s.Loading.Initial
	case ResourceLedger:
		return s.Loading.Ledger
	case ResourceAnalysis:
		return s.Loading.Analysis
	}
	return false
}

// SetLedger stores a freshly loaded ledger and derives the metrics, the
// dashboard charts and the duration choices from it. A nil ledger keeps the
// previous data and only records the error.
func (s *State) SetLedger(l *ledger.Ledger, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledgerErr = err
	if l == nil {
		return
	}

	s.ledger = l
	s.metrics = ledger.ComputeMetrics(l.Records)
	s.dashboard = charts.Dashboard(l.Table)
	s.durations = ledger.Durations(l.Records)
	s.LastUpdated = time.Now()
}

// Ledger returns the last loaded ledger and the error of the last load.
func (s *State) Ledger() (*ledger.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger, s.ledgerErr
}

// Metrics returns the key metrics of the loaded ledger.
func (s *State) Metrics() ledger.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// Dashboard returns the fixed charts of the loaded ledger.
func (s *State) Dashboard() []charts.Spec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dashboard
}

// Durations returns the stop duration choices for the prediction form.
func (s *State) Durations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.durations))
	copy(out, s.durations)
	return out
}

// SetAnalysis records the outcome of the last analysis run. A failed run
// with no result keeps the previous table on screen.
func (s *State) SetAnalysis(res *catalog.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.analysisErr = err
	if res != nil {
		s.analysis = res
	}
}

// Analysis returns the last analysis result and the error of the last run.
func (s *State) Analysis() (*catalog.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis, s.analysisErr
}

// SetStoreReachable records the store status reported by the services.
func (s *State) SetStoreReachable(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeReachable = ok
}

// StoreReachable reports the last known store status.
func (s *State) StoreReachable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.storeReachable
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := fmt.Sprintf("n%d", s.notificationSeq)

	s.notifications = append(s.notifications, Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	})

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = s.activeLocked()
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeLocked()
}

func (s *State) activeLocked() []Notification {
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification shows or relabels the single loading notification.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.RemoveNotification(LoadingNotificationID)
}

// TimeSinceUpdate returns the duration since the ledger was last loaded.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
