package app

import (
	"time"

	"github.com/j-veylop/securecheck-dashboard/internal/catalog"
	"github.com/j-veylop/securecheck-dashboard/internal/ledger"
	"github.com/j-veylop/securecheck-dashboard/internal/services"
)

// TickMsg is sent periodically to expire notifications.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// LedgerLoadedMsg carries the result of a full-table load. Ledger holds an
// empty table when the store was unreachable.
type LedgerLoadedMsg struct {
	Ledger *ledger.Ledger
	Err    error
}

// RunAnalysisMsg asks the root model to run a catalog entry.
type RunAnalysisMsg struct {
	Label string
}

// AnalysisResultMsg carries the outcome of an analysis run.
type AnalysisResultMsg struct {
	Label  string
	Result *catalog.Result
	Err    error
}

// RefreshMsg requests reloading the ledger.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
