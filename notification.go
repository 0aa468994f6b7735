package coreterm

import "github.com/coreterm/coreterm/internal/vtparse"

// NotificationPayload is an alias so callers outside the internal parser
// package can name the desktop notification payload type directly.
type NotificationPayload = vtparse.NotificationPayload

// NotificationProvider handles desktop notification requests (OSC 9, OSC 99).
// Notify returns a response string; for OSC 99 capability queries
// (PayloadType == "?") this is the capability report, otherwise empty.
type NotificationProvider interface {
	Notify(payload *NotificationPayload) string
}

// NoopNotification discards all notification requests.
type NoopNotification struct{}

func (NoopNotification) Notify(payload *NotificationPayload) string { return "" }

var _ NotificationProvider = (*NoopNotification)(nil)

// DesktopNotification processes an OSC 9 / OSC 99 desktop notification request.
func (t *Terminal) DesktopNotification(payload *vtparse.NotificationPayload) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(payload, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(payload)
}

func (t *Terminal) desktopNotificationInternal(payload *vtparse.NotificationPayload) {
	t.mu.RLock()
	provider := t.notificationProvider
	t.mu.RUnlock()

	if provider == nil {
		return
	}

	if response := provider.Notify(payload); response != "" {
		t.writeResponseString(response)
	}
}

// SetNotificationProvider sets the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// NotificationProvider returns the current notification provider.
func (t *Terminal) NotificationProvider() NotificationProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.notificationProvider
}
