package notify

import "log/slog"

// Handler receives notifications.
type Handler interface {
	// HandleNotification returns true if the notification was consumed.
	// A false return lets the caller offer it to another handler.
	HandleNotification(n Notification) bool
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(n Notification) bool

// HandleNotification calls f(n).
func (f HandlerFunc) HandleNotification(n Notification) bool {
	return f(n)
}

// Discard consumes every notification and does nothing with it.
var Discard Handler = HandlerFunc(func(Notification) bool { return true })

type chain []Handler

// Chain returns a Handler that offers each notification to handlers in
// order and stops at the first one that consumes it.
func Chain(handlers ...Handler) Handler {
	return chain(handlers)
}

func (c chain) HandleNotification(n Notification) bool {
	for _, h := range c {
		if h != nil && h.HandleNotification(n) {
			return true
		}
	}
	return false
}

// Logger returns a Handler that logs installer level notifications and
// consumes them. Download progress notifications are left for other handlers.
func Logger(log *slog.Logger) Handler {
	return HandlerFunc(func(n Notification) bool {
		switch n.Kind {
		case Extracting:
			log.Info("Extracting component", "component", n.Component, "archive", n.File)
		case Installed:
			log.Info("Installation complete", "component", n.Component, "path", n.File)
		case Skipped:
			log.Debug("Component already installed", "component", n.Component, "path", n.File)
		case Unrelated:
			return false
		default:
			log.Debug("Notification", "event", n.String())
			return false
		}
		return true
	})
}
