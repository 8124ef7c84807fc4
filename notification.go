package mediator

import "context"

// Notification is a marker for fire-and-forget messages delivered to
// zero or more handlers. Unlike Request, it carries no response type
// parameter: embedding NotificationBase is enough.
type Notification interface {
	isNotification()
}

// NotificationBase implements Notification for an embedding struct.
type NotificationBase struct{}

func (NotificationBase) isNotification() {}

// NotificationHandler receives a published notification. Notifications
// never participate in the pipeline: no pre-processors, middleware,
// post-processors, or exception handling run around a notification
// handler.
type NotificationHandler[TNotif Notification] interface {
	Handle(ctx context.Context, n TNotif) error
}

// NotificationHandlerFunc adapts a function to NotificationHandler.
type NotificationHandlerFunc[TNotif Notification] func(ctx context.Context, n TNotif) error

// Handle implements NotificationHandler.
func (f NotificationHandlerFunc[TNotif]) Handle(ctx context.Context, n TNotif) error {
	return f(ctx, n)
}
