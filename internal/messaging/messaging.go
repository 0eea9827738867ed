// Package messaging defines the outbound delivery capability. Concrete
// delivery adapters (bots, gateways) live outside this module and implement
// Notifier; a logging implementation is provided for deployments without a
// wired channel.
package messaging

import (
	"context"
	"log/slog"
)

// Notifier delivers a message to a user over whatever channel the adapter
// serves.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// LogNotifier writes notifications to the log instead of delivering them.
// Useful as a default and in tests.
type LogNotifier struct{}

// Notify logs the message.
func (LogNotifier) Notify(_ context.Context, userID, message string) error {
	slog.Info("notification", "userID", userID, "message", message)
	return nil
}
