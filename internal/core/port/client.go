package port

import "github.com/classmeet/server/internal/core/domain"

// Client is one connected signaling client as seen by the driving adapter.
type Client interface {
	domain.Notifier
	ID() domain.ConnectionID
	Close() error
}
