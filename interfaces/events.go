package interfaces

import "context"

type EventPublisher interface {
	PublishMailEvent(ctx context.Context, event MailEvent) error
	Close() error
}
