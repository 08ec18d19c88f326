package archive

import (
	"context"

	"github.com/banterhq/banter/internal/domain"
)

// MessageProducer streams persisted messages to the archive topic.
// Archival is best-effort; a failure never affects the chat path.
type MessageProducer interface {
	Produce(ctx context.Context, msg *domain.ArchivedMessage) error
	Close() error
}
