package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// ChatRepository defines persistence operations for chat messages.
type ChatRepository interface {
	Insert(ctx context.Context, m *domain.ChatMessage) error
	// ListByRequest returns messages in creation order.
	ListByRequest(ctx context.Context, requestID string) ([]*domain.ChatMessage, error)
	// MarkRead flags every message on the request not sent by readerID.
	MarkRead(ctx context.Context, requestID, readerID string) error
}

// PostMessageResult carries the stored (sanitized) message plus the
// moderation warning, surfaced to the sender only.
type PostMessageResult struct {
	Message *domain.ChatMessage
	Warning string
}

// ChatService is the per-request message channel, gated by negotiation
// outcome and fronted by the moderation filter.
type ChatService interface {
	Post(ctx context.Context, actor domain.Actor, requestID, text string) (*PostMessageResult, error)
	List(ctx context.Context, actor domain.Actor, requestID string) ([]*domain.ChatMessage, error)
}
