package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	Insert(ctx context.Context, r *domain.Rating) error
	// ExistsForRequest reports whether the rater already rated this request.
	ExistsForRequest(ctx context.Context, fromID, requestID string) (bool, error)
	ListForUser(ctx context.Context, toID string) ([]*domain.Rating, error)
}

// SubmitRatingInput carries one party's post-completion score.
type SubmitRatingInput struct {
	RequestID string
	ToUserID  string
	Score     int
	Comment   string
}

// RatingService accepts post-completion ratings and maintains the
// recipient's running aggregate.
type RatingService interface {
	Submit(ctx context.Context, actor domain.Actor, in SubmitRatingInput) (*domain.Rating, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Rating, error)
}
