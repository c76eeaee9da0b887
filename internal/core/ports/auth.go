package ports

import (
	"context"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence for accounts and the read-mostly user
// fields the core consumes (roles, badge, rating aggregate).
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	SetIdentityVerified(ctx context.Context, userID string, verified bool) error
	// ApplyRating adds one score to the user's running sum/count aggregate.
	ApplyRating(ctx context.Context, userID string, score int) error
}

// RegisterInput carries a new account registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Roles    []string
}

// AuthResult is a signed token plus the account it authenticates.
type AuthResult struct {
	Token string
	User  *domain.User
}

// AuthService implements registration, login and identity lookup.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}
