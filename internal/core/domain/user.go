package domain

import "time"

const (
	RoleClient      = "client"
	RoleTransporter = "transporter"
	RoleAdmin       = "admin"
)

// User models an authenticated actor. The account subsystem owns the
// credential fields; the marketplace core reads roles, the verification badge
// and the rating aggregate.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Phone            string    `json:"phone,omitempty"`
	PasswordHash     string    `json:"-"`
	Roles            []string  `json:"roles"`
	RatingSum        int       `json:"rating_sum"`
	RatingCount      int       `json:"rating_count"`
	IdentityVerified bool      `json:"identity_verified"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AverageRating returns the running rating average, 0 when unrated.
func (u *User) AverageRating() float64 {
	if u.RatingCount == 0 {
		return 0
	}
	return float64(u.RatingSum) / float64(u.RatingCount)
}

// Actor is the authenticated identity attached to every core operation.
// It carries only what authorization predicates need.
type Actor struct {
	ID    string
	Name  string
	Roles []string
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
