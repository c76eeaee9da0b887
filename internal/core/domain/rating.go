package domain

import "time"

// Rating is a 1-5 score one party gives the other after a completed request.
// At most one rating per (rater, request) pair.
type Rating struct {
	ID        string    `json:"id" bson:"_id"`
	FromID    string    `json:"from_user_id" bson:"from_user_id"`
	FromName  string    `json:"from_user_name" bson:"from_user_name"`
	ToID      string    `json:"to_user_id" bson:"to_user_id"`
	RequestID string    `json:"request_id" bson:"request_id"`
	Score     int       `json:"score" bson:"score"`
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
