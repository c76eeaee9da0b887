package domain

import "time"

// ChatMessage is one message in a request's private channel. Content is
// stored post-moderation and is immutable once created; only the read flag
// is toggled afterwards.
type ChatMessage struct {
	ID         string    `json:"id" bson:"_id"`
	RequestID  string    `json:"request_id" bson:"request_id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	SenderName string    `json:"sender_name" bson:"sender_name"`
	Content    string    `json:"content" bson:"content"`
	Blocked    bool      `json:"blocked" bson:"blocked"`
	Read       bool      `json:"read" bson:"read"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
