package domain

import (
	"fmt"
	"time"
)

// RequestStatus represents the lifecycle state of a transport request.
type RequestStatus string

const (
	RequestOpen        RequestStatus = "open"
	RequestNegotiating RequestStatus = "negotiating"
	RequestAccepted    RequestStatus = "accepted"
	RequestInTransit   RequestStatus = "in_transit"
	RequestCompleted   RequestStatus = "completed"
	RequestCancelled   RequestStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// open → accepted is reachable only through the offer-accept protocol
// (a request can be accepted before any negotiation round when the first
// offer is taken immediately).
var validTransitions = map[RequestStatus][]RequestStatus{
	RequestOpen:        {RequestNegotiating, RequestAccepted, RequestCancelled},
	RequestNegotiating: {RequestAccepted, RequestCancelled},
	RequestAccepted:    {RequestInTransit},
	RequestInTransit:   {RequestCompleted},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Negotiable reports whether new offers may be recorded against a request
// in this status.
func (s RequestStatus) Negotiable() bool {
	return s == RequestOpen || s == RequestNegotiating
}

// ChatOpen reports whether the status grants chat access to the matched pair.
func (s RequestStatus) ChatOpen() bool {
	return s == RequestAccepted || s == RequestInTransit || s == RequestCompleted
}

// TransitionError builds the ErrInvalidTransition wrap naming both states.
func TransitionError(from, to RequestStatus) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// TransportRequest is a client's posted transport need with an asking price.
// Content fields belong to the owning client; status is mutated only through
// lifecycle transitions and is never deleted, only terminalized.
type TransportRequest struct {
	ID           string        `json:"id" bson:"_id"`
	ClientID     string        `json:"client_id" bson:"client_id"`
	ClientName   string        `json:"client_name" bson:"client_name"`
	Title        string        `json:"title" bson:"title"`
	Description  string        `json:"description" bson:"description"`
	Origin       string        `json:"origin" bson:"origin"`
	Destination  string        `json:"destination" bson:"destination"`
	CargoType    string        `json:"cargo_type" bson:"cargo_type"`
	OfferedPrice float64       `json:"offered_price" bson:"offered_price"`
	Status       RequestStatus `json:"status" bson:"status"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}
