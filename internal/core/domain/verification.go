package domain

import "time"

// VerificationKind distinguishes the two credential types.
type VerificationKind string

const (
	VerificationIdentity VerificationKind = "identity"
	VerificationVehicle  VerificationKind = "vehicle"
)

// VerificationStatus is the per-record adjudication state.
type VerificationStatus string

const (
	VerificationNotSubmitted VerificationStatus = "not_submitted"
	VerificationPending      VerificationStatus = "pending"
	VerificationApproved     VerificationStatus = "approved"
	VerificationRejected     VerificationStatus = "rejected"
)

// VerificationRecord is a submitted identity or vehicle credential awaiting
// admin adjudication.
//
// A user holds at most one active identity record: resubmission after a
// rejection creates a new record and clears the Active flag on the prior one,
// preserving its terminal data for audit. Vehicle records are additive, one
// per vehicle.
type VerificationRecord struct {
	ID     string           `json:"id" bson:"_id"`
	UserID string           `json:"user_id" bson:"user_id"`
	Kind   VerificationKind `json:"kind" bson:"kind"`

	// Identity fields.
	DocumentType   string `json:"document_type,omitempty" bson:"document_type,omitempty"`
	DocumentNumber string `json:"document_number,omitempty" bson:"document_number,omitempty"`
	DocumentImage  string `json:"document_image,omitempty" bson:"document_image,omitempty"`
	SelfieImage    string `json:"selfie_image,omitempty" bson:"selfie_image,omitempty"`

	// Vehicle fields.
	VehicleType  string   `json:"vehicle_type,omitempty" bson:"vehicle_type,omitempty"`
	VehicleBrand string   `json:"vehicle_brand,omitempty" bson:"vehicle_brand,omitempty"`
	VehicleModel string   `json:"vehicle_model,omitempty" bson:"vehicle_model,omitempty"`
	VehiclePlate string   `json:"vehicle_plate,omitempty" bson:"vehicle_plate,omitempty"`
	Photos       []string `json:"photos,omitempty" bson:"photos,omitempty"`

	Status      VerificationStatus `json:"status" bson:"status"`
	Active      bool               `json:"active" bson:"active"`
	AdminNotes  string             `json:"admin_notes,omitempty" bson:"admin_notes,omitempty"`
	ReviewedBy  string             `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time         `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at" bson:"submitted_at"`
}
