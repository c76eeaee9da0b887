package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

const collectionVerifications = "verifications"

type VerificationRepository struct {
	col *mongo.Collection
}

func NewVerificationRepository(db *mongo.Database) *VerificationRepository {
	return &VerificationRepository{col: db.Collection(collectionVerifications)}
}

func (r *VerificationRepository) Insert(ctx context.Context, rec *domain.VerificationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *VerificationRepository) FindByID(ctx context.Context, id string) (*domain.VerificationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec domain.VerificationRecord
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// DeactivateIdentity clears the active flag on the user's identity records.
// Terminal data stays for audit.
func (r *VerificationRepository) DeactivateIdentity(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateMany(ctx,
		bson.M{"user_id": userID, "kind": domain.VerificationIdentity, "active": true},
		bson.M{"$set": bson.M{"active": false}},
	)
	return err
}

func (r *VerificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.VerificationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *VerificationRepository) ListAdmin(ctx context.Context, status domain.VerificationStatus, kind domain.VerificationKind) ([]*domain.VerificationRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if kind != "" {
		filter["kind"] = kind
	}
	return r.find(ctx, filter)
}

func (r *VerificationRepository) find(ctx context.Context, filter bson.M) ([]*domain.VerificationRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.VerificationRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Adjudicate decides a record still in pending state. The status filter
// makes a concurrent double-adjudication report false rather than overwrite
// the first decision.
func (r *VerificationRepository) Adjudicate(ctx context.Context, id string, status domain.VerificationStatus, notes, adminID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": domain.VerificationPending},
		bson.M{"$set": bson.M{
			"status":      status,
			"admin_notes": notes,
			"reviewed_by": adminID,
			"reviewed_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *VerificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "kind", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "submitted_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
