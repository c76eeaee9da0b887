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

const collectionOffers = "offers"

type OfferRepository struct {
	col *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{col: db.Collection(collectionOffers)}
}

func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, o)
	return err
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Offer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OfferRepository) ListByRequest(ctx context.Context, requestID string) ([]*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"request_id": requestID})
}

func (r *OfferRepository) ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{"transporter_id": transporterID})
}

func (r *OfferRepository) find(ctx context.Context, filter bson.M) ([]*domain.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Offer
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OfferRepository) FindAcceptedByRequest(ctx context.Context, requestID string) (*domain.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var o domain.Offer
	err := r.col.FindOne(ctx, bson.M{
		"request_id": requestID,
		"status":     domain.OfferAccepted,
	}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOfferNotFound
		}
		return nil, err
	}
	return &o, nil
}

// UpdateStatus conditionally moves one offer between statuses. The from
// status lives in the filter, so a lost race reports false instead of
// clobbering a terminal state.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OfferStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// RejectOtherPending closes out every competing pending offer after an
// accept. The ids are read first so the caller can report the cascade; the
// status filter on the update keeps the two steps safe to interleave.
func (r *OfferRepository) RejectOtherPending(ctx context.Context, requestID, exceptID string) ([]string, error) {
	return r.closePending(ctx, bson.M{
		"request_id": requestID,
		"_id":        bson.M{"$ne": exceptID},
		"status":     domain.OfferPending,
	}, domain.OfferRejected)
}

// VoidPending voids every pending offer on a cancelled request.
func (r *OfferRepository) VoidPending(ctx context.Context, requestID string) ([]string, error) {
	return r.closePending(ctx, bson.M{
		"request_id": requestID,
		"status":     domain.OfferPending,
	}, domain.OfferVoided)
}

func (r *OfferRepository) closePending(ctx context.Context, filter bson.M, to domain.OfferStatus) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	_, err = r.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": domain.OfferPending},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// EnsureIndexes creates the offer lookup indexes, including a partial unique
// index that lets the database itself refuse a second accepted offer per
// request.
func (r *OfferRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "request_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "transporter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys: bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.OfferAccepted}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
