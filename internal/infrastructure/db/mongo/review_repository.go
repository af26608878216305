package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reviewly/review-service/internal/core/domain"
	"github.com/reviewly/review-service/internal/core/ports"
)

const reviewsCollection = "reviews"

type ReviewRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewReviewRepository(db *mongo.Database, timeout time.Duration) *ReviewRepository {
	return &ReviewRepository{coll: db.Collection(reviewsCollection), timeout: timeout}
}

type mongoReview struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Review    string             `bson:"review"`
	Site      string             `bson:"site"`
	Timestamp string             `bson:"timestamp"`
}

func (m mongoReview) toDomain() *domain.Review {
	return &domain.Review{
		ID:        m.ID.Hex(),
		Name:      m.Name,
		Email:     m.Email,
		Review:    m.Review,
		Site:      m.Site,
		Timestamp: m.Timestamp,
	}
}

// Insert stores review and sets its ID.
func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	doc := mongoReview{
		ID:        primitive.NewObjectID(),
		Name:      review.Name,
		Email:     review.Email,
		Review:    review.Review,
		Site:      review.Site,
		Timestamp: review.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	review.ID = doc.ID.Hex()
	return nil
}

// List returns matching reviews in insertion order.
func (r *ReviewRepository) List(ctx context.Context, site string) ([]*domain.Review, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{}
	if site != "" {
		filter["site"] = site
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	return decodeReviews(ctx, cur)
}

// Sample runs a $match/$sample aggregation; $sample never returns the same
// document twice.
func (r *ReviewRepository) Sample(ctx context.Context, site string, n int) ([]*domain.Review, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"site": site}}},
		{{Key: "$sample", Value: bson.M{"size": n}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sample reviews: %w", err)
	}
	return decodeReviews(ctx, cur)
}

func (r *ReviewRepository) DeleteOne(ctx context.Context, f ports.DeleteReviewFilter) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"email": f.Email, "timestamp": f.Timestamp}
	if f.Site != "" {
		filter["site"] = f.Site
	}

	err := r.coll.FindOneAndDelete(ctx, filter).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.ErrReviewNotFound
		}
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes on the reviews collection.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "site", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create review indexes: %w", err)
	}
	return nil
}

func decodeReviews(ctx context.Context, cur *mongo.Cursor) ([]*domain.Review, error) {
	var docs []mongoReview
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]*domain.Review, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
