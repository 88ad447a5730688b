package mongo

import (
	"context"
	"errors"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const metricsCollectionName = "metrics"

type mongoMetricsRepository struct {
	collection *mongo.Collection
}

// NewMongoMetricsRepository creates a new instance of mongoMetricsRepository.
func NewMongoMetricsRepository(db *mongo.Database) repository.MetricsRepository {
	return &mongoMetricsRepository{collection: db.Collection(metricsCollectionName)}
}

func (r *mongoMetricsRepository) Create(ctx context.Context, entry *domain.MetricsEntry) (primitive.ObjectID, error) {
	if entry.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("metrics user is required")
	}

	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		// The unique (userId, date) index rejects a second entry for the
		// same day.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoMetricsRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.MetricsEntry, error) {
	var entry domain.MetricsEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *mongoMetricsRepository) ListInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.MetricsEntry, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []domain.MetricsEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *mongoMetricsRepository) Update(ctx context.Context, entry *domain.MetricsEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": entry.ID, "userId": entry.UserID}, entry)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrConflict
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoMetricsRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureMetricsIndexes creates the indexes for the metrics collection.
// Dates are normalized to start-of-day before insert, so the compound
// unique index enforces one entry per user per calendar day.
func EnsureMetricsIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
