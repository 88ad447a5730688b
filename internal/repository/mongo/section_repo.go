package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sectionCollectionName = "workout_sections"

type mongoSectionRepository struct {
	collection *mongo.Collection
}

// NewMongoSectionRepository creates a new instance of mongoSectionRepository.
func NewMongoSectionRepository(db *mongo.Database) repository.SectionRepository {
	return &mongoSectionRepository{collection: db.Collection(sectionCollectionName)}
}

func (r *mongoSectionRepository) Create(ctx context.Context, section *domain.WorkoutSection) (primitive.ObjectID, error) {
	section.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	section.CreatedAt = now
	section.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, section)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoSectionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutSection, error) {
	var section domain.WorkoutSection
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// FindByNameForUser matches exactly but case-insensitively among the user's
// own sections and the globals.
func (r *mongoSectionRepository) FindByNameForUser(ctx context.Context, name string, userID primitive.ObjectID) (*domain.WorkoutSection, error) {
	filter := bson.M{
		"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"},
		"$or": []bson.M{
			{"userId": userID},
			{"isGlobal": true},
		},
	}
	var section domain.WorkoutSection
	err := r.collection.FindOne(ctx, filter).Decode(&section)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

func (r *mongoSectionRepository) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutSection, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"userId": userID},
			{"isGlobal": true},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sections []domain.WorkoutSection
	if err = cursor.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *mongoSectionRepository) Update(ctx context.Context, section *domain.WorkoutSection) error {
	section.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": section.ID}, section)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSectionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSectionIndexes creates the indexes for the workout_sections collection.
func EnsureSectionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "isGlobal", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
