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

const exerciseCollectionName = "exercises"

type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new instance of mongoExerciseRepository.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{collection: db.Collection(exerciseCollectionName)}
}

func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

func (r *mongoExerciseRepository) ListVisible(ctx context.Context, userID primitive.ObjectID, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	var clauses []bson.M

	if filter.GlobalOnly {
		clauses = append(clauses, bson.M{"isGlobal": true, "approvedByAdmin": true})
	} else {
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"createdBy": userID},
			{"isGlobal": true, "approvedByAdmin": true},
		}})
	}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"name": pattern},
			{"description": pattern},
			{"targetMuscle": pattern},
		}})
	}
	if filter.SectionID != nil {
		clauses = append(clauses, bson.M{"section": *filter.SectionID})
	}
	if filter.TargetMuscle != "" {
		clauses = append(clauses, bson.M{"targetMuscle": primitive.Regex{Pattern: regexp.QuoteMeta(filter.TargetMuscle), Options: "i"}})
	}
	if filter.Equipment != "" {
		clauses = append(clauses, bson.M{"equipment": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Equipment), Options: "i"}})
	}
	if filter.Difficulty != "" {
		clauses = append(clauses, bson.M{"difficulty": filter.Difficulty})
	}

	query := bson.M{"$and": clauses}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *mongoExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	exercise.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": exercise.ID}, exercise)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoExerciseRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoExerciseRepository) ListPendingGlobal(ctx context.Context) ([]domain.Exercise, error) {
	filter := bson.M{"isGlobal": true, "approvedByAdmin": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.Exercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

func (r *mongoExerciseRepository) SetApproval(ctx context.Context, id primitive.ObjectID, isGlobal, approved bool) error {
	update := bson.M{"$set": bson.M{
		"isGlobal":        isGlobal,
		"approvedByAdmin": approved,
		"updatedAt":       time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoExerciseRepository) CountApprovedGlobal(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"isGlobal": true, "approvedByAdmin": true})
}

// EnsureExerciseIndexes creates the indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdBy", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isGlobal", Value: 1}, {Key: "approvedByAdmin", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "section", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
