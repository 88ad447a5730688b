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

const sessionCollectionName = "workout_sessions"

type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new instance of mongoSessionRepository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{collection: db.Collection(sessionCollectionName)}
}

func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.WorkoutSession) (primitive.ObjectID, error) {
	if session.WorkoutID == primitive.NilObjectID || session.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session workout and user are required")
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if session.StartTime.IsZero() {
		session.StartTime = now
	}
	if session.Status == "" {
		session.Status = domain.SessionInProgress
	}
	if session.CompletedSets == nil {
		session.CompletedSets = []domain.CompletedSet{}
	}
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		// The partial unique index on (workoutId, userId) for in-progress
		// sessions turns a concurrent double-start into a conflict.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoSessionRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *mongoSessionRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "status": domain.SessionInProgress})
}

func (r *mongoSessionRepository) GetActiveByWorkoutAndUser(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.WorkoutSession, error) {
	return r.findOne(ctx, bson.M{
		"workoutId": workoutID,
		"userId":    userID,
		"status":    domain.SessionInProgress,
	})
}

func (r *mongoSessionRepository) findOne(ctx context.Context, filter bson.M) (*domain.WorkoutSession, error) {
	var session domain.WorkoutSession
	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// AppendCompletedSet pushes one completed-set record atomically. It does not
// touch the progress indices.
func (r *mongoSessionRepository) AppendCompletedSet(ctx context.Context, id, userID primitive.ObjectID, set domain.CompletedSet) error {
	update := bson.M{
		"$push": bson.M{"completedSets": set},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) UpdateProgress(ctx context.Context, id, userID primitive.ObjectID, exerciseIndex, setIndex *int) error {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	if exerciseIndex != nil {
		fields["currentExerciseIndex"] = *exerciseIndex
	}
	if setIndex != nil {
		fields["currentSetIndex"] = *setIndex
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoSessionRepository) Complete(ctx context.Context, id, userID primitive.ObjectID, endTime time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":    domain.SessionCompleted,
		"endTime":   endTime,
		"updatedAt": time.Now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "userId": userID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionIndexes creates the indexes for the workout_sessions
// collection. The partial unique index is the storage-level guard that keeps
// one active session per (workout, user).
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "workoutId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.SessionInProgress}),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
