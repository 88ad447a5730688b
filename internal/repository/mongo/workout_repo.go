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

const workoutCollectionName = "workouts"

type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new instance of mongoWorkoutRepository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{collection: db.Collection(workoutCollectionName)}
}

func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Title == "" || workout.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout title and user are required")
	}

	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoWorkoutRepository) GetByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*domain.Workout, error) {
	return r.findOne(ctx, bson.M{"_id": id, "userId": userID})
}

func (r *mongoWorkoutRepository) findOne(ctx context.Context, filter bson.M) (*domain.Workout, error) {
	var workout domain.Workout
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

func (r *mongoWorkoutRepository) List(ctx context.Context, userID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.Workout, error) {
	query := bson.M{"userId": userID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.IsTemplate != nil {
		query["isTemplate"] = *filter.IsTemplate
	}
	if filter.Date != nil {
		start := startOfDay(*filter.Date)
		query["date"] = bson.M{"$gte": start, "$lt": start.Add(24 * time.Hour)}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	return r.findMany(ctx, query, opts)
}

func (r *mongoWorkoutRepository) ListCompletedBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Workout, error) {
	query := bson.M{
		"userId": userID,
		"status": domain.WorkoutCompleted,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	return r.findMany(ctx, query, opts)
}

func (r *mongoWorkoutRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Workout, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.Workout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	workout.UpdatedAt = time.Now().UTC()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": workout.ID}, workout)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoWorkoutRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.WorkoutStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AverageCompletedCalories recomputes the user's mean calories over
// completed workouts with calories > 0.
func (r *mongoWorkoutRepository) AverageCompletedCalories(ctx context.Context, userID primitive.ObjectID) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId":   userID,
			"status":   domain.WorkoutCompleted,
			"calories": bson.M{"$gt": 0},
		}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$calories"}}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Avg float64 `bson:"avg"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return int(rows[0].Avg + 0.5), nil
}

func (r *mongoWorkoutRepository) CountCompletedWithSection(ctx context.Context, userID, sectionID primitive.ObjectID, since time.Time) (int64, error) {
	filter := bson.M{
		"userId":   userID,
		"sections": sectionID,
		"status":   domain.WorkoutCompleted,
		"date":     bson.M{"$gte": since},
	}
	return r.collection.CountDocuments(ctx, filter)
}

func (r *mongoWorkoutRepository) ExistsWithSection(ctx context.Context, sectionID primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"sections": sectionID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *mongoWorkoutRepository) ListPendingGlobal(ctx context.Context) ([]domain.Workout, error) {
	filter := bson.M{"isGlobal": true, "approvedByAdmin": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

func (r *mongoWorkoutRepository) SetApproval(ctx context.Context, id primitive.ObjectID, isGlobal, approved bool) error {
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

func (r *mongoWorkoutRepository) CountCompletedTotal(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": domain.WorkoutCompleted})
}

// PopularGlobal groups completed global templates by title for analytics.
func (r *mongoWorkoutRepository) PopularGlobal(ctx context.Context, limit int) ([]repository.PopularWorkout, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"isGlobal":        true,
			"approvedByAdmin": true,
			"status":          domain.WorkoutCompleted,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$title",
			"count":       bson.M{"$sum": 1},
			"avgCalories": bson.M{"$avg": "$calories"},
		}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []repository.PopularWorkout
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EnsureWorkoutIndexes creates the indexes for the workouts collection.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "isGlobal", Value: 1}, {Key: "approvedByAdmin", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
