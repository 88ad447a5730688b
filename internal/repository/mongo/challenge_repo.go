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

const challengeCollectionName = "challenges"

type mongoChallengeRepository struct {
	collection *mongo.Collection
}

// NewMongoChallengeRepository creates a new instance of
// mongoChallengeRepository.
func NewMongoChallengeRepository(db *mongo.Database) repository.ChallengeRepository {
	return &mongoChallengeRepository{collection: db.Collection(challengeCollectionName)}
}

func (r *mongoChallengeRepository) Create(ctx context.Context, challenge *domain.Challenge) (primitive.ObjectID, error) {
	if challenge.Title == "" || challenge.CreatedBy == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("challenge title and creator are required")
	}

	challenge.ID = primitive.NewObjectID()
	if challenge.Participants == nil {
		challenge.Participants = []domain.ChallengeParticipant{}
	}
	now := time.Now().UTC()
	challenge.CreatedAt = now
	challenge.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, challenge)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoChallengeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Challenge, error) {
	var challenge domain.Challenge
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&challenge)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *mongoChallengeRepository) List(ctx context.Context, limit int) ([]domain.Challenge, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var challenges []domain.Challenge
	if err = cursor.All(ctx, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// CompleteParticipant is an upsert over the embedded participants array.
// Step 1 completes an existing participant via the positional operator,
// setting completedAt only where it is still unset so the first completion
// time stays authoritative. Step 2 appends a new already-completed
// participant, guarded by a $ne filter so a concurrent step-1 winner makes
// it a no-op instead of a duplicate.
func (r *mongoChallengeRepository) CompleteParticipant(ctx context.Context, challengeID, userID primitive.ObjectID, at time.Time) error {
	now := time.Now().UTC()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": challengeID, "participants.user": userID},
		bson.M{"$set": bson.M{
			"participants.$.progress":  100,
			"participants.$.completed": true,
			"updatedAt":                now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		// Stamp completedAt only if this participant never had one.
		_, err = r.collection.UpdateOne(ctx,
			bson.M{"_id": challengeID, "participants": bson.M{"$elemMatch": bson.M{
				"user":        userID,
				"completedAt": bson.M{"$exists": false},
			}}},
			bson.M{"$set": bson.M{"participants.$.completedAt": at}},
		)
		return err
	}

	res, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": challengeID, "participants.user": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"participants": domain.ChallengeParticipant{
				UserID:      userID,
				Progress:    100,
				Completed:   true,
				CompletedAt: &at,
			}},
			"$set": bson.M{"updatedAt": now},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Challenge missing entirely, or the participant appeared between
		// the two steps (in which case the first step's retry would apply).
		if exists, existsErr := r.exists(ctx, challengeID); existsErr != nil {
			return existsErr
		} else if !exists {
			return repository.ErrNotFound
		}
	}
	return nil
}

func (r *mongoChallengeRepository) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureChallengeIndexes creates the indexes for the challenges collection.
func EnsureChallengeIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "participants.user", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
