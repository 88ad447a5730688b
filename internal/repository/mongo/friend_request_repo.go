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

const friendRequestCollectionName = "friend_requests"

type mongoFriendRequestRepository struct {
	collection *mongo.Collection
}

// NewMongoFriendRequestRepository creates a new instance of
// mongoFriendRequestRepository.
func NewMongoFriendRequestRepository(db *mongo.Database) repository.FriendRequestRepository {
	return &mongoFriendRequestRepository{collection: db.Collection(friendRequestCollectionName)}
}

func (r *mongoFriendRequestRepository) Create(ctx context.Context, request *domain.FriendRequest) (primitive.ObjectID, error) {
	if request.Requester == primitive.NilObjectID || request.Recipient == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("requester and recipient are required")
	}

	request.ID = primitive.NewObjectID()
	request.PairKey = domain.PairKeyFor(request.Requester, request.Recipient)
	if request.Status == "" {
		request.Status = domain.FriendRequestPending
	}
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		// The unique pairKey index covers both directions at once.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoFriendRequestRepository) GetPendingForRecipient(ctx context.Context, id, recipientID primitive.ObjectID) (*domain.FriendRequest, error) {
	filter := bson.M{
		"_id":       id,
		"recipient": recipientID,
		"status":    domain.FriendRequestPending,
	}
	var request domain.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *mongoFriendRequestRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status domain.FriendRequestStatus) error {
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

func (r *mongoFriendRequestRepository) ListAccepted(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error) {
	filter := bson.M{
		"status": domain.FriendRequestAccepted,
		"$or": []bson.M{
			{"requester": userID},
			{"recipient": userID},
		},
	}
	return r.findMany(ctx, filter)
}

func (r *mongoFriendRequestRepository) ListPendingReceived(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error) {
	return r.findMany(ctx, bson.M{"status": domain.FriendRequestPending, "recipient": userID})
}

func (r *mongoFriendRequestRepository) ListPendingSent(ctx context.Context, userID primitive.ObjectID) ([]domain.FriendRequest, error) {
	return r.findMany(ctx, bson.M{"status": domain.FriendRequestPending, "requester": userID})
}

func (r *mongoFriendRequestRepository) findMany(ctx context.Context, filter bson.M) ([]domain.FriendRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []domain.FriendRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// EnsureFriendRequestIndexes creates the indexes for the friend_requests
// collection. The pairKey index is direction-agnostic, so A->B and B->A
// collide on the same key.
func EnsureFriendRequestIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pairKey", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "requester", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
