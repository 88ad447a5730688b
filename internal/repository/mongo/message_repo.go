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

const messageCollectionName = "messages"

// latestFetchMultiplier bounds the over-fetch used by LatestPerConversation.
const latestFetchMultiplier = 5

type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new instance of mongoMessageRepository.
func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{collection: db.Collection(messageCollectionName)}
}

func (r *mongoMessageRepository) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	if message.ConversationID == primitive.NilObjectID || message.Sender == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("message conversation and sender are required")
	}

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoMessageRepository) ListRecentDesc(ctx context.Context, conversationID primitive.ObjectID, limit int) ([]domain.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"conversation": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// LatestPerConversation over-fetches a small multiple of the conversation
// count newest-first and keeps the first message seen per conversation.
func (r *mongoMessageRepository) LatestPerConversation(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.Message, error) {
	latest := make(map[primitive.ObjectID]domain.Message, len(ids))
	if len(ids) == 0 {
		return latest, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(len(ids) * latestFetchMultiplier))
	cursor, err := r.collection.Find(ctx, bson.M{"conversation": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	for _, message := range messages {
		if _, ok := latest[message.ConversationID]; !ok {
			latest[message.ConversationID] = message
		}
	}
	return latest, nil
}

// EnsureMessageIndexes creates the indexes for the messages collection.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "conversation", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
