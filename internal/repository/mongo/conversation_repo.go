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

const conversationCollectionName = "conversations"

type mongoConversationRepository struct {
	collection *mongo.Collection
}

// NewMongoConversationRepository creates a new instance of
// mongoConversationRepository.
func NewMongoConversationRepository(db *mongo.Database) repository.ConversationRepository {
	return &mongoConversationRepository{collection: db.Collection(conversationCollectionName)}
}

func (r *mongoConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (primitive.ObjectID, error) {
	if len(conversation.Members) == 0 {
		return primitive.NilObjectID, errors.New("conversation members are required")
	}

	conversation.ID = primitive.NewObjectID()
	if conversation.Type == domain.ConversationDirect {
		conversation.MemberKey = domain.MemberKeyFor(conversation.Members)
	}
	now := time.Now().UTC()
	conversation.CreatedAt = now
	conversation.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, conversation)
	if err != nil {
		// Duplicate memberKey (direct) or joinCode collision.
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrConflict
		}
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (r *mongoConversationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoConversationRepository) FindDirectByMemberKey(ctx context.Context, memberKey string) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"type": domain.ConversationDirect, "memberKey": memberKey})
}

func (r *mongoConversationRepository) GetGroupByJoinCode(ctx context.Context, code string) (*domain.Conversation, error) {
	return r.findOne(ctx, bson.M{"type": domain.ConversationGroup, "joinCode": code})
}

func (r *mongoConversationRepository) findOne(ctx context.Context, filter bson.M) (*domain.Conversation, error) {
	var conversation domain.Conversation
	err := r.collection.FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

func (r *mongoConversationRepository) JoinCodeExists(ctx context.Context, code string) (bool, error) {
	err := r.collection.FindOne(ctx, bson.M{"joinCode": code}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddMember uses $addToSet, so joining twice is a no-op.
func (r *mongoConversationRepository) AddMember(ctx context.Context, id, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoConversationRepository) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]domain.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	return r.findMany(ctx, bson.M{"members": userID}, opts)
}

func (r *mongoConversationRepository) ListCommunities(ctx context.Context, query string) ([]domain.Conversation, error) {
	filter := bson.M{"type": domain.ConversationCommunity}
	if query != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

func (r *mongoConversationRepository) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Conversation, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []domain.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *mongoConversationRepository) Touch(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"updatedAt": at}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureConversationIndexes creates the indexes for the conversations
// collection. The sparse unique memberKey index makes direct conversation
// creation idempotent under concurrency.
func EnsureConversationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "memberKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "joinCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "members", Value: 1}},
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
