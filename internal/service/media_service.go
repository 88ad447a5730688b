package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"fitorbit/backend/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media content type")
	ErrInvalidMediaKind     = errors.New("media kind must be 'profile' or 'post'")
)

// Media kinds map to key prefixes in the bucket.
const (
	MediaKindProfile = "profile"
	MediaKindPost    = "post"
)

// UploadTicket is what the client needs to upload directly to the bucket
// and reference the object afterwards.
type UploadTicket struct {
	ObjectKey   string `json:"objectKey"`
	UploadURL   string `json:"uploadUrl"`
	DownloadURL string `json:"downloadUrl"`
}

type MediaService interface {
	// PrepareUpload issues presigned PUT/GET URLs for a new object; the
	// server never proxies the file bytes.
	PrepareUpload(ctx context.Context, userID primitive.ObjectID, kind, filename, contentType string) (*UploadTicket, error)
	ResolveDownloadURL(ctx context.Context, objectKey string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type mediaService struct {
	storage storage.FileStorage
}

func NewMediaService(fileStorage storage.FileStorage) MediaService {
	return &mediaService{storage: fileStorage}
}

func (s *mediaService) PrepareUpload(ctx context.Context, userID primitive.ObjectID, kind, filename, contentType string) (*UploadTicket, error) {
	if kind != MediaKindProfile && kind != MediaKindPost {
		return nil, ErrInvalidMediaKind
	}
	switch {
	case strings.HasPrefix(contentType, "image/"):
	case kind == MediaKindPost && strings.HasPrefix(contentType, "video/"):
	default:
		return nil, ErrUnsupportedMediaType
	}

	ext := strings.ToLower(path.Ext(filename))
	objectKey := fmt.Sprintf("%s/%s/%s%s", kind, userID.Hex(), uuid.NewString(), ext)

	uploadURL, err := s.storage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	downloadURL, err := s.storage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &UploadTicket{
		ObjectKey:   objectKey,
		UploadURL:   uploadURL,
		DownloadURL: downloadURL,
	}, nil
}

func (s *mediaService) ResolveDownloadURL(ctx context.Context, objectKey string) (string, error) {
	if objectKey == "" {
		return "", errors.New("object key cannot be empty")
	}
	return s.storage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
}

func (s *mediaService) Delete(ctx context.Context, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key cannot be empty")
	}
	return s.storage.DeleteObject(ctx, objectKey)
}
