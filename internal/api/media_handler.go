package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

type PrepareUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=profile post"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// PrepareUpload hands the client presigned URLs; the file itself goes
// straight to the bucket.
func (h *MediaHandler) PrepareUpload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req PrepareUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ticket, err := h.mediaService.PrepareUpload(c.Request.Context(), userID, req.Kind, req.Filename, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedMediaType), errors.Is(err, service.ErrInvalidMediaKind):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to prepare upload")
		}
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *MediaHandler) ResolveDownloadURL(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}
	objectKey := c.Query("key")
	if objectKey == "" {
		abortWithError(c, http.StatusBadRequest, "Missing 'key' query parameter")
		return
	}

	url, err := h.mediaService.ResolveDownloadURL(c.Request.Context(), objectKey)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve download URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
