package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	challengeService service.ChallengeService
}

func NewChallengeHandler(challengeService service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: challengeService}
}

type CreateChallengeRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty" binding:"omitempty,oneof=Beginner Intermediate Advanced"`
	Reward      string     `json:"reward"`
	Deadline    *time.Time `json:"deadline"`
}

// Create is admin-only; the route guards it with RoleMiddleware.
func (h *ChallengeHandler) Create(c *gin.Context) {
	adminID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	challenge, err := h.challengeService.Create(c.Request.Context(), adminID, req.Title, req.Description, req.Difficulty, req.Reward, req.Deadline)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

func (h *ChallengeHandler) List(c *gin.Context) {
	challenges, err := h.challengeService.List(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list challenges")
		return
	}
	c.JSON(http.StatusOK, challenges)
}

func (h *ChallengeHandler) Get(c *gin.Context) {
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	challenge, err := h.challengeService.Get(c.Request.Context(), challengeID)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load challenge")
		return
	}
	c.JSON(http.StatusOK, challenge)
}

// Participate records the caller's completion; repeating it changes
// nothing.
func (h *ChallengeHandler) Participate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	challenge, err := h.challengeService.Participate(c.Request.Context(), userID, challengeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrChallengeExpired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record participation")
		}
		return
	}
	c.JSON(http.StatusOK, challenge)
}

func (h *ChallengeHandler) Leaderboard(c *gin.Context) {
	challengeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entries, err := h.challengeService.Leaderboard(c.Request.Context(), challengeID)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}
	c.JSON(http.StatusOK, entries)
}
