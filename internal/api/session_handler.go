package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SessionHandler struct {
	sessionService service.SessionService
}

func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type StartSessionRequest struct {
	WorkoutID string `json:"workoutId" binding:"required"`
}

type CompleteSetRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	SetNumber  int     `json:"setNumber" binding:"required,min=1"`
	Reps       int     `json:"reps" binding:"required,min=1"`
	Weight     float64 `json:"weight"`
	RPE        int     `json:"rpe" binding:"omitempty,min=1,max=10"`
}

type UpdateProgressRequest struct {
	ExerciseIndex *int `json:"exerciseIndex"`
	SetIndex      *int `json:"setIndex"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	workoutID, err := primitive.ObjectIDFromHex(req.WorkoutID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workoutId format")
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), userID, workoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutAlreadyCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start session")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) GetActive(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	session, err := h.sessionService.GetActive(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load active session")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) CompleteSet(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req CompleteSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	session, err := h.sessionService.CompleteSet(c.Request.Context(), userID, sessionID, service.CompleteSetInput{
		ExerciseID: exerciseID,
		SetNumber:  req.SetNumber,
		Reps:       req.Reps,
		Weight:     req.Weight,
		RPE:        req.RPE,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record set")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) UpdateProgress(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.ExerciseIndex == nil && req.SetIndex == nil {
		abortWithError(c, http.StatusBadRequest, "At least one of exerciseIndex or setIndex is required")
		return
	}

	session, err := h.sessionService.UpdateProgress(c.Request.Context(), userID, sessionID, req.ExerciseIndex, req.SetIndex)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, session)
}

// Complete ends the session; the workout it tracks is completed in the
// same call.
func (h *SessionHandler) Complete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sessionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.sessionService.Complete(c.Request.Context(), userID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSessionCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to complete session")
		}
		return
	}
	c.JSON(http.StatusOK, session)
}
