package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"
	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

type WorkoutExerciseRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	Sets       int     `json:"sets" binding:"required,min=1"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
	RPE        int     `json:"rpe" binding:"omitempty,min=1,max=10"`
	RestTime   int     `json:"restTime"`
	Order      int     `json:"order"`
}

type WorkoutRequest struct {
	Title             string                   `json:"title"`
	Description       string                   `json:"description"`
	Category          string                   `json:"category"`
	SectionIDs        []string                 `json:"sectionIds"`
	Exercises         []WorkoutExerciseRequest `json:"exercises"`
	EstimatedDuration int                      `json:"estimatedDuration"`
	Difficulty        string                   `json:"difficulty"`
	Notes             string                   `json:"notes"`
	Calories          int                      `json:"calories"`
	Date              *time.Time               `json:"date"`
	IsTemplate        bool                     `json:"isTemplate"`
}

func (r *WorkoutRequest) toInput() (service.CreateWorkoutInput, error) {
	input := service.CreateWorkoutInput{
		Title:             r.Title,
		Description:       r.Description,
		Category:          r.Category,
		EstimatedDuration: r.EstimatedDuration,
		Difficulty:        r.Difficulty,
		Notes:             r.Notes,
		Calories:          r.Calories,
		IsTemplate:        r.IsTemplate,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	for _, raw := range r.SectionIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return input, errors.New("invalid section id format")
		}
		input.SectionIDs = append(input.SectionIDs, id)
	}
	for _, ex := range r.Exercises {
		exerciseID, err := primitive.ObjectIDFromHex(ex.ExerciseID)
		if err != nil {
			return input, errors.New("invalid exercise id format")
		}
		input.Exercises = append(input.Exercises, domain.WorkoutExercise{
			ExerciseID: exerciseID,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Weight:     ex.Weight,
			RPE:        ex.RPE,
			RestTime:   ex.RestTime,
			Order:      ex.Order,
		})
	}
	return input, nil
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), userID, input)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.Get(c.Request.Context(), userID, workoutID)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load workout")
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	filter := repository.WorkoutFilter{
		Status:   domain.WorkoutStatus(c.Query("status")),
		Category: c.Query("category"),
	}
	if v := c.Query("template"); v != "" {
		isTemplate := v == "true"
		filter.IsTemplate = &isTemplate
	}
	if v := c.Query("date"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		filter.Date = &date
	}

	workouts, err := h.workoutService.List(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *WorkoutHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.Update(c.Request.Context(), userID, workoutID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutAlreadyCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}
	c.JSON(http.StatusOK, workout)
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.workoutService.Delete(c.Request.Context(), userID, workoutID); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete workout")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WorkoutHandler) Start(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.Start(c.Request.Context(), userID, workoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutAlreadyCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to start workout")
		}
		return
	}
	c.JSON(http.StatusOK, workout)
}

// Complete marks the workout finished and updates the user's aggregate
// stats in the same transition.
func (h *WorkoutHandler) Complete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	workout, err := h.workoutService.Complete(c.Request.Context(), userID, workoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutAlreadyCompleted):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to complete workout")
		}
		return
	}
	c.JSON(http.StatusOK, workout)
}
