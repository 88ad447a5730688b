package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"
	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

type ExerciseRequest struct {
	Name             string                     `json:"name" binding:"required"`
	Description      string                     `json:"description"`
	SectionID        string                     `json:"sectionId" binding:"required"`
	Category         string                     `json:"category"`
	TargetMuscle     string                     `json:"targetMuscle"`
	SecondaryMuscles []string                   `json:"secondaryMuscles"`
	Equipment        string                     `json:"equipment"`
	Difficulty       string                     `json:"difficulty"`
	Instructions     []string                   `json:"instructions"`
	ProTips          []string                   `json:"proTips"`
	Variations       []domain.ExerciseVariation `json:"variations"`
	DefaultSets      int                        `json:"defaultSets"`
	DefaultReps      int                        `json:"defaultReps"`
	DefaultDuration  int                        `json:"defaultDuration"`
	DemoVideo        string                     `json:"demoVideo"`
	DemoImage        string                     `json:"demoImage"`
}

func (r *ExerciseRequest) toInput() (service.CreateExerciseInput, error) {
	input := service.CreateExerciseInput{
		Name:             r.Name,
		Description:      r.Description,
		Category:         r.Category,
		TargetMuscle:     r.TargetMuscle,
		SecondaryMuscles: r.SecondaryMuscles,
		Equipment:        r.Equipment,
		Difficulty:       r.Difficulty,
		Instructions:     r.Instructions,
		ProTips:          r.ProTips,
		Variations:       r.Variations,
		DefaultSets:      r.DefaultSets,
		DefaultReps:      r.DefaultReps,
		DefaultDuration:  r.DefaultDuration,
		DemoVideo:        r.DemoVideo,
		DemoImage:        r.DemoImage,
	}
	if r.SectionID != "" {
		sectionID, err := primitive.ObjectIDFromHex(r.SectionID)
		if err != nil {
			return input, errors.New("invalid sectionId format")
		}
		input.SectionID = sectionID
	}
	return input, nil
}

func (h *ExerciseHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.Create(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create exercise")
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *ExerciseHandler) Get(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	exercise, err := h.exerciseService.Get(c.Request.Context(), userID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseNotVisible):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to load exercise")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// List supports filtering by section, muscle, equipment, difficulty and a
// name search, all via query parameters.
func (h *ExerciseHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	filter := repository.ExerciseFilter{
		TargetMuscle: c.Query("muscle"),
		Equipment:    c.Query("equipment"),
		Difficulty:   c.Query("difficulty"),
		Search:       c.Query("q"),
		GlobalOnly:   c.Query("global") == "true",
	}
	if v := c.Query("sectionId"); v != "" {
		sectionID, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid sectionId format")
			return
		}
		filter.SectionID = &sectionID
	}

	exercises, err := h.exerciseService.List(c.Request.Context(), userID, filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	input, err := req.toInput()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.Update(c.Request.Context(), userID, exerciseID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound), errors.Is(err, service.ErrSectionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update exercise")
		}
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.exerciseService.Delete(c.Request.Context(), userID, exerciseID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrExerciseNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete exercise")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
