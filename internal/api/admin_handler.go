package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitorbit/backend/internal/domain"
	"fitorbit/backend/internal/repository"
	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin console endpoints. Every route using it is
// wrapped in RoleMiddleware(domain.RoleAdmin).
type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user admin"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type ReviewRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load platform stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Search: c.Query("q"),
		Role:   domain.Role(c.Query("role")),
	}
	if v := c.Query("active"); v != "" {
		isActive := v == "true"
		filter.IsActive = &isActive
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = MapUserToResponse(&users[i])
	}
	c.JSON(http.StatusOK, responses)
}

func (h *AdminHandler) SetUserRole(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err := h.adminService.SetUserRole(c.Request.Context(), userID, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update role")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *AdminHandler) SetUserActive(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.adminService.SetUserActive(c.Request.Context(), userID, *req.Active); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update account status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account status updated"})
}

func (h *AdminHandler) ListPendingExercises(c *gin.Context) {
	exercises, err := h.adminService.ListPendingExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list pending exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *AdminHandler) ReviewExercise(c *gin.Context) {
	exerciseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.adminService.ReviewExercise(c.Request.Context(), exerciseID, *req.Approve); err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to review exercise")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "exercise reviewed"})
}

func (h *AdminHandler) ListPendingWorkouts(c *gin.Context) {
	workouts, err := h.adminService.ListPendingWorkouts(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list pending workouts")
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *AdminHandler) ReviewWorkout(c *gin.Context) {
	workoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.adminService.ReviewWorkout(c.Request.Context(), workoutID, *req.Approve); err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to review workout")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout reviewed"})
}
