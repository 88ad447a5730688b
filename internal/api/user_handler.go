package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profile, search and export endpoints.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type UpdateProfileRequest struct {
	Name            *string  `json:"name"`
	Username        *string  `json:"username"`
	Phone           *string  `json:"phone"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	Goals           *string  `json:"goals"`
	ProfilePhoto    *string  `json:"profilePhoto"`
	ThemePreference *string  `json:"themePreference"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// GetProfile returns the authenticated user's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile applies profile changes; omitted fields stay untouched.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, service.UpdateProfileInput{
		Name:            req.Name,
		Username:        req.Username,
		Phone:           req.Phone,
		Height:          req.Height,
		Weight:          req.Weight,
		Goals:           req.Goals,
		ProfilePhoto:    req.ProfilePhoto,
		ThemePreference: req.ThemePreference,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidTheme):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// Search finds other users by name, username or phone.
func (h *UserHandler) Search(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	users, err := h.userService.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Search failed")
		return
	}
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = MapUserToResponse(&users[i])
	}
	c.JSON(http.StatusOK, responses)
}

// ExportData streams the user's completed workouts and metrics as a CSV file.
func (h *UserHandler) ExportData(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'from' date, expected YYYY-MM-DD")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid 'to' date, expected YYYY-MM-DD")
			return
		}
		to = t.Add(24*time.Hour - time.Nanosecond)
	} else {
		to = time.Now()
	}

	data, err := h.userService.ExportDataCSV(c.Request.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, service.ErrNothingToExport) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Export failed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="fitorbit-export.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}
