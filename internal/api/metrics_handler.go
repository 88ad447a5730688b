package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsService service.MetricsService
}

func NewMetricsHandler(metricsService service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService}
}

type MetricsRequest struct {
	Date        *time.Time `json:"date"`
	Calories    float64    `json:"calories" binding:"omitempty,min=0"`
	Steps       int        `json:"steps" binding:"omitempty,min=0"`
	WaterIntake float64    `json:"waterIntake" binding:"omitempty,min=0"`
	SleepHours  float64    `json:"sleepHours" binding:"omitempty,min=0,max=24"`
	Notes       string     `json:"notes"`
}

func (r *MetricsRequest) toInput() service.MetricsInput {
	input := service.MetricsInput{
		Calories:    r.Calories,
		Steps:       r.Steps,
		WaterIntake: r.WaterIntake,
		SleepHours:  r.SleepHours,
		Notes:       r.Notes,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

func (h *MetricsHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.metricsService.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrMetricsExists) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create metrics entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *MetricsHandler) List(c *gin.Context) {
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
	}

	entries, err := h.metricsService.List(c.Request.Context(), userID, from, to)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list metrics")
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *MetricsHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req MetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	entry, err := h.metricsService.Update(c.Request.Context(), userID, entryID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrMetricsNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to update metrics entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *MetricsHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.metricsService.Delete(c.Request.Context(), userID, entryID); err != nil {
		if errors.Is(err, service.ErrMetricsNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to delete metrics entry")
		return
	}
	c.Status(http.StatusNoContent)
}
