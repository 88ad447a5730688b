package api

import (
	"errors"
	"fmt"
	"net/http"

	"fitorbit/backend/internal/service"

	"github.com/gin-gonic/gin"
)

type SectionHandler struct {
	sectionService service.SectionService
}

func NewSectionHandler(sectionService service.SectionService) *SectionHandler {
	return &SectionHandler{sectionService: sectionService}
}

type SectionRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (h *SectionHandler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	section, err := h.sectionService.Create(c.Request.Context(), userID, req.Name, req.Color)
	if err != nil {
		if errors.Is(err, service.ErrSectionExists) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to create section")
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *SectionHandler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sections, err := h.sectionService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list sections")
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (h *SectionHandler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	section, err := h.sectionService.Update(c.Request.Context(), userID, sectionID, req.Name, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSectionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSectionNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSectionExists):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update section")
		}
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *SectionHandler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	sectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := h.sectionService.Delete(c.Request.Context(), userID, sectionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSectionNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSectionNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrSectionInUse):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete section")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
