package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deployrt/scmcore/internal/functions"
	"github.com/deployrt/scmcore/internal/transport/http/dto"
	apperrors "github.com/deployrt/scmcore/pkg/errors"
)

// FunctionsHandler exposes the function metadata manager (C5) over HTTP.
type FunctionsHandler struct {
	manager *functions.Manager
}

// NewFunctionsHandler wires manager into a FunctionsHandler.
func NewFunctionsHandler(manager *functions.Manager) *FunctionsHandler {
	return &FunctionsHandler{manager: manager}
}

// List handles GET /api/functions
func (h *FunctionsHandler) List(c *gin.Context) {
	envs, err := h.manager.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FunctionListFromModels(envs))
}

// Get handles GET /api/functions/:name
func (h *FunctionsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	env, err := h.manager.Get(c.Request.Context(), name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FunctionFromModel(*env))
}

// CreateOrUpdate handles PUT /api/functions/:name
func (h *FunctionsHandler) CreateOrUpdate(c *gin.Context) {
	name := c.Param("name")

	var req dto.UpdateFunctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	env, err := h.manager.CreateOrUpdate(c.Request.Context(), name, functions.UpdateRequest{Config: req.Config})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FunctionFromModel(*env))
}

// Delete handles DELETE /api/functions/:name
func (h *FunctionsHandler) Delete(c *gin.Context) {
	name := c.Param("name")
	if err := h.manager.Delete(c.Request.Context(), name); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "function deleted"})
}

// GetHostConfig handles GET /api/host-config
func (h *FunctionsHandler) GetHostConfig(c *gin.Context) {
	cfg, err := h.manager.GetHostConfig(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.HostConfigResponse{Config: cfg})
}

// PutHostConfig handles PUT /api/host-config
func (h *FunctionsHandler) PutHostConfig(c *gin.Context) {
	var req dto.HostConfigResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}
	if err := h.manager.PutHostConfig(c.Request.Context(), req.Config); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "host config updated"})
}

// SyncTriggers handles POST /api/functions/sync-triggers
func (h *FunctionsHandler) SyncTriggers(c *gin.Context) {
	if err := h.manager.SyncTriggers(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "triggers synced"})
}

func (h *FunctionsHandler) handleError(c *gin.Context, err error) {
	if apperrors.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
		return
	}
	if apperrors.IsBadRequest(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "an internal error occurred"})
}
