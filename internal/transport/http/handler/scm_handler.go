package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deployrt/scmcore/internal/injectable"
	"github.com/deployrt/scmcore/internal/transport/http/dto"
	"github.com/deployrt/scmcore/internal/vcs/model"
	apperrors "github.com/deployrt/scmcore/pkg/errors"
)

// ScmHandler exposes the version-control driver and parser (C1-C4) over
// HTTP, one Repository per :repo path segment.
type ScmHandler struct {
	deps *injectable.Dependencies
}

// NewScmHandler wires deps into a ScmHandler.
func NewScmHandler(deps *injectable.Dependencies) *ScmHandler {
	return &ScmHandler{deps: deps}
}

// Init handles POST /api/repos/:repo/init
func (h *ScmHandler) Init(c *gin.Context) {
	repo := h.deps.RepositoryFor(c.Param("repo"))
	if err := repo.Init(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "repository initialized"})
}

// Status handles GET /api/repos/:repo/status
func (h *ScmHandler) Status(c *gin.Context) {
	repo := h.deps.RepositoryFor(c.Param("repo"))
	seq, err := repo.Status(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	var statuses []model.FileStatus
	for {
		fs, ok, err := seq.Next()
		if err != nil {
			h.handleError(c, err)
			return
		}
		if !ok {
			break
		}
		statuses = append(statuses, fs)
	}
	c.JSON(http.StatusOK, dto.StatusFromModel(statuses))
}

// IsEmpty handles GET /api/repos/:repo/empty
func (h *ScmHandler) IsEmpty(c *gin.Context) {
	repo := h.deps.RepositoryFor(c.Param("repo"))
	empty, err := repo.IsEmpty(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"empty": empty})
}

// Add handles POST /api/repos/:repo/add
func (h *ScmHandler) Add(c *gin.Context) {
	var req dto.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	repo := h.deps.RepositoryFor(c.Param("repo"))
	if err := repo.Add(c.Request.Context(), req.Path); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staged"})
}

// Commit handles POST /api/repos/:repo/commit
func (h *ScmHandler) Commit(c *gin.Context) {
	var req dto.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	repo := h.deps.RepositoryFor(c.Param("repo"))
	detail, err := repo.Commit(c.Request.Context(), req.Message, req.AuthorName)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, gin.H{"message": "working directory clean"})
		return
	}
	c.JSON(http.StatusCreated, dto.ChangeSetDetailFromModel(detail))
}

// Checkout handles POST /api/repos/:repo/checkout
func (h *ScmHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}

	repo := h.deps.RepositoryFor(c.Param("repo"))
	if err := repo.Checkout(c.Request.Context(), req.ID); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "checked out"})
}

// Show handles GET /api/repos/:repo/show/:id
func (h *ScmHandler) Show(c *gin.Context) {
	repo := h.deps.RepositoryFor(c.Param("repo"))
	detail, err := repo.Show(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ChangeSetDetailFromModel(detail))
}

// Diff handles GET /api/repos/:repo/diff
func (h *ScmHandler) Diff(c *gin.Context) {
	repo := h.deps.RepositoryFor(c.Param("repo"))
	detail, err := repo.Diff(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	if detail == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no changes"})
		return
	}
	c.JSON(http.StatusOK, dto.ChangeSetDetailFromModel(detail))
}

// Log handles GET /api/repos/:repo/log
func (h *ScmHandler) Log(c *gin.Context) {
	repo := h.deps.RepositoryFor(c.Param("repo"))
	seq, err := repo.Log(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	var changeSets []model.ChangeSet
	for {
		cs, ok, err := seq.Next()
		if err != nil {
			h.handleError(c, err)
			return
		}
		if !ok {
			break
		}
		changeSets = append(changeSets, cs)
	}

	responses := make([]dto.ChangeSetResponse, len(changeSets))
	for i, cs := range changeSets {
		responses[i] = dto.ChangeSetFromModel(cs)
	}
	c.JSON(http.StatusOK, dto.ChangeSetListResponse{ChangeSets: responses, Total: len(responses)})
}

func (h *ScmHandler) handleError(c *gin.Context, err error) {
	if apperrors.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
}
