package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/orgboard/internal/middleware"
	"github.com/alimgiray/orgboard/internal/models"
	"github.com/alimgiray/orgboard/internal/services"
	"github.com/alimgiray/orgboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

var filterParams = []string{"tab", "category", "q", "sort"}

type DiscussionHandler struct {
	discussionService *services.DiscussionService
}

func NewDiscussionHandler(discussionService *services.DiscussionService) *DiscussionHandler {
	return &DiscussionHandler{
		discussionService: discussionService,
	}
}

type createDiscussionRequest struct {
	Title        string `json:"title" binding:"required"`
	Body         string `json:"body"`
	CategoryName string `json:"category_name"`
	Reactions    int    `json:"reactions"`
	Comments     int    `json:"comments"`
}

// ListDiscussions filters the discussion board. Without any filter parameter
// the selection remembered in the filter cookie is reused.
func (h *DiscussionHandler) ListDiscussions(c *gin.Context) {
	filter := h.filterFromRequest(c)

	list, err := h.discussionService.List(c.Request.Context(), filter)
	if err != nil {
		logger.WithComponent("discussions").WithError(err).Error("Failed to list discussions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load discussions"})
		return
	}

	if err := middleware.SetFilterState(c, list.Filter); err != nil {
		logger.WithComponent("discussions").WithError(err).Warn("Failed to remember discussion filter")
	}

	c.JSON(http.StatusOK, list)
}

// CreateDiscussion stores a new discussion
func (h *DiscussionHandler) CreateDiscussion(c *gin.Context) {
	var req createDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	discussion := models.NewDiscussion(req.Title, req.Body, req.CategoryName)
	discussion.Reactions = req.Reactions
	discussion.Comments = req.Comments

	created, err := h.discussionService.Create(c.Request.Context(), discussion)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
			return
		}
		logger.WithComponent("discussions").WithError(err).Error("Failed to create discussion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create discussion"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetDiscussion returns a single discussion
func (h *DiscussionHandler) GetDiscussion(c *gin.Context) {
	discussion, err := h.discussionService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrDiscussionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
			return
		}
		logger.WithComponent("discussions").WithError(err).Error("Failed to load discussion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load discussion"})
		return
	}

	c.JSON(http.StatusOK, discussion)
}

// DeleteDiscussion removes a discussion
func (h *DiscussionHandler) DeleteDiscussion(c *gin.Context) {
	if err := h.discussionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrDiscussionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Discussion not found"})
			return
		}
		logger.WithComponent("discussions").WithError(err).Error("Failed to delete discussion")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete discussion"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetFilter forgets the remembered filter selection
func (h *DiscussionHandler) ResetFilter(c *gin.Context) {
	middleware.ClearFilterState(c)
	c.JSON(http.StatusOK, gin.H{"filter": models.DefaultDiscussionFilter()})
}

func (h *DiscussionHandler) filterFromRequest(c *gin.Context) models.DiscussionFilter {
	query := c.Request.URL.Query()
	for _, param := range filterParams {
		if _, ok := query[param]; ok {
			return models.DiscussionFilter{
				Tab:      c.Query("tab"),
				Category: c.Query("category"),
				Query:    c.Query("q"),
				Sort:     c.Query("sort"),
			}
		}
	}

	if remembered := middleware.GetFilterState(c); remembered != nil {
		return *remembered
	}
	return models.DefaultDiscussionFilter()
}
