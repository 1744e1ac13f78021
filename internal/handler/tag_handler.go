package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/middleware"
	"github.com/yourorg/poll-service/internal/service"
	"github.com/yourorg/poll-service/internal/utils"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagService *service.TagService
	logger     *zap.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *service.TagService, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		logger:     logger,
	}
}

// SetPollTags handles replacing a poll's tag set
func (h *TagHandler) SetPollTags(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pollID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	// No required binding: an empty tag set is a valid replacement and
	// detaches everything.
	var request struct {
		Tags []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	tags, err := h.tagService.SetPollTags(c.Request.Context(), pollID, userID, request.Tags)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// TagPoll handles attaching a single tag to a poll
func (h *TagHandler) TagPoll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pollID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	tag, err := h.tagService.TagPoll(c.Request.Context(), pollID, userID, request.Name)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// UntagPoll handles detaching a single tag from a poll
func (h *TagHandler) UntagPoll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	pollID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	name := c.Param("name")
	if name == "" {
		utils.SendErrorResponse(c, http.StatusBadRequest, "tag name is required")
		return
	}

	if err := h.tagService.UntagPoll(c.Request.Context(), pollID, userID, name); err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "tag detached successfully"})
}

// GetPollTags handles retrieving the active tags of a poll
func (h *TagHandler) GetPollTags(c *gin.Context) {
	pollID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	tags, err := h.tagService.GetPollTags(c.Request.Context(), pollID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// GetAllTags handles listing the authenticated user's tags with usage
// counts.
func (h *TagHandler) GetAllTags(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	tags, err := h.tagService.GetAllTags(c.Request.Context(), userID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
