// Package handler wires HTTP requests to the service layer.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/middleware"
	"github.com/yourorg/poll-service/internal/model"
	"github.com/yourorg/poll-service/internal/service"
	"github.com/yourorg/poll-service/internal/utils"
)

// PollHandler handles poll aggregate HTTP requests
type PollHandler struct {
	pollService *service.PollService
	logger      *zap.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(pollService *service.PollService, logger *zap.Logger) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		logger:      logger,
	}
}

// CreatePoll handles the creation of a new poll with options and tags
func (h *PollHandler) CreatePoll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var create model.PollCreate
	if err := c.ShouldBindJSON(&create); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	poll, err := h.pollService.CreatePoll(c.Request.Context(), &create, userID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, poll)
}

// GetPoll handles retrieving a single poll by ID
func (h *PollHandler) GetPoll(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	poll, err := h.pollService.GetPoll(c.Request.Context(), id)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}

// UpdatePoll handles updating a poll's fields, options and tags
func (h *PollHandler) UpdatePoll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	var update model.PollUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	poll, err := h.pollService.UpdatePoll(c.Request.Context(), id, &update, userID)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, poll)
}

// DeletePoll handles soft-deleting a poll
func (h *PollHandler) DeletePoll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid poll ID")
		return
	}

	if err := h.pollService.DeletePoll(c.Request.Context(), id, userID); err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "poll deleted successfully"})
}

// ListPolls handles listing polls with pagination, optionally scoped to
// an owner via the owner_id query parameter.
func (h *PollHandler) ListPolls(c *gin.Context) {
	params := utils.ParsePaginationParams(c, 10, 100)

	var ownerUserID *int
	if owner := c.Query("owner_id"); owner != "" {
		id, err := strconv.Atoi(owner)
		if err != nil {
			utils.SendErrorResponse(c, http.StatusBadRequest, "invalid owner ID")
			return
		}
		ownerUserID = &id
	}

	polls, total, err := h.pollService.ListPolls(c.Request.Context(), ownerUserID, params.Limit, params.Offset)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, polls, total, params)
}

// ListMyPolls handles listing the authenticated user's polls
func (h *PollHandler) ListMyPolls(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	params := utils.ParsePaginationParams(c, 10, 100)

	polls, total, err := h.pollService.ListPolls(c.Request.Context(), &userID, params.Limit, params.Offset)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, polls, total, params)
}

// AddOption handles appending an option to a poll
func (h *PollHandler) AddOption(c *gin.Context) {
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

	var create model.OptionCreate
	if err := c.ShouldBindJSON(&create); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	option, err := h.pollService.AddOption(c.Request.Context(), pollID, userID, create)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusCreated, option)
}

// DeleteOption handles soft-deleting one option of a poll
func (h *PollHandler) DeleteOption(c *gin.Context) {
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

	optionID, err := strconv.Atoi(c.Param("optionId"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid option ID")
		return
	}

	if err := h.pollService.DeleteOption(c.Request.Context(), pollID, optionID, userID); err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "option deleted successfully"})
}
