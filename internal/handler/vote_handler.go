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

// VoteHandler handles vote HTTP requests
type VoteHandler struct {
	voteService *service.VoteService
	logger      *zap.Logger
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(voteService *service.VoteService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		voteService: voteService,
		logger:      logger,
	}
}

// Vote handles casting a vote on a poll option. The voter identity comes
// from the authenticated context, never from the payload.
func (h *VoteHandler) Vote(c *gin.Context) {
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

	var request model.VoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return
	}

	if err := h.voteService.Vote(c.Request.Context(), pollID, request.OptionID, userID); err != nil {
		utils.SendError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "vote recorded"})
}
