package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourorg/poll-service/internal/middleware"
	"github.com/yourorg/poll-service/internal/service"
	"github.com/yourorg/poll-service/internal/utils"
)

// SearchHandler handles poll search HTTP requests
type SearchHandler struct {
	searchService *service.SearchService
	logger        *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// SearchByTag handles finding polls by tag id, optionally scoped to an
// owner via the owner_id query parameter.
func (h *SearchHandler) SearchByTag(c *gin.Context) {
	tagID, err := strconv.Atoi(c.Query("tag_id"))
	if err != nil {
		utils.SendErrorResponse(c, http.StatusBadRequest, "invalid tag ID")
		return
	}

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

	polls, total, err := h.searchService.SearchByTagID(c.Request.Context(), tagID, ownerUserID, params.Limit, params.Offset)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, polls, total, params)
}

// SearchMyPollsByTagNames handles finding the authenticated user's polls
// carrying any of the comma-separated tag names.
func (h *SearchHandler) SearchMyPollsByTagNames(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	names := strings.Split(c.Query("tags"), ",")
	params := utils.ParsePaginationParams(c, 10, 100)

	polls, total, err := h.searchService.SearchByTagNames(c.Request.Context(), names, userID, params.Limit, params.Offset)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, polls, total, params)
}

// SearchByText handles free-text search over poll questions and option
// text.
func (h *SearchHandler) SearchByText(c *gin.Context) {
	query := c.Query("q")
	params := utils.ParsePaginationParams(c, 10, 100)

	polls, total, err := h.searchService.SearchByText(c.Request.Context(), query, params.Limit, params.Offset)
	if err != nil {
		utils.SendError(c, err)
		return
	}

	utils.SendPaginatedResponse(c, http.StatusOK, polls, total, params)
}
