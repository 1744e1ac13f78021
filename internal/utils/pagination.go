package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourorg/poll-service/internal/apperror"
)

// PaginationParams holds pagination-related query parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePaginationParams parses and validates limit/offset query parameters
// with support for default and maximum limits
func ParsePaginationParams(c *gin.Context, defaultLimit int, maxLimit int) PaginationParams {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	if limit < 1 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit // Cap the maximum limit
	}

	if offset < 0 {
		offset = 0
	}

	return PaginationParams{
		Limit:  limit,
		Offset: offset,
	}
}

// PaginationMetadata represents the standardized pagination metadata
type PaginationMetadata struct {
	TotalItems   int `json:"totalItems"`
	Offset       int `json:"offset"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// SendPaginatedResponse sends a standardized paginated API response
func SendPaginatedResponse(c *gin.Context, statusCode int, data interface{}, totalItems int, params PaginationParams) {
	c.JSON(statusCode, gin.H{
		"data": data,
		"pagination": PaginationMetadata{
			TotalItems:   totalItems,
			Offset:       params.Offset,
			ItemsPerPage: params.Limit,
		},
	})
}

// SendError maps an error to the structured {code, message} envelope. The
// status and message come from the apperror taxonomy; unknown errors
// collapse to a generic 500.
func SendError(c *gin.Context, err error) {
	c.JSON(apperror.Code(err), gin.H{
		"error": gin.H{
			"code":    apperror.Code(err),
			"message": apperror.SafeMessage(err),
		},
	})
}

// SendErrorResponse sends a standardized error response with an explicit
// status code and message.
func SendErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": gin.H{
			"code":    statusCode,
			"message": message,
		},
	})
}
