package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/polls?"+query, nil)
	return c
}

func TestParsePaginationParams(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 10, 0},
		{"explicit values", "limit=25&offset=50", 25, 50},
		{"limit above maximum", "limit=500", 100, 0},
		{"zero limit falls back", "limit=0", 10, 0},
		{"negative offset floored", "offset=-5", 10, 0},
		{"non-numeric limit falls back", "limit=abc", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ParsePaginationParams(paginationContext(tt.query), 10, 100)
			if params.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", params.Limit, tt.wantLimit)
			}
			if params.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", params.Offset, tt.wantOffset)
			}
		})
	}
}
