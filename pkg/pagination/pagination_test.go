package pagination_test

import (
	"net/http/httptest"
	"testing"

	"stockbook/pkg/pagination"

	"github.com/gin-gonic/gin"
)

func contextFor(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items"+query, nil)
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20, Offset: 0}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10, Offset: 20}},
		{"?page=-1&limit=0", pagination.Params{Page: 1, Limit: 20, Offset: 0}},
		{"?limit=500", pagination.Params{Page: 1, Limit: 100, Offset: 0}},
		{"?page=abc", pagination.Params{Page: 1, Limit: 20, Offset: 0}},
	}
	for _, tt := range tests {
		if got := pagination.Parse(contextFor(tt.query)); got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.query, got, tt.want)
		}
	}
}

func TestParseOptional(t *testing.T) {
	if got := pagination.ParseOptional(contextFor("")); !got.All() {
		t.Errorf("no query should mean all, got %+v", got)
	}
	got := pagination.ParseOptional(contextFor("?limit=5"))
	if got.All() || got.Limit != 5 || got.Page != 1 {
		t.Errorf("ParseOptional(?limit=5) = %+v", got)
	}
}
