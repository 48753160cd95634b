package response_test

import (
	"testing"

	"stockbook/pkg/response"
)

func TestPaginated(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{40, 20, 2},
		{41, 20, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		res := response.Paginated(200, []int{}, tt.total, 1, tt.limit)
		page, ok := res.Data.(response.Page)
		if !ok {
			t.Fatalf("data is %T, want response.Page", res.Data)
		}
		if page.TotalPages != tt.wantPages {
			t.Errorf("total=%d limit=%d: pages = %d, want %d", tt.total, tt.limit, page.TotalPages, tt.wantPages)
		}
		if res.Status != "success" || res.StatusCode != 200 {
			t.Errorf("envelope = %+v", res)
		}
	}
}

func TestError(t *testing.T) {
	res := response.Error(404, "product not found")
	if res.Status != "error" || res.StatusCode != 404 || res.Error != "product not found" || res.Data != nil {
		t.Errorf("Error() = %+v", res)
	}
}
