package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name             string
		in               PageRequest
		wantPage, wantSz int
		wantOffset       int
	}{
		{"empty", PageRequest{}, 1, DefaultPageSize, 0},
		{"explicit", PageRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"oversized", PageRequest{Page: 1, PageSize: 500}, 1, MaxPageSize, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Defaults()
			if p.Page != tt.wantPage || p.PageSize != tt.wantSz || p.Offset() != tt.wantOffset {
				t.Errorf("got page %d size %d offset %d", p.Page, p.PageSize, p.Offset())
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	t.Run("rounds pages up", func(t *testing.T) {
		resp := NewPageResponse([]int{1, 2}, 1, 2, 5)
		if resp.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", resp.TotalPages)
		}
	})

	t.Run("nil data becomes empty", func(t *testing.T) {
		resp := NewPageResponse[int](nil, 1, 20, 0)
		if resp.Data == nil || resp.TotalPages != 0 {
			t.Errorf("unexpected response: %+v", resp)
		}
	})
}

func TestMap(t *testing.T) {
	resp := Map(NewPageResponse([]int{1, 2, 3}, 2, 3, 9), func(v *int) string {
		return string(rune('a' + *v - 1))
	})
	if len(resp.Data) != 3 || resp.Data[2] != "c" || resp.Page != 2 || resp.TotalPages != 3 {
		t.Errorf("unexpected mapped page: %+v", resp)
	}
}
