package catalog

import (
	"testing"

	"github.com/hitoshi/sustainabite/internal/model"
)

func products() []model.Product {
	return []model.Product{
		{ID: 1, Name: "ข้าวหอมมะลิออร์แกนิก", CategoryID: 1},
		{ID: 2, Name: "ข้าวกล้อง", CategoryID: 1},
		{ID: 3, Name: "Soybean Oil", CategoryID: 2},
		{ID: 7, Name: "ผักคะน้า", CategoryID: 4},
	}
}

func ids(ps []model.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		categoryID int64
		query      string
		want       []int64
	}{
		{"all", 0, "", []int64{1, 2, 3, 7}},
		{"category only", 1, "", []int64{1, 2}},
		{"query only", 0, "ข้าว", []int64{1, 2}},
		{"category and query", 1, "กล้อง", []int64{2}},
		{"case insensitive", 0, "soybean", []int64{3}},
		{"no match", 4, "ข้าว", []int64{}},
		{"unknown category", 9, "", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(products(), tt.categoryID, tt.query))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestHighlightCategory(t *testing.T) {
	if got := HighlightCategory(products(), 7); got != 4 {
		t.Errorf("HighlightCategory(7) = %d, want 4", got)
	}
	if got := HighlightCategory(products(), 99); got != 0 {
		t.Errorf("HighlightCategory(99) = %d, want 0", got)
	}
}
