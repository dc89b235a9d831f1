package catalog

import (
	"math"
	"testing"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{1, 20, 1, 20},
		{0, 20, 1, 20},
		{-1, 0, 1, 1},
		{3, 100, 3, 100},
		{3, 101, 3, 100},
	}
	for _, tt := range tests {
		page, size := NormalizePage(tt.page, tt.size)
		if page != tt.wantPage || size != tt.wantSize {
			t.Errorf("NormalizePage(%d, %d) = %d, %d, want %d, %d",
				tt.page, tt.size, page, size, tt.wantPage, tt.wantSize)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 20, 2},
		{3, 1, 3},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestPageLength(t *testing.T) {
	tests := []struct {
		total, page, size, want int
	}{
		{25, 1, 20, 20},
		{25, 2, 20, 5},
		{25, 3, 20, 0},
		{3, 2, 1, 1},
		{0, 1, 20, 0},
		{3, math.MaxInt / 50, 100, 0},
		{3, math.MaxInt, 1, 0},
	}
	for _, tt := range tests {
		if got := PageLength(tt.total, tt.page, tt.size); got != tt.want {
			t.Errorf("PageLength(%d, %d, %d) = %d, want %d", tt.total, tt.page, tt.size, got, tt.want)
		}
	}
}
