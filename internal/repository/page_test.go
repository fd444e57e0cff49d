package repository

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{1, 10, 1, 10},
		{0, 0, 1, DefaultLimit},
		{-3, -1, 1, DefaultLimit},
		{4, 500, 4, 500},
	}
	for _, tt := range tests {
		page, limit := NormalizePage(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestNewPagination_TotalPagesIsCeil(t *testing.T) {
	tests := []struct {
		total     int64
		limit     int
		wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 5, 5},
		{26, 5, 6},
		{7, 1, 7},
	}
	for _, tt := range tests {
		t.Run(strconv.FormatInt(tt.total, 10)+"/"+strconv.Itoa(tt.limit), func(t *testing.T) {
			p := NewPagination(tt.total, 1, tt.limit)
			assert.Equal(t, tt.wantPages, p.TotalPages)
		})
	}
}

func TestNewPagination_HugeLimit(t *testing.T) {
	assert.Equal(t, 1, NewPagination(5, 1, math.MaxInt).TotalPages)
	assert.Equal(t, 1, NewPagination(math.MaxInt64, 1, math.MaxInt).TotalPages)
	assert.Equal(t, math.MaxInt64/2+1, NewPagination(math.MaxInt64, 1, 2).TotalPages)
}

func TestPagination_Offset(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantOffset uint64
		wantOK     bool
	}{
		{name: "first page", page: 1, limit: 10, wantOffset: 0, wantOK: true},
		{name: "third page", page: 3, limit: 10, wantOffset: 20, wantOK: true},
		{name: "first page with huge limit", page: 1, limit: math.MaxInt, wantOffset: 0, wantOK: true},
		{name: "largest representable offset", page: 2, limit: math.MaxInt, wantOffset: math.MaxInt, wantOK: true},
		{name: "page past bigint", page: 1<<62 + 1, limit: 100, wantOK: false},
		{name: "huge limit on third page", page: 3, limit: math.MaxInt, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, ok := NewPagination(7, tt.page, tt.limit).Offset()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
