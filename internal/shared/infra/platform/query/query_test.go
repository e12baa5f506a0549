package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, Page(items, OffsetPagination{}))
	assert.Equal(t, []int{3, 4}, Page(items, OffsetPagination{Limit: 2, Offset: 2}))
	assert.Equal(t, []int{5}, Page(items, OffsetPagination{Limit: 10, Offset: 4}))
	assert.Equal(t, []int{}, Page(items, OffsetPagination{Limit: 2, Offset: 9}))
	assert.Equal(t, []int{1}, Page(items, OffsetPagination{Limit: 1, Offset: -3}))
	assert.Equal(t, items, Page(items, nil))
}

func TestPage_HugeLimitDoesNotOverflow(t *testing.T) {
	items := []int{1, 2, 3}

	assert.NotPanics(t, func() {
		assert.Equal(t, []int{2, 3}, Page(items, OffsetPagination{Limit: math.MaxInt, Offset: 1}))
	})
	assert.Equal(t, []int{}, Page(items, OffsetPagination{Limit: math.MaxInt, Offset: math.MaxInt}))
}
