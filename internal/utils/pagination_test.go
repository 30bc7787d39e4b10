package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculatePaginationInfo(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		info := CalculatePaginationInfo(95, 2, 20)

		assert.Equal(t, 5, info.TotalPages)
		assert.True(t, info.HasNext)
		assert.True(t, info.HasPrevious)
	})

	t.Run("empty result still reports one page", func(t *testing.T) {
		info := CalculatePaginationInfo(0, 1, 20)

		assert.Equal(t, 1, info.TotalPages)
		assert.False(t, info.HasNext)
		assert.False(t, info.HasPrevious)
	})

	t.Run("last page has no next", func(t *testing.T) {
		info := CalculatePaginationInfo(40, 2, 20)

		assert.False(t, info.HasNext)
		assert.True(t, info.HasPrevious)
	})
}

func TestParsePaginationFromQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, size := ParsePaginationFromQuery("", "")
		assert.Equal(t, 1, page)
		assert.Equal(t, 20, size)
	})

	t.Run("valid values", func(t *testing.T) {
		page, size := ParsePaginationFromQuery("3", "50")
		assert.Equal(t, 3, page)
		assert.Equal(t, 50, size)
	})

	t.Run("garbage and out of range values fall back", func(t *testing.T) {
		page, size := ParsePaginationFromQuery("abc", "500")
		assert.Equal(t, 1, page)
		assert.Equal(t, 20, size)
	})
}
