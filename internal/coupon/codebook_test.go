package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCodebook(t *testing.T) {
	book := NewMemoryCodebook(4)

	assert.Equal(t, 0, book.Size())
	assert.False(t, book.Contains("SUMMER25X"))

	book.Add("SUMMER25X")
	book.Add("WINTER10Y")

	assert.Equal(t, 2, book.Size())
	assert.True(t, book.Contains("SUMMER25X"))
	assert.True(t, book.Contains("WINTER10Y"))
	assert.False(t, book.Contains("summer25x"), "lookups are case sensitive")

	// Adding the same code twice does not grow the book.
	book.Add("SUMMER25X")
	assert.Equal(t, 2, book.Size())
}
