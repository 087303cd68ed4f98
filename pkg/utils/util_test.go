package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectionSlug(t *testing.T) {
	a := CollectionSlug("salt", "Summer in Lisbon!", 1876543210987654321)
	b := CollectionSlug("salt", "Summer in Lisbon!", 1876543210987654322)

	assert.True(t, strings.HasPrefix(a, "summer-in-lisbon-"), a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, CollectionSlug("salt", "Summer in Lisbon!", 1876543210987654321))
	assert.NotEqual(t, a, CollectionSlug("pepper", "Summer in Lisbon!", 1876543210987654321))
}

func TestCollectionSlugWithoutLetters(t *testing.T) {
	s := CollectionSlug("salt", "!!!", 42)
	assert.NotEmpty(t, s)
	assert.NotContains(t, s, "-")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, Dedupe([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, Dedupe(nil))
}

func TestPanicTrace(t *testing.T) {
	trace := PanicTrace(errors.New("boom"))
	assert.True(t, strings.HasPrefix(trace, "boom\n"))
}
