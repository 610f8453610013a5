package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentID(t *testing.T) {
	a := ContentID([]byte(`{"id":1}`))
	b := ContentID([]byte(`{"id":1}`))
	c := ContentID([]byte(`{"id":2}`))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEmpty(t, a)
	assert.LessOrEqual(t, len(a), 11)
}

func TestSum64_Known(t *testing.T) {
	// xxhash64 of the empty input with seed 0.
	assert.Equal(t, uint64(0xef46db3751d8e999), Sum64(nil))
}
