package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer(t *testing.T) {
	assert.Equal(
		t,
		"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		Buffer([]byte("hello")),
	)
}

func TestReader(t *testing.T) {
	sum, err := Reader(t.Context(), strings.NewReader("hello"))
	assert.NoError(t, err)
	assert.Equal(t, Buffer([]byte("hello")), sum)
}

func TestFields(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, Fields("a", "b"), Fields("a", "b"))
	})

	t.Run("NoBoundaryCollision", func(t *testing.T) {
		// plain concatenation would hash both of these to the same key
		assert.NotEqual(t, Fields("ab", "1"), Fields("a", "b1"))
	})

	t.Run("EmptyFieldMatters", func(t *testing.T) {
		assert.NotEqual(t, Fields("a"), Fields("a", ""))
	})
}
