package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceSize(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, ValidateSourceSize(MaxSourceBytes), "max size should work")
	})

	t.Run("ValidSmall", func(t *testing.T) {
		assert.True(t, ValidateSourceSize(10), "small size should work")
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.False(t, ValidateSourceSize(MaxSourceBytes+1), "too big")
	})
}

func TestStdinSize(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		assert.True(t, ValidateStdinSize(1<<16), "max size should work")
	})

	t.Run("Invalid", func(t *testing.T) {
		assert.False(t, ValidateStdinSize((1<<16)+1), "too big")
	})
}
