package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInArray(t *testing.T) {
	assert.True(t, InArray("b", []string{"a", "b", "c"}))
	assert.False(t, InArray("d", []string{"a", "b", "c"}))
	assert.False(t, InArray("a", nil))
	assert.True(t, InArray(2, []int{1, 2}))
}
