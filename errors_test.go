package gauntlet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeErrorDetection(t *testing.T) {
	err := NewRuntimeError(errors.New("engine broke"))

	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsTestFailureError(err))
	assert.Contains(t, err.Error(), "engine broke")
}

func TestRuntimeErrorDetectionThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("while starting: %w", NewRuntimeError(errors.New("boom")))

	assert.True(t, IsRuntimeError(wrapped))
	assert.Equal(t, "boom", errors.Unwrap(errors.Unwrap(wrapped)).Error())
}

func TestTestFailureErrorDetection(t *testing.T) {
	err := NewTestFailureError("2 of 5 failed")

	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "2 of 5 failed")
}

func TestNilIsNeitherKind(t *testing.T) {
	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsTestFailureError(nil))
}
