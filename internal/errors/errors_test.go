package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfig, "Invalid refresh interval", "Use a value between 100ms and 10s")

	assert.Equal(t, ErrConfig, err.Code)
	assert.Contains(t, err.Error(), "✗ Invalid refresh interval")
	assert.Contains(t, err.Error(), "Use a value between 100ms and 10s")
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, "Docker daemon unreachable")

	assert.Equal(t, ErrCollect, err.Code)
	assert.Contains(t, err.Error(), "Docker daemon unreachable")
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestWrapWithCode(t *testing.T) {
	cause := stderrors.New("no such file")
	err := WrapWithCode(cause, ErrDocker, "Cannot reach Docker socket", "Check that dockerd is running")

	assert.Equal(t, ErrDocker, err.Code)
	assert.Contains(t, err.Error(), "Check that dockerd is running")
}

func TestIsCode(t *testing.T) {
	err := New(ErrGPU, "NVML init failed", "")

	assert.True(t, IsCode(err, ErrGPU))
	assert.False(t, IsCode(err, ErrDocker))
	assert.False(t, IsCode(nil, ErrGPU))
	assert.False(t, IsCode(stderrors.New("plain"), ErrGPU))

	wrapped := WrapWithCode(err, ErrCollect, "collection failed", "")
	assert.True(t, IsCode(wrapped, ErrCollect))
}
