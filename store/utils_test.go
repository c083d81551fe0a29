package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceFromSimilarity(t *testing.T) {
	assert.InDelta(t, 0.0, DistanceFromSimilarity(1), 1e-6)
	assert.InDelta(t, 0.25, DistanceFromSimilarity(0.75), 1e-6)
	assert.InDelta(t, 0.0, DistanceFromSimilarity(1.0001), 1e-6)
}

func TestCandidatePool(t *testing.T) {
	assert.Equal(t, 100, CandidatePool(100, 5))
	assert.Equal(t, 250, CandidatePool(100, 250))
}

func TestCheckVectorSize(t *testing.T) {
	assert.NoError(t, CheckVectorSize(384, 384))
	assert.NoError(t, CheckVectorSize(384, 0))
	assert.NoError(t, CheckVectorSize(0, 384))
	assert.ErrorIs(t, CheckVectorSize(768, 384), ErrVectorSize)
}
