package biz

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayStatsUsecase_Snapshot(t *testing.T) {
	repo := &fakeStatsRepo{}
	uc := NewGatewayStatsUsecase(&recordingPublisher{open: true}, repo, log.DefaultLogger)

	stats, err := uc.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, stats, repo.saved[0])
	assert.True(t, stats.CircuitOpen)
	assert.NotEmpty(t, stats.Instance)
}

func TestGatewayStatsUsecase_SnapshotError(t *testing.T) {
	uc := NewGatewayStatsUsecase(&recordingPublisher{}, &fakeStatsRepo{err: errDBDown}, log.DefaultLogger)

	stats, err := uc.Snapshot(context.Background())
	assert.ErrorIs(t, err, errDBDown)
	require.NotNil(t, stats, "live state is returned even when it cannot be stored")
	assert.False(t, stats.CircuitOpen)
}
