package data

import (
	"testing"
	"time"

	"ZevaroCore/internal/conf"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewData_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	c := &conf.Data{
		Redis: &conf.Redis{
			Addr:         mr.Addr(),
			ReadTimeout:  200 * time.Millisecond,
			WriteTimeout: 200 * time.Millisecond,
		},
	}
	logger := log.DefaultLogger

	rdb, redisCleanup, err := NewRedisClient(c, logger)
	require.NoError(t, err)
	require.NotNil(t, rdb)
	defer redisCleanup()

	data, cleanup, err := NewData(c, logger, rdb, nil)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, rdb, data.GetRedisClient())
	assert.Nil(t, data.GetDB())
}

func TestNewData_WithoutStores(t *testing.T) {
	data, cleanup, err := NewData(&conf.Data{}, log.DefaultLogger, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, data)
	defer cleanup()

	assert.Nil(t, data.GetRedisClient())
	assert.Nil(t, data.GetDB())

	// Repositories built on empty Data degrade instead of panicking.
	assert.False(t, NewAuditLogRepo(data, log.DefaultLogger).Enabled())
}
