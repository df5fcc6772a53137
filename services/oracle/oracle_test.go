package oracle

import (
	"Rondo/services/redis"
	redis_utils "Rondo/services/redis/utils"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOracle(t *testing.T) (*DevOracle, *redis.RedisClient) {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		t.Skip("REDIS_URL not set, skipping oracle tests")
	}
	rc, err := redis.InitRedis(addr, 0)
	require.NoError(t, err)
	return NewDevOracle(rc), rc
}

func TestRequestReadFulfill(t *testing.T) {
	orc, rc := testOracle(t)

	handle, err := orc.Request("game-x-round-1")
	require.NoError(t, err)
	assert.NotEmpty(t, handle)
	t.Cleanup(func() {
		rc.CleanupKeys([]string{redis_utils.FormatOracleRequestKey(handle)})
	})

	// Reading before fulfillment reports the pending state
	_, err = orc.Read(handle)
	assert.ErrorIs(t, err, ErrNotYetAvailable)

	require.NoError(t, orc.Fulfill(handle))

	value, err := orc.Read(handle)
	require.NoError(t, err)
	assert.Len(t, value, 32)

	// Fulfilling again never changes the value
	require.NoError(t, orc.Fulfill(handle))
	again, err := orc.Read(handle)
	require.NoError(t, err)
	assert.Equal(t, value, again)
}

func TestUnknownHandle(t *testing.T) {
	orc, _ := testOracle(t)

	_, err := orc.Read("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknownHandle)

	err = orc.Fulfill("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknownHandle)
}
