package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAllow_BurstPerKey(t *testing.T) {
	k := New(1, 2, 0)
	defer k.Stop()

	assert.True(t, k.Allow("10.0.0.1"))
	assert.True(t, k.Allow("10.0.0.1"))
	assert.False(t, k.Allow("10.0.0.1"))

	assert.True(t, k.Allow("10.0.0.2"), "keys are independent")
	assert.Equal(t, 2, k.Len())
}

func TestWait_ContextCanceled(t *testing.T) {
	k := New(0.001, 1, 0)
	defer k.Stop()

	require.NoError(t, k.Wait(context.Background(), "import"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, k.Wait(ctx, "import"))
}

func TestEvict_IdleKeys(t *testing.T) {
	k := New(10, 1, time.Hour)
	defer k.Stop()

	k.Allow("a")
	k.evict(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, k.Len())
}
