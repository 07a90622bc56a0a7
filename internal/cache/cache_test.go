package cache

import (
	"context"
	"testing"

	"hostel-admin/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardKey(t *testing.T) {
	assert.Equal(t, "hostel:dashboard:2024-05", DashboardKey("2024-05"))
}

func TestNew_DisabledIsNoop(t *testing.T) {
	store, closeFn, err := New(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, closeFn())

	_, ok := store.(Noop)
	assert.True(t, ok)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", map[string]int{"a": 1}, 0))
	var out map[string]int
	assert.ErrorIs(t, store.Get(ctx, "k", &out), ErrCacheMiss)
	assert.NoError(t, store.DeleteByPrefix(ctx, PrefixDashboard))
}
