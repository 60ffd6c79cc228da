package reqid_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/reqscope/pkg/reqid"
)

func TestCurrent_PanicsWhenUnbound(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t, reqid.ErrUnbound, func() {
		reqid.Current(context.Background())
	})

	_, ok := reqid.Lookup(context.Background())
	assert.False(t, ok)
}

func TestRun_BindsForDuration(t *testing.T) {
	t.Parallel()

	parent := context.Background()
	id := reqid.FromExternal("scoped")

	err := reqid.Run(parent, id, func(ctx context.Context) error {
		assert.Equal(t, id, reqid.Current(ctx))
		return nil
	})
	require.NoError(t, err)

	_, ok := reqid.Lookup(parent)
	assert.False(t, ok, "parent context must stay unbound")
}

func TestRun_ReturnsError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := reqid.Run(context.Background(), reqid.Generate(), func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRun_InnermostWins(t *testing.T) {
	t.Parallel()

	outer := reqid.FromExternal("outer")
	inner := reqid.FromExternal("inner")

	_ = reqid.Run(context.Background(), outer, func(ctx context.Context) error {
		_ = reqid.Run(ctx, inner, func(ctx context.Context) error {
			assert.Equal(t, inner, reqid.Current(ctx))
			return nil
		})
		assert.Equal(t, outer, reqid.Current(ctx))
		return nil
	})
}

func TestRun_SurvivesGoroutines(t *testing.T) {
	t.Parallel()

	id := reqid.FromExternal("async")
	err := reqid.Run(context.Background(), id, func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < 8; i++ {
			g.Go(func() error {
				if got := reqid.Current(gctx); got != id {
					return fmt.Errorf("got %s, want %s", got, id)
				}
				return nil
			})
		}
		return g.Wait()
	})
	require.NoError(t, err)
}

func TestRun_ConcurrentRequestsAreIsolated(t *testing.T) {
	t.Parallel()

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			id := reqid.FromExternal(fmt.Sprintf("req-%d", i))
			_ = reqid.Run(context.Background(), id, func(ctx context.Context) error {
				assert.Equal(t, fmt.Sprintf("req-%d", i), reqid.Current(ctx).String())
				return nil
			})
		}(i)
	}
	wg.Wait()
}
