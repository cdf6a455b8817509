package libcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/rdfworkflow/internal/toolchain"
)

func TestLoad_CachesLibrary(t *testing.T) {
	c := New()
	ctx := context.Background()
	calls := 0
	load := func(ctx context.Context) (toolchain.Library, error) {
		calls++
		return toolchain.Symbols{}, nil
	}

	// --- Act ---
	_, hit, err := c.Load(ctx, "unit.cpp", load)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = c.Load(ctx, "unit.cpp", load)
	require.NoError(t, err)

	// --- Assert ---
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())
}

func TestLoad_FailuresAreNotCached(t *testing.T) {
	c := New()
	ctx := context.Background()
	wantErr := errors.New("rejected")

	_, _, err := c.Load(ctx, "unit.cpp", func(ctx context.Context) (toolchain.Library, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
	_, ok := c.Get("unit.cpp")
	assert.False(t, ok)

	_, hit, err := c.Load(ctx, "unit.cpp", func(ctx context.Context) (toolchain.Library, error) {
		return toolchain.Symbols{}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestLoad_ConcurrentCallersShareOneLoad(t *testing.T) {
	c := New()
	ctx := context.Background()
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(ctx context.Context) (toolchain.Library, error) {
		calls.Add(1)
		<-release
		return toolchain.Symbols{}, nil
	}

	const numGoroutines = 20
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(numGoroutines)
	errs := make(chan error, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			_, _, err := c.Load(ctx, "unit.cpp", load)
			errs <- err
		}()
	}
	started.Wait()
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	// Callers arriving after the first load finished hit the cache, so the
	// loader runs exactly once either way.
	assert.Equal(t, int32(1), calls.Load())
}

func TestForget(t *testing.T) {
	c := New()
	_, _, err := c.Load(context.Background(), "unit.cpp", func(ctx context.Context) (toolchain.Library, error) {
		return toolchain.Symbols{}, nil
	})
	require.NoError(t, err)

	c.Forget("unit.cpp")

	_, ok := c.Get("unit.cpp")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
