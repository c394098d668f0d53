package rod_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/crawlx"
	"github.com/fwojciec/crawlx/rod"
	gorod "github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Shutdown(t *testing.T) {
	t.Parallel()

	t.Run("is a no-op when nothing was launched", func(t *testing.T) {
		t.Parallel()

		pool := rod.NewPool()

		require.NoError(t, pool.Shutdown())
		require.NoError(t, pool.Shutdown())
		assert.Zero(t, pool.LauncherPID())
		assert.Zero(t, pool.Launches())
	})
}

func TestPool_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("returns launch error and retries on next acquire", func(t *testing.T) {
		t.Parallel()

		attempts := 0
		pool := rod.NewPool(rod.WithLaunchFunc(func() (*gorod.Browser, *launcher.Launcher, error) {
			attempts++
			return nil, nil, errors.New("chrome not found")
		}))

		_, err := pool.Acquire(context.Background())
		require.Error(t, err)
		var launchErr *crawlx.LaunchError
		require.ErrorAs(t, err, &launchErr)
		assert.Contains(t, err.Error(), "chrome not found")

		_, err = pool.Acquire(context.Background())
		require.Error(t, err)
		assert.Equal(t, 2, attempts, "each acquire should retry the launch")
		assert.Zero(t, pool.Launches())
	})

	t.Run("does not launch when context is already cancelled", func(t *testing.T) {
		t.Parallel()

		launched := false
		pool := rod.NewPool(rod.WithLaunchFunc(func() (*gorod.Browser, *launcher.Launcher, error) {
			launched = true
			return nil, nil, errors.New("unexpected")
		}))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := pool.Acquire(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, launched)
	})
}

// stubCDP answers every browser call with an empty result, except the
// listed methods, which block until the call's context ends.
type stubCDP struct {
	events chan *cdp.Event
	hang   map[string]bool

	mu    sync.Mutex
	calls []string
}

func newStubCDP(hang ...string) *stubCDP {
	c := &stubCDP{events: make(chan *cdp.Event), hang: map[string]bool{}}
	for _, m := range hang {
		c.hang[m] = true
	}
	return c
}

func (c *stubCDP) Event() <-chan *cdp.Event {
	return c.events
}

func (c *stubCDP) Call(ctx context.Context, _, method string, _ interface{}) ([]byte, error) {
	c.mu.Lock()
	c.calls = append(c.calls, method)
	c.mu.Unlock()
	if c.hang[method] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return []byte("{}"), nil
}

func (c *stubCDP) called(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.calls {
		if m == method {
			n++
		}
	}
	return n
}

// stubPool returns a pool whose launches connect to client instead of a
// real browser.
func stubPool(t *testing.T, client *stubCDP) *rod.Pool {
	t.Helper()
	pool := rod.NewPool(rod.WithLaunchFunc(func() (*gorod.Browser, *launcher.Launcher, error) {
		b := gorod.New().Client(client)
		if err := b.Connect(); err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	}))
	t.Cleanup(func() {
		_ = pool.Shutdown()
		close(client.events)
	})
	return pool
}

func TestPool_Acquire_HonorsContext(t *testing.T) {
	t.Parallel()

	t.Run("context creation gives up when the caller's context expires", func(t *testing.T) {
		t.Parallel()

		client := newStubCDP("Target.createBrowserContext")
		pool := stubPool(t, client)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		bc, err := pool.Acquire(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Nil(t, bc)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, 1, pool.Launches())
	})

	t.Run("stalled liveness check returns the caller's error without relaunching", func(t *testing.T) {
		t.Parallel()

		client := newStubCDP("Target.createBrowserContext", "Browser.getVersion")
		pool := stubPool(t, client)

		first, cancelFirst := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancelFirst()
		_, err := pool.Acquire(first)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Equal(t, 1, pool.Launches())

		second, cancelSecond := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancelSecond()
		start := time.Now()
		_, err = pool.Acquire(second)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, 1, client.called("Browser.getVersion"))
		assert.Equal(t, 1, pool.Launches(), "a cancelled caller must not cost the shared browser")
	})
}
