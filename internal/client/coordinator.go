package client

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// RefreshFunc performs one refresh round trip and returns the new access
// token.
type RefreshFunc func(ctx context.Context) (string, error)

type refreshResult struct {
	token string
	err   error
}

// RefreshCoordinator serializes token refreshes. However many requests hit an
// expired token at once, exactly one refresh call goes to the server; every
// other caller queues up and receives that call's outcome in arrival order.
type RefreshCoordinator struct {
	refresh RefreshFunc
	store   *TokenStore
	logger  *slog.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
}

// NewRefreshCoordinator is the constructor for RefreshCoordinator.
func NewRefreshCoordinator(refresh RefreshFunc, store *TokenStore, logger *slog.Logger) *RefreshCoordinator {
	return &RefreshCoordinator{
		refresh: refresh,
		store:   store,
		logger:  logger,
	}
}

// Await joins the in-flight refresh, starting one if none is running, and
// blocks until it settles. On success the new token is already in the store;
// on failure the store is cleared and every queued caller gets the same
// error. A caller whose context expires abandons the wait without affecting
// the refresh itself.
func (c *RefreshCoordinator) Await(ctx context.Context) (string, error) {
	ch := make(chan refreshResult, 1)

	c.mu.Lock()
	c.waiters = append(c.waiters, ch)
	if !c.refreshing {
		c.refreshing = true
		// The refresh is shared by every queued waiter, so it must not die
		// with the caller that happened to start it.
		go c.run(context.WithoutCancel(ctx))
	}
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "refresh wait cancelled")
	case result := <-ch:
		return result.token, result.err
	}
}

func (c *RefreshCoordinator) run(ctx context.Context) {
	token, err := c.refresh(ctx)
	if err != nil {
		c.logger.Warn("session refresh failed", slog.Any("error", err))
		c.store.Clear()
	} else {
		c.store.Set(token)
	}

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}
}
