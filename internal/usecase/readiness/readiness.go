// Package readiness polls CDN URLs until the edge serves the rendered
// transformation.
package readiness

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

type Checker struct {
	client   *http.Client
	strategy retry.Strategy
	logger   *zlog.Zerolog
}

// NewChecker builds a Checker. A nil client falls back to
// http.DefaultClient.
func NewChecker(client *http.Client, strategy retry.Strategy, logger *zlog.Zerolog) *Checker {
	if client == nil {
		client = http.DefaultClient
	}
	return &Checker{
		client:   client,
		strategy: strategy,
		logger:   logger,
	}
}

// Wait issues HEAD requests on the strategy's schedule until url answers
// 2xx. A 4xx answer other than 404 and 429 stops polling with ErrRejected.
// Cancelling ctx interrupts the wait between attempts.
func (c *Checker) Wait(ctx context.Context, url string) error {
	attempt := 0
	var rejected error

	err := retry.DoContext(ctx, c.strategy, func() error {
		if rejected != nil {
			return nil
		}

		attempt++
		status, err := c.head(ctx, url)
		if errors.Is(err, ErrInvalidURL) {
			rejected = err
			return nil
		}
		if err != nil {
			c.logger.Debug().Err(err).Str("url", url).Int("attempt", attempt).Msg("CDN HEAD request failed")
			return err
		}

		switch {
		case status >= 200 && status < 300:
			return nil
		case status == http.StatusNotFound, status == http.StatusTooManyRequests, status >= 500:
			c.logger.Debug().Str("url", url).Int("status", status).Int("attempt", attempt).Msg("CDN url not ready yet")
			return fmt.Errorf("%w: status %d", ErrNotReady, status)
		default:
			rejected = fmt.Errorf("%w: status %d", ErrRejected, status)
			return nil
		}
	})

	if rejected != nil {
		return rejected
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return fmt.Errorf("%w after %d attempts: %v", ErrNotReady, attempt, err)
	}

	return nil
}

func (c *Checker) head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
