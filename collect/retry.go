package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/dreamerjackson/aircrawler/limiter"
	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// FetchError is returned once every attempt for URL has failed.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RetryFetch paces every attempt through Pacer and retries failures with
// exponential backoff: BaseDelay, 2*BaseDelay, 4*BaseDelay...
// 4xx and 5xx statuses are retried alike.
type RetryFetch struct {
	Fetcher    Fetcher
	Pacer      limiter.RateLimiter
	MaxRetries int
	BaseDelay  time.Duration
	Sleep      limiter.SleepFunc
	Logger     *zap.Logger
}

func NewRetryFetch(f Fetcher, pacer limiter.RateLimiter, logger *zap.Logger) *RetryFetch {
	return &RetryFetch{
		Fetcher:    f,
		Pacer:      pacer,
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		Sleep:      limiter.Sleep,
		Logger:     logger,
	}
}

// Backoff returns the wait before retry number retry+1.
func (r *RetryFetch) Backoff(retry int) time.Duration {
	return r.BaseDelay * time.Duration(1<<uint(retry))
}

func (r *RetryFetch) Get(ctx context.Context, url string) ([]byte, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sleep := r.Sleep
	if sleep == nil {
		sleep = limiter.Sleep
	}

	var lastErr error

	retry := 0
	for ; ; retry++ {
		if r.Pacer != nil {
			if err := r.Pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}

		body, err := r.Fetcher.Get(ctx, url)
		if err == nil {
			return body, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		logger.Warn("fetch failed",
			zap.String("url", url),
			zap.Int("attempt", retry+1),
			zap.Error(err),
		)

		if retry >= r.MaxRetries {
			break
		}

		delay := r.Backoff(retry)
		logger.Info("retrying",
			zap.String("url", url),
			zap.Int("retry", retry+1),
			zap.Duration("backoff", delay),
		)

		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, &FetchError{URL: url, Attempts: retry + 1, Err: lastErr}
}
