package limiter

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Jitter paces requests with a random pause drawn uniformly from [Min, Max].
type Jitter struct {
	Min   time.Duration
	Max   time.Duration
	Sleep SleepFunc

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewJitter(min, max time.Duration) *Jitter {
	if max < min {
		min, max = max, min
	}

	return &Jitter{
		Min:   min,
		Max:   max,
		Sleep: Sleep,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next pause without sleeping.
func (j *Jitter) Next() time.Duration {
	span := j.Max - j.Min
	if span <= 0 {
		return j.Min
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.rnd == nil {
		j.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return j.Min + time.Duration(j.rnd.Int63n(int64(span)+1))
}

func (j *Jitter) Wait(ctx context.Context) error {
	sleep := j.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	return sleep(ctx, j.Next())
}

// Limit reports the worst-case request rate the pause allows.
func (j *Jitter) Limit() rate.Limit {
	if j.Min <= 0 {
		return rate.Inf
	}

	return rate.Every(j.Min)
}
