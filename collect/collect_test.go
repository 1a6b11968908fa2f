package collect

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestBrowserFetchSendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "text/html; charset=gbk")
		_, _ = w.Write([]byte("<p>北京</p>"))
	}))
	defer srv.Close()

	f := &BrowserFetch{Timeout: time.Second}
	body, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)

	// declared charset is ignored, the body is read as UTF-8
	assert.Equal(t, "<p>北京</p>", string(body))
	assert.Contains(t, got.Get("User-Agent"), "Mozilla/5.0")
	assert.Equal(t, "zh-CN,zh;q=0.9,en;q=0.8", got.Get("Accept-Language"))
	assert.NotEmpty(t, got.Get("Accept"))
}

func TestBrowserFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := &BrowserFetch{Timeout: time.Second}
	body, err := f.Get(context.Background(), srv.URL)
	assert.Nil(t, body)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

type countingPacer struct {
	waits int
}

func (p *countingPacer) Wait(context.Context) error {
	p.waits++
	return nil
}

func (p *countingPacer) Limit() rate.Limit {
	return rate.Inf
}

type recorder struct {
	delays []time.Duration
}

func (r *recorder) sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func TestRetryFetchRecovers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	pacer := &countingPacer{}
	rec := &recorder{}
	f := NewRetryFetch(&BrowserFetch{Timeout: time.Second}, pacer, nil)
	f.Sleep = rec.sleep

	body, err := f.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, pacer.waits)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

type failingFetcher struct {
	calls int
}

func (f *failingFetcher) Get(context.Context, string) ([]byte, error) {
	f.calls++
	return nil, errors.New("connection refused")
}

func TestRetryFetchExhausted(t *testing.T) {
	inner := &failingFetcher{}
	pacer := &countingPacer{}
	rec := &recorder{}
	f := NewRetryFetch(inner, pacer, nil)
	f.Sleep = rec.sleep

	body, err := f.Get(context.Background(), "http://example.invalid/")
	assert.Nil(t, body)
	require.Error(t, err)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 4, fe.Attempts)
	assert.Equal(t, 4, inner.calls)
	assert.Equal(t, 4, pacer.waits)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, rec.delays)
}

func TestRetryFetchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inner := &failingFetcher{}
	f := NewRetryFetch(inner, nil, nil)
	f.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := f.Get(ctx, "http://example.invalid/")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, inner.calls)
}
