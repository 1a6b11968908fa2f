package proxy

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
)

// Func picks the proxy for an outgoing request, as http.Transport.Proxy expects.
type Func func(*http.Request) (*url.URL, error)

var ErrEmptyProxyList = errors.New("empty proxy urls")

type roundRobinSwitcher struct {
	proxyURLs []*url.URL
	index     uint32
}

func (r *roundRobinSwitcher) GetProxy(pr *http.Request) (*url.URL, error) {
	if len(r.proxyURLs) == 0 {
		return nil, ErrEmptyProxyList
	}

	index := atomic.AddUint32(&r.index, 1) - 1
	u := r.proxyURLs[index%uint32(len(r.proxyURLs))]

	return u, nil
}

// RoundRobinProxySwitcher rotates proxyURLs on every request.
// "http", "https" and "socks5" schemes are supported.
func RoundRobinProxySwitcher(proxyURLs ...string) (Func, error) {
	if len(proxyURLs) < 1 {
		return nil, ErrEmptyProxyList
	}

	urls := make([]*url.URL, len(proxyURLs))
	for i, u := range proxyURLs {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", u, err)
		}
		urls[i] = parsed
	}

	return (&roundRobinSwitcher{urls, 0}).GetProxy, nil
}
