package collect

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dreamerjackson/aircrawler/proxy"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// DefaultHeader is sent with every request made by BrowserFetch.
func DefaultHeader() http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8")
	h.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")

	return h
}

type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error status code:%d url:%s", e.Code, e.URL)
}

// BrowserFetch 模拟浏览器访问
type BrowserFetch struct {
	Timeout time.Duration
	Proxy   proxy.Func
	Header  http.Header

	// DetectCharset sniffs the body encoding instead of forcing UTF-8.
	DetectCharset bool

	once   sync.Once
	client *http.Client
}

func (b *BrowserFetch) httpClient() *http.Client {
	b.once.Do(func() {
		client := &http.Client{
			Timeout: b.Timeout,
		}

		if b.Proxy != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = b.Proxy
			client.Transport = transport
		}

		b.client = client
	})

	return b.client
}

func (b *BrowserFetch) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed:%w", err)
	}

	header := b.Header
	if header == nil {
		header = DefaultHeader()
	}

	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := b.httpClient().Do(req)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	bodyReader := bufio.NewReader(resp.Body)

	var e encoding.Encoding = unicode.UTF8
	if b.DetectCharset {
		e = DeterminEncoding(bodyReader)
	}

	utf8Reader := transform.NewReader(bodyReader, e.NewDecoder())

	return io.ReadAll(utf8Reader)
}

func DeterminEncoding(r *bufio.Reader) encoding.Encoding {
	bytes, err := r.Peek(1024)

	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		zap.L().Error("peek body failed", zap.Error(err))

		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, "")

	return e
}
