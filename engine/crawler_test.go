package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/dreamerjackson/aircrawler/parse/airlevel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	body string
	err  error
}

type fakeFetcher struct {
	pages map[string]page
	calls []string
}

func (f *fakeFetcher) Get(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)

	p, ok := f.pages[url]
	if !ok {
		return nil, errors.New("not found")
	}

	if p.err != nil {
		return nil, p.err
	}

	return []byte(p.body), nil
}

type recordingReporter struct {
	nopReporter
	phases  []int
	skipped []string
	urls    []string
}

func (r *recordingReporter) Phase(phase int, id Identity) {
	r.phases = append(r.phases, phase)
}

func (r *recordingReporter) Cities(cities []airlevel.City, urls []string) {
	r.urls = urls
}

func (r *recordingReporter) Skip(city, reason string) {
	r.skipped = append(r.skipped, city)
}

const stationPage = `<table>
<tr><th>监测站</th><th>AQI</th><th>空气质量等级</th></tr>
<tr><td>万寿西宫</td><td>50</td><td>优</td></tr>
</table>`

func newTestCrawler(t *testing.T, f *fakeFetcher, opts ...Option) (*Crawler, *recordingReporter) {
	t.Helper()

	rep := &recordingReporter{}
	c, err := NewCrawler(append([]Option{WithFetcher(f), WithReporter(rep)}, opts...)...)
	require.NoError(t, err)

	return c, rep
}

func TestCrawlStationsSkipsFailedCity(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{
		"https://www.air-level.com/air/beijing":  {err: errors.New("timeout")},
		"https://www.air-level.com/air/shanghai": {body: stationPage},
	}}
	c, rep := newTestCrawler(t, f)

	result := c.CrawlStations(context.Background(), []airlevel.City{
		{Name: "北京", URL: "/air/beijing"},
		{Name: "上海", URL: "/air/shanghai"},
	})

	assert.Equal(t, []string{"上海"}, result.Cities())
	require.Len(t, result.Stations("上海"), 1)
	assert.Equal(t, "万寿西宫", result.Stations("上海")[0].Value(airlevel.FieldStation))
	assert.Nil(t, result.Stations("北京"))
	assert.Equal(t, []string{"北京"}, rep.skipped)
	assert.Equal(t, 2, len(f.calls))
}

func TestCrawlStationsSkipsEmptyCity(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{
		"https://www.air-level.com/a": {body: `<div>维护中</div>`},
		"https://www.air-level.com/b": {body: stationPage},
	}}
	c, rep := newTestCrawler(t, f)

	result := c.CrawlStations(context.Background(), []airlevel.City{{Name: "A", URL: "/a"}, {Name: "B", URL: "/b"}})
	assert.Equal(t, []string{"B"}, result.Cities())
	assert.Equal(t, 1, result.StationCount())
	assert.Equal(t, []string{"A"}, rep.skipped)
}

func TestRun(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{
		"https://www.air-level.com":            {body: `<div><p>A.</p><a href="air/anqing">安庆</a><a href="/air/anshan">鞍山</a></div>`},
		"https://www.air-level.com/air/anqing": {body: stationPage},
		"https://www.air-level.com/air/anshan": {body: stationPage},
	}}
	c, rep := newTestCrawler(t, f)

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"安庆", "鞍山"}, result.Cities())
	assert.Equal(t, []int{1, 2}, rep.phases)
	assert.Equal(t, []string{
		"https://www.air-level.com/air/anqing",
		"https://www.air-level.com/air/anshan",
	}, rep.urls)
}

func TestRunCityLimit(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{
		"https://www.air-level.com":    {body: `<div><p>A.</p><a href="/a1">A1</a><a href="/a2">A2</a></div>`},
		"https://www.air-level.com/a1": {body: stationPage},
		"https://www.air-level.com/a2": {body: stationPage},
	}}
	c, _ := newTestCrawler(t, f, WithCityLimit(1))

	result, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, result.Cities())
	assert.Len(t, f.calls, 2)
}

func TestRunLandingPageFailure(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{}}
	c, rep := newTestCrawler(t, f)

	result, err := c.Run(context.Background())
	assert.ErrorIs(t, err, ErrLandingPage)
	assert.Equal(t, 0, result.Len())
	assert.Equal(t, []int{1}, rep.phases)
}

func TestRunNoCities(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{
		"https://www.air-level.com": {body: `<html><body>空</body></html>`},
	}}
	c, _ := newTestCrawler(t, f)

	_, err := c.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoCities)
}

func TestCrawlStationsCanceled(t *testing.T) {
	f := &fakeFetcher{pages: map[string]page{}}
	c, _ := newTestCrawler(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := c.CrawlStations(ctx, []airlevel.City{{Name: "A", URL: "/a"}})
	assert.Equal(t, 0, result.Len())
	assert.Empty(t, f.calls)
}

func TestResolve(t *testing.T) {
	c, _ := newTestCrawler(t, &fakeFetcher{}, WithBaseURL("https://www.air-level.com/index/"))

	u, err := c.Resolve("/air/beijing")
	require.NoError(t, err)
	assert.Equal(t, "https://www.air-level.com/air/beijing", u)

	u, err = c.Resolve("/https://other")
	require.NoError(t, err)
	assert.Equal(t, "https://www.air-level.com/https://other", u)
}

func TestNewCrawlerRequiresFetcher(t *testing.T) {
	_, err := NewCrawler()
	assert.ErrorIs(t, err, ErrNoFetcher)
}
