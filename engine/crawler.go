package engine

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/dreamerjackson/aircrawler/parse/airlevel"
	"go.uber.org/zap"
)

var (
	ErrNoFetcher   = errors.New("no fetcher configured")
	ErrLandingPage = errors.New("fetch landing page failed")
	ErrNoCities    = errors.New("no city found on landing page")
	ErrNoStations  = errors.New("no station found on city page")
)

// Crawler runs the two phases: cities from the landing page, then the
// stations of every city. Requests are issued one after another.
type Crawler struct {
	base *url.URL
	options
}

func NewCrawler(opts ...Option) (*Crawler, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	if options.Fetcher == nil {
		return nil, ErrNoFetcher
	}

	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	if options.Reporter == nil {
		options.Reporter = nopReporter{}
	}

	base, err := url.Parse(options.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", options.BaseURL, err)
	}

	return &Crawler{base: base, options: options}, nil
}

// Run discovers the cities and crawls their stations. Phase two is skipped
// when phase one fails.
func (c *Crawler) Run(ctx context.Context) (*Result, error) {
	cities, err := c.DiscoverCities(ctx)
	if err != nil {
		return NewResult(), err
	}

	return c.CrawlStations(ctx, cities), ctx.Err()
}

// DiscoverCities fetches the landing page and extracts the city list.
func (c *Crawler) DiscoverCities(ctx context.Context) ([]airlevel.City, error) {
	c.Reporter.Phase(1, c.Identity)

	landing := c.base.String()
	body, err := c.Fetcher.Get(ctx, landing)
	if err != nil {
		c.Logger.Error("fetch landing page failed", zap.String("url", landing), zap.Error(err))
		c.Reporter.Failure("获取首页失败")

		return nil, fmt.Errorf("%w: %v", ErrLandingPage, err)
	}

	cities, err := airlevel.ExtractCities(body)
	if err != nil {
		c.Logger.Error("parse city list failed", zap.Error(err))
	}

	if len(cities) == 0 {
		c.Logger.Warn("empty city list", zap.String("url", landing))
		c.Reporter.Failure("未能爬取到城市数据")

		return nil, ErrNoCities
	}

	urls := make([]string, 0, len(cities))
	for _, city := range cities {
		u, err := c.Resolve(city.URL)
		if err != nil {
			urls = append(urls, city.URL)
			continue
		}
		urls = append(urls, u)
	}

	c.Logger.Info("cities discovered", zap.Int("count", len(cities)))
	c.Reporter.Cities(cities, urls)

	return cities, nil
}

// CrawlStations visits every city in order. A city whose page can't be
// fetched or yields no station is left out of the result.
func (c *Crawler) CrawlStations(ctx context.Context, cities []airlevel.City) *Result {
	c.Reporter.Phase(2, c.Identity)

	result := NewResult()
	if len(cities) == 0 {
		c.Reporter.Failure("没有城市数据可爬取")

		return result
	}

	if c.CityLimit > 0 && c.CityLimit < len(cities) {
		cities = cities[:c.CityLimit]
	}

	for i, city := range cities {
		if ctx.Err() != nil {
			c.Logger.Warn("crawl interrupted", zap.Int("done", i), zap.Int("total", len(cities)))

			break
		}

		records, err := c.crawlCity(ctx, i, len(cities), city)
		if err != nil {
			c.Logger.Warn("skip city", zap.String("city", city.Name), zap.Error(err))

			continue
		}

		result.Add(city.Name, records)
		c.Reporter.Stations(city.Name, records)
	}

	c.Logger.Info("stations crawled",
		zap.Int("cities", result.Len()),
		zap.Int("stations", result.StationCount()),
	)

	return result
}

func (c *Crawler) crawlCity(ctx context.Context, i, total int, city airlevel.City) ([]*airlevel.Record, error) {
	u, err := c.Resolve(city.URL)
	if err != nil {
		c.Reporter.Skip(city.Name, "链接无效")

		return nil, err
	}

	c.Reporter.CityStart(i+1, total, city, u)

	body, err := c.Fetcher.Get(ctx, u)
	if err != nil {
		c.Reporter.Skip(city.Name, "获取页面失败")

		return nil, err
	}

	records, err := airlevel.ExtractStations(body)
	if len(records) == 0 {
		c.Reporter.Skip(city.Name, "未能解析到监测站数据")

		if err == nil {
			err = ErrNoStations
		}

		return nil, err
	}

	return records, nil
}

// Resolve joins path onto the base URL. A path starting with "/" replaces
// the base path.
func (c *Crawler) Resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse city path %q: %w", path, err)
	}

	return c.base.ResolveReference(ref).String(), nil
}
