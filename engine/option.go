package engine

import (
	"github.com/dreamerjackson/aircrawler/collect"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://www.air-level.com"

// Identity is shown in the phase banners and nowhere else.
type Identity struct {
	ClassName string
	Name      string
	ID        string
}

var DefaultIdentity = Identity{
	ClassName: "班级",
	Name:      "姓名",
	ID:        "学号",
}

type Option func(opts *options)

type options struct {
	Fetcher   collect.Fetcher
	Logger    *zap.Logger
	BaseURL   string
	Identity  Identity
	Reporter  Reporter
	CityLimit int
}

var defaultOptions = options{
	Logger:   zap.NewNop(),
	BaseURL:  DefaultBaseURL,
	Identity: DefaultIdentity,
	Reporter: nopReporter{},
}

func WithFetcher(fetcher collect.Fetcher) Option {
	return func(opts *options) {
		opts.Fetcher = fetcher
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.Logger = logger
	}
}

func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.BaseURL = baseURL
	}
}

func WithIdentity(id Identity) Option {
	return func(opts *options) {
		opts.Identity = id
	}
}

func WithReporter(r Reporter) Option {
	return func(opts *options) {
		opts.Reporter = r
	}
}

// WithCityLimit caps how many cities phase two visits. 0 visits all of them.
func WithCityLimit(n int) Option {
	return func(opts *options) {
		opts.CityLimit = n
	}
}
