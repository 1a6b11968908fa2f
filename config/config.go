package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dreamerjackson/aircrawler/engine"
	"github.com/dreamerjackson/aircrawler/limiter"
	"github.com/go-micro/plugins/v4/config/encoder/toml"
	microcfg "go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/file"
)

type Config struct {
	BaseURL   string
	LogLevel  string
	LogFile   string
	CityLimit int
	Identity  engine.Identity
	Fetcher   FetcherConfig
	Limits    []limiter.LimitConfig
}

type FetcherConfig struct {
	Timeout       time.Duration
	MaxRetries    int
	BaseDelay     time.Duration
	JitterMin     time.Duration
	JitterMax     time.Duration
	Proxy         []string
	DetectCharset bool
}

func Default() Config {
	return Config{
		BaseURL:  engine.DefaultBaseURL,
		LogLevel: "INFO",
		Identity: engine.DefaultIdentity,
		Fetcher: FetcherConfig{
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			BaseDelay:  time.Second,
			JitterMin:  500 * time.Millisecond,
			JitterMax:  1500 * time.Millisecond,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error: the crawler runs on defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return c, nil
	}

	enc := toml.NewEncoder()
	cfg, err := microcfg.NewConfig(microcfg.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return c, fmt.Errorf("new config: %w", err)
	}
	defer cfg.Close()

	err = cfg.Load(file.NewSource(
		file.WithPath(path),
		source.WithEncoder(enc),
	))
	if err != nil {
		return c, fmt.Errorf("load config %s: %w", path, err)
	}

	c.BaseURL = cfg.Get("baseURL").String(c.BaseURL)
	c.LogLevel = cfg.Get("logLevel").String(c.LogLevel)
	c.LogFile = cfg.Get("logFile").String(c.LogFile)
	c.CityLimit = cfg.Get("cityLimit").Int(c.CityLimit)

	c.Identity.ClassName = cfg.Get("identity", "className").String(c.Identity.ClassName)
	c.Identity.Name = cfg.Get("identity", "name").String(c.Identity.Name)
	c.Identity.ID = cfg.Get("identity", "id").String(c.Identity.ID)

	f := &c.Fetcher
	f.Timeout = millis(cfg.Get("fetcher", "timeout").Int(ms(f.Timeout)))
	f.MaxRetries = cfg.Get("fetcher", "maxRetries").Int(f.MaxRetries)
	f.BaseDelay = millis(cfg.Get("fetcher", "backoff").Int(ms(f.BaseDelay)))
	f.JitterMin = millis(cfg.Get("fetcher", "jitterMin").Int(ms(f.JitterMin)))
	f.JitterMax = millis(cfg.Get("fetcher", "jitterMax").Int(ms(f.JitterMax)))
	f.Proxy = cfg.Get("fetcher", "proxy").StringSlice(f.Proxy)
	f.DetectCharset = cfg.Get("fetcher", "detectCharset").Bool(f.DetectCharset)

	if err := cfg.Get("limits").Scan(&c.Limits); err != nil {
		return c, fmt.Errorf("scan limits: %w", err)
	}

	return c, nil
}

func ms(d time.Duration) int {
	return int(d / time.Millisecond)
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
