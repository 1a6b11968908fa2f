package crawl

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dreamerjackson/aircrawler/collect"
	"github.com/dreamerjackson/aircrawler/config"
	"github.com/dreamerjackson/aircrawler/engine"
	"github.com/dreamerjackson/aircrawler/generator"
	"github.com/dreamerjackson/aircrawler/limiter"
	"github.com/dreamerjackson/aircrawler/log"
	"github.com/dreamerjackson/aircrawler/proxy"
	"github.com/dreamerjackson/aircrawler/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var CrawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "crawl every city and its monitoring stations.",
	Long:  "phase one lists the cities on the landing page, phase two reads the station table of each city.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		Run(cmd)
	},
}

var (
	configPath string
	logLevel   string
	logFile    string
	cityLimit  int
)

func init() {
	CrawlCmd.Flags().StringVar(
		&configPath, "config", "config.toml", "set config file, ignored when missing")

	CrawlCmd.Flags().StringVar(
		&logLevel, "log-level", "", "override log level")

	CrawlCmd.Flags().StringVar(
		&logFile, "log-file", "", "also write logs to this file")

	CrawlCmd.Flags().IntVar(
		&cityLimit, "limit", 0, "crawl at most this many cities in phase two, 0 for all")
}

func Run(cmd *cobra.Command) {
	printer := report.NewPrinter(os.Stdout)

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n程序执行过程中发生异常: %v\n", r)
		}
	}()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config failed:", err)
		return
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logFile
	}
	if cmd.Flags().Changed("limit") {
		cfg.CityLimit = cityLimit
	}

	logger, closer, err := log.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "init logger failed:", err)
		return
	}
	defer closer.Close()
	defer logger.Sync()

	if node, err := generator.NewNode(generator.LocalIP()); err == nil {
		logger = logger.With(zap.String("run", node.Generate().String()))
	}

	// set zap global logger
	zap.ReplaceGlobals(logger)

	f, err := NewFetcher(cfg.Fetcher, cfg.Limits, logger)
	if err != nil {
		logger.Error("create fetcher failed", zap.Error(err))
		return
	}

	crawler, err := engine.NewCrawler(
		engine.WithFetcher(f),
		engine.WithLogger(logger),
		engine.WithBaseURL(cfg.BaseURL),
		engine.WithIdentity(cfg.Identity),
		engine.WithReporter(printer),
		engine.WithCityLimit(cfg.CityLimit),
	)
	if err != nil {
		logger.Error("create crawler failed", zap.Error(err))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Start(1)
	cities, err := crawler.DiscoverCities(ctx)
	if err == nil {
		printer.Start(2)
		result := crawler.CrawlStations(ctx, cities)
		printer.Summary(result)
	}

	printer.Done(ctx.Err() != nil)
}

// NewFetcher wires the browser fetcher behind jitter pacing, the configured
// rate limits and the retry policy.
func NewFetcher(cfg config.FetcherConfig, limits []limiter.LimitConfig, logger *zap.Logger) (collect.Fetcher, error) {
	b := &collect.BrowserFetch{
		Timeout:       cfg.Timeout,
		DetectCharset: cfg.DetectCharset,
	}

	if len(cfg.Proxy) > 0 {
		p, err := proxy.RoundRobinProxySwitcher(cfg.Proxy...)
		if err != nil {
			return nil, err
		}
		b.Proxy = p
		logger.Info("proxy enabled", zap.Strings("proxy", cfg.Proxy))
	}

	pacers := append([]limiter.RateLimiter{limiter.NewJitter(cfg.JitterMin, cfg.JitterMax)}, limiter.FromConfig(limits)...)

	r := collect.NewRetryFetch(b, limiter.Multi(pacers...), logger.Named("fetch"))
	r.MaxRetries = cfg.MaxRetries
	r.BaseDelay = cfg.BaseDelay

	return r, nil
}
