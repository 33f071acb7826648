package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sponsorscope/contact-scraper/config"
	"github.com/sponsorscope/contact-scraper/crawler"
	"github.com/sponsorscope/contact-scraper/monitoring"
	"github.com/sponsorscope/contact-scraper/web"
)

func main() {
	// Local development convenience; in production configuration comes from
	// the environment.
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "contact-scraper",
		Usage: "discover sponsor contact emails on company websites",
		Commands: []*cli.Command{
			serveCommand(),
			crawlCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP extraction API",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			metrics := monitoring.New()

			c := crawler.New(crawlerOptions(cfg, logger, metrics)...)

			srv := web.New(c, cfg.ServerAddr, logger)

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("listening", zap.String("addr", cfg.ServerAddr))

			return srv.Start(ctx)
		},
	}
}

func crawlCommand() *cli.Command {
	return &cli.Command{
		Name:      "crawl",
		Usage:     "run one extraction batch and print JSON results to stdout",
		ArgsUsage: "domain [domain ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "strict",
				Value: true,
				Usage: "return no contacts rather than non-domain-matching ones",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "override the configured crawl concurrency",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			domains := cmd.Args().Slice()
			if len(domains) == 0 {
				return fmt.Errorf("no domains given")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts := crawlerOptions(cfg, logger, nil)
			if n := int(cmd.Int("concurrency")); n > 0 {
				opts = append(opts, crawler.WithConcurrency(n))
			}

			c := crawler.New(opts...)

			results := c.Crawl(ctx, crawler.Request{
				Domains:           domains,
				StrictDomainMatch: cmd.Bool("strict"),
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(results)
		},
	}
}

func crawlerOptions(cfg *config.Config, logger *zap.Logger, metrics *monitoring.Metrics) []crawler.Option {
	opts := []crawler.Option{
		crawler.WithLogger(logger),
		crawler.WithConcurrency(cfg.CrawlConcurrency),
		crawler.WithMaxContactPages(cfg.MaxContactPages),
		crawler.WithTimeouts(
			time.Duration(cfg.HomepageTimeoutSecs)*time.Second,
			time.Duration(cfg.SubpageTimeoutSecs)*time.Second,
		),
		crawler.WithSubpageDelay(time.Duration(cfg.SubpageDelayMillis) * time.Millisecond),
	}

	if metrics != nil {
		opts = append(opts, crawler.WithMetrics(metrics))
	}

	return opts
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}
