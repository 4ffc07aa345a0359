package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-proxy/internal/config"
	"github.com/fleshka4/swap-proxy/internal/infra/aggregator"
	"github.com/fleshka4/swap-proxy/internal/infra/node"
	"github.com/fleshka4/swap-proxy/internal/infra/subgraph"
	"github.com/fleshka4/swap-proxy/internal/metrics"
	"github.com/fleshka4/swap-proxy/internal/news"
	"github.com/fleshka4/swap-proxy/internal/service"
	transport "github.com/fleshka4/swap-proxy/internal/transport/http"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "cfg/config.yaml"
	}

	var configPath string
	cmd := &cobra.Command{
		Use:           "swap-proxy",
		Short:         "Swap quote and transaction proxy in front of a DEX aggregator",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultPath, "path to the YAML config file")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "config.Load")
	}

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "newLogger")
	}
	defer func() { _ = log.Sync() }()

	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	m := metrics.New()

	var oracle service.GasOracle
	if cfg.Node.RPCURL != "" {
		gasOracle, err := node.NewGasOracle(cfg.Node.RPCURL, cfg.Node.Timeout, log, m)
		if err != nil {
			return errors.Wrap(err, "node.NewGasOracle")
		}
		oracle = gasOracle
	}

	svc := service.NewSwapService(
		aggregator.NewClient(cfg.Aggregator, log, m),
		oracle,
		service.NewParamsConfig(cfg),
		log,
		m,
	)

	deps := transport.Deps{
		Service: svc,
		Logger:  log,
		Metrics: m,
	}
	if cfg.Subgraph.URL != "" {
		deps.Pools = subgraph.NewClient(cfg.Subgraph, log.Named("subgraph"), m)
	}

	headlines := news.NewAggregator(cfg.News, log.Named("news"), m)
	if err := headlines.Start(ctx); err != nil {
		return errors.Wrap(err, "headlines.Start")
	}
	defer headlines.Stop()
	deps.News = headlines

	if err := transport.NewServer(deps, cfg).Run(ctx, cfg.ListenAddr); err != nil {
		return errors.Wrap(err, "server.Run")
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "zap.ParseAtomicLevel")
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
