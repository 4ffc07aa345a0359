package config

import (
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Slippage units accepted on the wire.
const (
	SlippageUnitFraction = "fraction"
	SlippageUnitBps      = "bps"
)

const (
	defaultSlippage    = 0.02
	defaultMaxSlippage = 0.2
)

// Config holds application configuration loaded from file and environment.
type Config struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	LogLevel          string        `yaml:"log_level"`
	CORSOrigins       []string      `yaml:"cors_origins"`

	Aggregator AggregatorConfig `yaml:"aggregator"`
	Fee        FeeConfig        `yaml:"fee"`
	Slippage   SlippageConfig   `yaml:"slippage"`
	Node       NodeConfig       `yaml:"node"`
	Subgraph   SubgraphConfig   `yaml:"subgraph"`
	News       NewsConfig       `yaml:"news"`
}

// AggregatorConfig describes the DEX aggregator upstream.
type AggregatorConfig struct {
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"`
	APIVersion        string        `yaml:"api_version"`
	PricePath         string        `yaml:"price_path"`
	QuotePath         string        `yaml:"quote_path"`
	ChainID           uint64        `yaml:"chain_id"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

// FeeConfig is the optional integrator fee attached to every quote.
type FeeConfig struct {
	Recipient             string `yaml:"recipient"`
	BuyTokenPercentageFee string `yaml:"buy_token_percentage_fee"`
}

// Enabled reports whether the fee should be forwarded upstream.
func (f FeeConfig) Enabled() bool {
	if f.Recipient == "" {
		return false
	}
	pct, err := decimal.NewFromString(f.BuyTokenPercentageFee)
	return err == nil && pct.IsPositive()
}

// SlippageConfig controls conversion of client slippage into basis points.
type SlippageConfig struct {
	Default float64 `yaml:"default"`
	Max     float64 `yaml:"max"`
	Unit    string  `yaml:"unit"`
}

// NodeConfig is the optional EVM JSON-RPC endpoint used for gas hints.
type NodeConfig struct {
	RPCURL  string        `yaml:"rpc_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SubgraphConfig is the optional GraphQL indexer behind /pools.
type SubgraphConfig struct {
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
	Timeout  time.Duration `yaml:"timeout"`
}

// NewsConfig lists RSS or Atom feeds behind /news.
type NewsConfig struct {
	Feeds           []string      `yaml:"feeds"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	MaxItems        int           `yaml:"max_items"`
	Timeout         time.Duration `yaml:"timeout"`
}

// Load reads the YAML file at path, when present, and overlays environment variables.
// A missing file is not an error: every setting has a default or is optional.
func Load(path string) (Config, error) {
	cfg := presetConfig()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer func() { _ = f.Close() }()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
				return Config{}, errors.Wrap(err, "decoder.Decode")
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, errors.Wrap(err, "os.Open")
		}
	}

	applyEnv(&cfg, newEnv())
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// presetConfig carries the defaults for fields where zero is a legitimate
// setting. The file is decoded on top of it, so only absent keys keep them.
func presetConfig() Config {
	return Config{
		Slippage: SlippageConfig{
			Default: defaultSlippage,
			Max:     defaultMaxSlippage,
		},
	}
}

func newEnv() *viper.Viper {
	v := viper.New()

	_ = v.BindEnv("listen_port", "PORT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("cors_origins", "CORS_ORIGINS")

	_ = v.BindEnv("aggregator.api_key", "ZEROEX_API_KEY", "API_KEY")
	_ = v.BindEnv("aggregator.base_url", "ZEROEX_API_URL", "API_BASE_URL")
	_ = v.BindEnv("aggregator.chain_id", "CHAIN_ID")

	_ = v.BindEnv("fee.recipient", "FEE_RECIPIENT")
	_ = v.BindEnv("fee.buy_token_percentage_fee", "BUY_TOKEN_PERCENTAGE_FEE")
	_ = v.BindEnv("slippage.unit", "SLIPPAGE_UNIT")

	_ = v.BindEnv("node.rpc_url", "RPC_URL", "NODE_RPC_URL")
	_ = v.BindEnv("subgraph.url", "SUBGRAPH_URL")
	_ = v.BindEnv("news.feeds", "NEWS_FEEDS")

	return v
}

func applyEnv(cfg *Config, v *viper.Viper) {
	if v.IsSet("listen_port") {
		cfg.ListenAddr = ":" + v.GetString("listen_port")
	}
	if v.IsSet("log_level") {
		cfg.LogLevel = v.GetString("log_level")
	}
	if v.IsSet("cors_origins") {
		cfg.CORSOrigins = splitList(v.GetString("cors_origins"))
	}
	if v.IsSet("aggregator.api_key") {
		cfg.Aggregator.APIKey = v.GetString("aggregator.api_key")
	}
	if v.IsSet("aggregator.base_url") {
		cfg.Aggregator.BaseURL = v.GetString("aggregator.base_url")
	}
	if v.IsSet("aggregator.chain_id") {
		cfg.Aggregator.ChainID = v.GetUint64("aggregator.chain_id")
	}
	if v.IsSet("fee.recipient") {
		cfg.Fee.Recipient = v.GetString("fee.recipient")
	}
	if v.IsSet("fee.buy_token_percentage_fee") {
		cfg.Fee.BuyTokenPercentageFee = v.GetString("fee.buy_token_percentage_fee")
	}
	if v.IsSet("slippage.unit") {
		cfg.Slippage.Unit = v.GetString("slippage.unit")
	}
	if v.IsSet("node.rpc_url") {
		cfg.Node.RPCURL = v.GetString("node.rpc_url")
	}
	if v.IsSet("subgraph.url") {
		cfg.Subgraph.URL = v.GetString("subgraph.url")
	}
	if v.IsSet("news.feeds") {
		cfg.News.Feeds = splitList(v.GetString("news.feeds"))
	}
}

func applyDefaults(cfg *Config) {
	const defaultTimeout = 5 * time.Second

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.GraceTimeout == 0 {
		cfg.GraceTimeout = defaultTimeout
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaultTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	a := &cfg.Aggregator
	if a.BaseURL == "" {
		a.BaseURL = "https://api.0x.org"
	}
	a.BaseURL = strings.TrimRight(a.BaseURL, "/")
	if a.APIVersion == "" {
		a.APIVersion = "v2"
	}
	if a.PricePath == "" {
		a.PricePath = "/swap/allowance-holder/price"
	}
	if a.QuotePath == "" {
		a.QuotePath = "/swap/allowance-holder/quote"
	}
	if a.ChainID == 0 {
		a.ChainID = 1
	}
	if a.Timeout == 0 {
		a.Timeout = 10 * time.Second
	}
	if a.RequestsPerSecond == 0 {
		a.RequestsPerSecond = 10
	}

	if cfg.Fee.BuyTokenPercentageFee == "" {
		cfg.Fee.BuyTokenPercentageFee = "0"
	}

	if cfg.Slippage.Unit == "" {
		cfg.Slippage.Unit = SlippageUnitFraction
	}

	if cfg.Node.Timeout == 0 {
		cfg.Node.Timeout = defaultTimeout
	}

	if cfg.Subgraph.CacheTTL == 0 {
		cfg.Subgraph.CacheTTL = time.Minute
	}
	if cfg.Subgraph.Timeout == 0 {
		cfg.Subgraph.Timeout = 10 * time.Second
	}

	if cfg.News.RefreshInterval == 0 {
		cfg.News.RefreshInterval = 10 * time.Minute
	}
	if cfg.News.MaxItems == 0 {
		cfg.News.MaxItems = 50
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = 10 * time.Second
	}
}

// Validate rejects settings that cannot work at all.
func (c *Config) Validate() error {
	if c.Fee.Recipient != "" && !common.IsHexAddress(c.Fee.Recipient) {
		return errors.Errorf("invalid fee.recipient: %s", c.Fee.Recipient)
	}
	pct, err := decimal.NewFromString(c.Fee.BuyTokenPercentageFee)
	if err != nil {
		return errors.Errorf("invalid fee.buy_token_percentage_fee: %s", c.Fee.BuyTokenPercentageFee)
	}
	if pct.IsNegative() || pct.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.Errorf("fee.buy_token_percentage_fee must be in [0, 1): %s", c.Fee.BuyTokenPercentageFee)
	}
	if c.Slippage.Unit != SlippageUnitFraction && c.Slippage.Unit != SlippageUnitBps {
		return errors.Errorf("slippage.unit must be %q or %q: %s", SlippageUnitFraction, SlippageUnitBps, c.Slippage.Unit)
	}
	if c.Slippage.Max < 0 || c.Slippage.Max > 1 {
		return errors.Errorf("slippage.max must be in [0, 1]: %v", c.Slippage.Max)
	}
	if c.News.MaxItems < 0 {
		return errors.Errorf("news.max_items cannot be negative: %d", c.News.MaxItems)
	}
	return nil
}

// Warnings lists optional features that are degraded by the current settings.
func (c *Config) Warnings() []string {
	var out []string
	if c.Aggregator.APIKey == "" {
		out = append(out, "aggregator api key is not set, upstream will likely reject requests")
	}
	if c.Node.RPCURL == "" {
		out = append(out, "node rpc url is not set, /swap responses will carry no gas or fee hints")
	}
	if c.Subgraph.URL == "" {
		out = append(out, "subgraph url is not set, /pools is disabled")
	}
	if len(c.News.Feeds) == 0 {
		out = append(out, "no news feeds configured, /news will be empty")
	}
	if c.Fee.Recipient != "" && !c.Fee.Enabled() {
		out = append(out, "fee recipient is set but buy token percentage fee is zero, no fee will be charged")
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
