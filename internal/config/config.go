package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort           = 3020
	defaultEnv            = "development"
	defaultRedisHost      = "localhost"
	defaultRedisPort      = 6379
	defaultRedisDB        = 0
	defaultGitHubAPIURL   = "https://api.github.com"
	defaultGistCacheTTL   = 300 // seconds
	defaultBundlrNodeURL  = "https://node2.bundlr.network"
	defaultArweaveGateway = "https://arweave.net"
	defaultBundlrCurrency = "matic"
	defaultChainID        = 137 // Polygon mainnet
)

func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	cfg := defaultAppConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	raw := rawAppConfig{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	applyRawAppConfig(&cfg, raw)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return &cfg, nil
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Port: defaultPort,
		Env:  defaultEnv,
		Redis: RedisRuntimeConfig{
			Host: defaultRedisHost,
			Port: defaultRedisPort,
			DB:   defaultRedisDB,
		},
		GitHub: GitHubConfig{
			APIURL:          defaultGitHubAPIURL,
			CacheTTLSeconds: defaultGistCacheTTL,
		},
		Arweave: ArweaveConfig{
			NodeURL:    defaultBundlrNodeURL,
			GatewayURL: defaultArweaveGateway,
			Currency:   defaultBundlrCurrency,
		},
		Chain: ChainConfig{
			ChainID: defaultChainID,
		},
	}
}

func (c *AppConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d, expected 1-65535", c.Port)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("invalid redis.port %d, expected 1-65535", c.Redis.Port)
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("invalid redis.db %d, expected >= 0", c.Redis.DB)
	}
	if c.GitHub.CacheTTLSeconds < 0 {
		return fmt.Errorf("invalid github.cache_ttl_seconds %d, expected >= 0", c.GitHub.CacheTTLSeconds)
	}
	if c.Chain.ChainID <= 0 {
		return fmt.Errorf("invalid chain.chain_id %d, expected > 0", c.Chain.ChainID)
	}
	if addr := strings.TrimSpace(c.Chain.ContractAddress); addr != "" {
		if !isHexAddress(addr) {
			return fmt.Errorf("invalid chain.contract_address %q, expected 0x-prefixed 20-byte hex", addr)
		}
	}
	return nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development")
}

// GistCacheTTL returns the gist record freshness window.
func (c *AppConfig) GistCacheTTL() time.Duration {
	return time.Duration(c.GitHub.CacheTTLSeconds) * time.Second
}

func isHexAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	s = s[2:]
	if len(s) != 40 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
