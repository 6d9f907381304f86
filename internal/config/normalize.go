package config

import (
	"fmt"
	"net/url"
	"strings"
)

// applyRawAppConfig folds the raw YAML (including legacy flat aliases) into the
// normalized AppConfig. Nested sections win over flat aliases.
func applyRawAppConfig(cfg *AppConfig, raw rawAppConfig) {
	if raw.Port > 0 {
		cfg.Port = raw.Port
	}
	if env := firstNonEmpty(raw.Env, raw.NodeEnv); env != "" {
		cfg.Env = strings.ToLower(strings.TrimSpace(env))
	}

	applyRawRedis(cfg, raw)

	if len(raw.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = raw.AllowedOrigins
	} else if len(raw.CORSAllowedOrigins) > 0 {
		cfg.AllowedOrigins = raw.CORSAllowedOrigins
	}

	applyRawGitHub(&cfg.GitHub, raw)
	applyRawArweave(&cfg.Arweave, raw)
	applyRawChain(&cfg.Chain, raw)
}

func applyRawRedis(cfg *AppConfig, raw rawAppConfig) {
	r := &cfg.Redis
	if raw.Redis.Host != "" {
		r.Host = raw.Redis.Host
	} else if raw.RedisHost != "" {
		r.Host = raw.RedisHost
	}
	if raw.Redis.Port > 0 {
		r.Port = raw.Redis.Port
	} else if raw.RedisPort > 0 {
		r.Port = raw.RedisPort
	}
	r.Username = firstNonEmpty(raw.Redis.Username, raw.RedisUsername)
	r.Password = firstNonEmpty(raw.Redis.Password, raw.RedisPassword)
	if raw.Redis.DB != nil {
		r.DB = *raw.Redis.DB
	} else if raw.RedisDB != nil {
		r.DB = *raw.RedisDB
	}
	if raw.Redis.TLS != nil {
		r.TLS = *raw.Redis.TLS
	} else if raw.RedisTLS != nil {
		r.TLS = *raw.RedisTLS
	}
	if raw.Redis.Scheme != "" {
		r.Scheme = raw.Redis.Scheme
	}
	if len(raw.Redis.Params) > 0 {
		r.Params = raw.Redis.Params
	}
	r.URL = firstNonEmpty(raw.Redis.URL, raw.RedisURL)

	cfg.RedisURL = buildRedisURL(*r)
}

func applyRawGitHub(gh *GitHubConfig, raw rawAppConfig) {
	if u := firstNonEmpty(raw.GitHub.APIURL, raw.GitHub.URL); u != "" {
		gh.APIURL = strings.TrimRight(u, "/")
	}
	gh.Token = firstNonEmpty(raw.GitHub.Token, raw.GitHubToken, gh.Token)
	if raw.GitHub.CacheTTLSeconds != nil {
		gh.CacheTTLSeconds = *raw.GitHub.CacheTTLSeconds
	} else if raw.GitHub.CacheTTL != nil {
		gh.CacheTTLSeconds = *raw.GitHub.CacheTTL
	}
}

func applyRawArweave(ar *ArweaveConfig, raw rawAppConfig) {
	// "bundlr:" is accepted as a section alias for "arweave:".
	for _, section := range []rawArweaveConfig{raw.Bundlr, raw.Arweave} {
		if u := firstNonEmpty(section.NodeURL, section.URL); u != "" {
			ar.NodeURL = strings.TrimRight(u, "/")
		}
		if g := firstNonEmpty(section.GatewayURL, section.Gateway); g != "" {
			ar.GatewayURL = strings.TrimRight(g, "/")
		}
		if section.Currency != "" {
			ar.Currency = section.Currency
		}
		if section.PrivateKey != "" {
			ar.PrivateKey = section.PrivateKey
		}
		if f := firstNonEmpty(section.PrivateKeyFile, section.KeyFile); f != "" {
			ar.PrivateKeyFile = f
		}
	}
	if raw.BundlrPrivateKey != "" {
		ar.PrivateKey = raw.BundlrPrivateKey
	}
}

func applyRawChain(ch *ChainConfig, raw rawAppConfig) {
	if u := firstNonEmpty(raw.Chain.RPCURL, raw.Chain.URL, raw.ChainRPCURL); u != "" {
		ch.RPCURL = u
	}
	if raw.Chain.ChainID != nil {
		ch.ChainID = *raw.Chain.ChainID
	} else if raw.Chain.ID != nil {
		ch.ChainID = *raw.Chain.ID
	}
	if a := firstNonEmpty(raw.Chain.ContractAddress, raw.Chain.Contract, raw.ContractAddress); a != "" {
		ch.ContractAddress = a
	}
	if acct := firstNonEmpty(raw.Chain.Account, raw.Chain.From); acct != "" {
		ch.Account = acct
	}
}

func buildRedisURL(r RedisRuntimeConfig) string {
	if u := strings.TrimSpace(r.URL); u != "" {
		return u
	}
	scheme := r.Scheme
	if scheme == "" {
		if r.TLS {
			scheme = "rediss"
		} else {
			scheme = "redis"
		}
	}
	u := url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", r.Host, r.Port),
		Path:   fmt.Sprintf("/%d", r.DB),
	}
	if r.Username != "" || r.Password != "" {
		u.User = url.UserPassword(r.Username, r.Password)
	}
	if len(r.Params) > 0 {
		q := url.Values{}
		for k, v := range r.Params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
