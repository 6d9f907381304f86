package config

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int                `yaml:"port"`
	Env            string             `yaml:"env"` // "development" | "production"
	RedisURL       string             `yaml:"redis_url"`
	Redis          RedisRuntimeConfig `yaml:"redis"`
	AllowedOrigins []string           `yaml:"allowed_origins"`
	GitHub         GitHubConfig       `yaml:"github"`
	Arweave        ArweaveConfig      `yaml:"arweave"`
	Chain          ChainConfig        `yaml:"chain"`
}

type RedisRuntimeConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       int               `yaml:"db"`
	TLS      bool              `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

// GitHubConfig controls the gist fetch upstream.
type GitHubConfig struct {
	APIURL          string `yaml:"api_url"`
	Token           string `yaml:"token"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// ArweaveConfig controls the Bundlr upload path. PrivateKey is the hex-encoded
// MATIC signing key; PrivateKeyFile takes precedence when both are set.
type ArweaveConfig struct {
	NodeURL        string `yaml:"node_url"`
	GatewayURL     string `yaml:"gateway_url"`
	Currency       string `yaml:"currency"`
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyFile string `yaml:"private_key_file"`
}

// ChainConfig identifies the single supported mint target.
type ChainConfig struct {
	RPCURL          string `yaml:"rpc_url"`
	ChainID         int64  `yaml:"chain_id"`
	ContractAddress string `yaml:"contract_address"`
	Account         string `yaml:"account"`
}

type rawAppConfig struct {
	Port               int              `yaml:"port"`
	Env                string           `yaml:"env"`
	NodeEnv            string           `yaml:"node_env"`
	RedisURL           string           `yaml:"redis_url"`
	Redis              rawRedisConfig   `yaml:"redis"`
	RedisHost          string           `yaml:"redis_host"`
	RedisPort          int              `yaml:"redis_port"`
	RedisUsername      string           `yaml:"redis_username"`
	RedisPassword      string           `yaml:"redis_password"`
	RedisDB            *int             `yaml:"redis_db"`
	RedisTLS           *bool            `yaml:"redis_tls"`
	AllowedOrigins     []string         `yaml:"allowed_origins"`
	CORSAllowedOrigins []string         `yaml:"cors_allowed_origins"`
	GitHub             rawGitHubConfig  `yaml:"github"`
	GitHubToken        string           `yaml:"github_token"`
	Arweave            rawArweaveConfig `yaml:"arweave"`
	Bundlr             rawArweaveConfig `yaml:"bundlr"`
	BundlrPrivateKey   string           `yaml:"bundlr_private_key"`
	Chain              rawChainConfig   `yaml:"chain"`
	ContractAddress    string           `yaml:"contract_address"`
	ChainRPCURL        string           `yaml:"chain_rpc_url"`
}

type rawRedisConfig struct {
	URL      string            `yaml:"url"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	DB       *int              `yaml:"db"`
	TLS      *bool             `yaml:"tls"`
	Scheme   string            `yaml:"scheme"`
	Params   map[string]string `yaml:"params"`
}

type rawGitHubConfig struct {
	APIURL          string `yaml:"api_url"`
	URL             string `yaml:"url"`
	Token           string `yaml:"token"`
	CacheTTLSeconds *int   `yaml:"cache_ttl_seconds"`
	CacheTTL        *int   `yaml:"cache_ttl"`
}

type rawArweaveConfig struct {
	NodeURL        string `yaml:"node_url"`
	URL            string `yaml:"url"`
	GatewayURL     string `yaml:"gateway_url"`
	Gateway        string `yaml:"gateway"`
	Currency       string `yaml:"currency"`
	PrivateKey     string `yaml:"private_key"`
	PrivateKeyFile string `yaml:"private_key_file"`
	KeyFile        string `yaml:"key_file"`
}

type rawChainConfig struct {
	RPCURL          string `yaml:"rpc_url"`
	URL             string `yaml:"url"`
	ChainID         *int64 `yaml:"chain_id"`
	ID              *int64 `yaml:"id"`
	ContractAddress string `yaml:"contract_address"`
	Contract        string `yaml:"contract"`
	Account         string `yaml:"account"`
	From            string `yaml:"from"`
}
