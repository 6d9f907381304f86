package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "env: production\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3020, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.APIURL)
	assert.Equal(t, 5*time.Minute, cfg.GistCacheTTL())
	assert.Equal(t, "https://node2.bundlr.network", cfg.Arweave.NodeURL)
	assert.Equal(t, "https://arweave.net", cfg.Arweave.GatewayURL)
	assert.Equal(t, "matic", cfg.Arweave.Currency)
	assert.Equal(t, int64(137), cfg.Chain.ChainID)
}

func TestLoadNestedSections(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: development
redis:
  host: redis.internal
  port: 6380
  db: 2
github:
  token: ghp_test
  cache_ttl_seconds: 60
arweave:
  node_url: https://node1.bundlr.network/
  private_key: deadbeef
chain:
  rpc_url: https://polygon-rpc.com
  contract_address: "0x00000000000000000000000000000000000000ff"
  account: "0x0000000000000000000000000000000000000001"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "redis://redis.internal:6380/2", cfg.RedisURL)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, time.Minute, cfg.GistCacheTTL())
	assert.Equal(t, "https://node1.bundlr.network", cfg.Arweave.NodeURL)
	assert.Equal(t, "deadbeef", cfg.Arweave.PrivateKey)
	assert.Equal(t, "https://polygon-rpc.com", cfg.Chain.RPCURL)
	assert.Equal(t, "0x00000000000000000000000000000000000000ff", cfg.Chain.ContractAddress)
}

func TestLoadFlatAliases(t *testing.T) {
	path := writeConfig(t, `
node_env: production
redis_host: cache.internal
redis_port: 6379
github_token: ghp_alias
bundlr_private_key: cafebabe
contract_address: "0x1111111111111111111111111111111111111111"
chain_rpc_url: https://rpc.ankr.com/polygon
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.IsDev())
	assert.Equal(t, "redis://cache.internal:6379/0", cfg.RedisURL)
	assert.Equal(t, "ghp_alias", cfg.GitHub.Token)
	assert.Equal(t, "cafebabe", cfg.Arweave.PrivateKey)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", cfg.Chain.ContractAddress)
	assert.Equal(t, "https://rpc.ankr.com/polygon", cfg.Chain.RPCURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad port":     "port: 70000\n",
		"bad redis db": "redis:\n  db: -1\n",
		"bad chain id": "chain:\n  chain_id: 0\n",
		"bad contract": "chain:\n  contract_address: nothex\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
