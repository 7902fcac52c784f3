package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bybitconn/pkg/bybit"
	"bybitconn/pkg/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bybitctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, core.ContractLinear, cfg.REST.ContractType)
	assert.Equal(t, 5000, cfg.REST.RecvWindow)
	assert.Equal(t, bybit.LinearPublicWSURL, cfg.Stream.Endpoint)
	assert.Equal(t, 20*time.Second, cfg.Stream.PingInterval)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "DEBUG"
file = "bybitctl.log"

[rest]
contract_type = "inverse"
testnet = true
timeout = "3s"
recv_window = 10000
ignore_codes = [30034, 130035]

[stream]
endpoint = "wss://stream.bybit.com/realtime"
topics = ["trade.BTCUSD", "orderBookL2_25.BTCUSD"]
ping_interval = "15s"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 50, cfg.Log.MaxSizeMB)
	assert.Equal(t, core.ContractInverse, cfg.REST.ContractType)
	assert.Equal(t, core.TestnetURL, cfg.REST.BaseURL())
	assert.Equal(t, 3*time.Second, cfg.REST.Timeout)
	assert.Equal(t, 10000, cfg.REST.RecvWindow)
	assert.Equal(t, 10, cfg.REST.MaxInParallel)
	assert.Equal(t, []int{30034, 130035}, cfg.REST.IgnoreCodes)
	assert.Equal(t, []string{"trade.BTCUSD", "orderBookL2_25.BTCUSD"}, cfg.Stream.Topics)
	assert.Equal(t, 15*time.Second, cfg.Stream.PingInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad_level", "[log]\nlevel = \"loud\"\n"},
		{"bad_contract", "[rest]\ncontract_type = \"options\"\n"},
		{"zero_recv_window", "[rest]\nrecv_window = 0\n"},
		{"topics_without_endpoint", "[stream]\nendpoint = \"\"\ntopics = [\"trade.BTCUSD\"]\n"},
		{"not_toml", "this is = = not toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(envAPIKey, "key")
	t.Setenv(envAPISecret, "")
	assert.Nil(t, credentialsFromEnv())

	t.Setenv(envAPISecret, "secret")
	creds := credentialsFromEnv()
	require.NotNil(t, creds)
	assert.Equal(t, "key", creds.APIKey)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("short"))
	assert.Equal(t, "abcd****mnop", maskKey("abcdefghijklmnop"))
}
