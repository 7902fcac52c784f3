package core

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
)

// Exchange is the venue name stamped on every Error.
const Exchange = "bybit"

// REST base URLs.
const (
	MainnetURL = "https://api.bybit.com"
	TestnetURL = "https://api-testnet.bybit.com"
)

// Credentials holds API authentication credentials.
type Credentials struct {
	// APIKey is the public API key identifier.
	APIKey string `json:"api_key" toml:"api_key"`
	// SecretKey is the private key used for signing requests.
	SecretKey string `json:"secret_key" toml:"secret_key"`
}

// Valid reports whether both halves of the key pair are present.
func (c *Credentials) Valid() bool {
	return c != nil && c.APIKey != "" && c.SecretKey != ""
}

// Config contains all configuration options for a REST session.
// It includes authentication, networking, client-side throttling and circuit breaker settings.
type Config struct {
	// Endpoint overrides the base URL. When empty the mainnet or testnet URL is used.
	Endpoint     string       `json:"endpoint" toml:"endpoint" validate:"omitempty,url"`
	Testnet      bool         `json:"testnet" toml:"testnet"`
	ContractType ContractType `json:"contract_type" toml:"contract_type" validate:"omitempty,oneof=linear inverse futures spot"`
	Credentials  *Credentials `json:"credentials,omitempty" toml:"credentials"`

	// Timeout is the maximum duration for a single HTTP request.
	Timeout time.Duration `json:"timeout" toml:"timeout" validate:"min=1ms"`
	// RecvWindow is the signed request validity window in milliseconds.
	RecvWindow int `json:"recv_window" toml:"recv_window" validate:"min=1"`
	// MaxInParallel bounds concurrent calls made by bulk operations.
	MaxInParallel int `json:"max_in_parallel" toml:"max_in_parallel" validate:"min=1"`
	// IgnoreCodes lists ret_codes that are returned as successful responses.
	IgnoreCodes []int  `json:"ignore_codes,omitempty" toml:"ignore_codes"`
	Referer     string `json:"referer,omitempty" toml:"referer"`
	LogRequests bool   `json:"log_requests" toml:"log_requests"`

	RateLimitEnabled  bool          `json:"rate_limit_enabled" toml:"rate_limit_enabled"`
	RateLimitRequests int           `json:"rate_limit_requests" toml:"rate_limit_requests" validate:"min=0"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" toml:"rate_limit_period" validate:"min=0"`

	// RateLimitPrivateRequests overrides the budget of signed endpoints. Zero shares RateLimitRequests.
	RateLimitPrivateRequests int `json:"rate_limit_private_requests,omitempty" toml:"rate_limit_private_requests" validate:"min=0"`

	CircuitBreakerEnabled          bool          `json:"circuit_breaker_enabled" toml:"circuit_breaker_enabled"`
	CircuitBreakerFailThreshold    int           `json:"circuit_breaker_fail_threshold" toml:"circuit_breaker_fail_threshold"`
	CircuitBreakerSuccessThreshold int           `json:"circuit_breaker_success_threshold" toml:"circuit_breaker_success_threshold"`
	CircuitBreakerTimeout          time.Duration `json:"circuit_breaker_timeout" toml:"circuit_breaker_timeout"`

	LogLevel string `json:"log_level" toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns a Config initialized with sensible defaults for the given contract type.
// Default values: 10s timeout, 5000ms recv window, 10 parallel bulk calls, throttling off
// (50 req/s when enabled), circuit breaker off (5 failures/2 successes/30s when enabled).
func DefaultConfig(contract ContractType) *Config {
	return &Config{
		ContractType:  contract,
		Timeout:       10 * time.Second,
		RecvWindow:    5000,
		MaxInParallel: 10,

		RateLimitRequests: 50,
		RateLimitPeriod:   time.Second,

		CircuitBreakerFailThreshold:    5,
		CircuitBreakerSuccessThreshold: 2,
		CircuitBreakerTimeout:          30 * time.Second,

		LogLevel: "info",
	}
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.RateLimitEnabled {
		if c.RateLimitRequests <= 0 {
			return errors.New("RateLimitRequests must be positive when enabled")
		}
		if c.RateLimitPeriod <= 0 {
			return errors.New("RateLimitPeriod must be positive when enabled")
		}
	}
	if c.CircuitBreakerEnabled {
		if c.CircuitBreakerFailThreshold <= 0 {
			return errors.New("CircuitBreakerFailThreshold must be positive when enabled")
		}
		if c.CircuitBreakerSuccessThreshold <= 0 {
			return errors.New("CircuitBreakerSuccessThreshold must be positive when enabled")
		}
		if c.CircuitBreakerTimeout <= 0 {
			return errors.New("CircuitBreakerTimeout must be positive when enabled")
		}
	}
	return nil
}

// BaseURL returns the configured endpoint, or the mainnet/testnet URL.
func (c *Config) BaseURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.Testnet {
		return TestnetURL
	}
	return MainnetURL
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(apiKey, secretKey string) *Config {
	c.Credentials = &Credentials{APIKey: apiKey, SecretKey: secretKey}
	return c
}

// WithEndpoint sets an explicit base URL and returns the config for chaining.
func (c *Config) WithEndpoint(endpoint string) *Config {
	c.Endpoint = endpoint
	return c
}

// WithTestnet enables or disables the testnet URL and returns the config for chaining.
func (c *Config) WithTestnet(testnet bool) *Config {
	c.Testnet = testnet
	return c
}

// WithTimeout sets the request timeout and returns the config for chaining.
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithRecvWindow sets the signed request validity window and returns the config for chaining.
func (c *Config) WithRecvWindow(ms int) *Config {
	c.RecvWindow = ms
	return c
}

// WithRateLimit enables client-side throttling and returns the config for chaining.
func (c *Config) WithRateLimit(requests int, period time.Duration) *Config {
	c.RateLimitEnabled = true
	c.RateLimitRequests = requests
	c.RateLimitPeriod = period
	return c
}

// WithPrivateRateLimit sets a separate per-period budget for signed endpoints and returns
// the config for chaining. Throttling must be enabled with WithRateLimit for it to apply.
func (c *Config) WithPrivateRateLimit(requests int) *Config {
	c.RateLimitPrivateRequests = requests
	return c
}

// WithCircuitBreaker enables the circuit breaker and returns the config for chaining.
func (c *Config) WithCircuitBreaker(failThreshold, successThreshold int, timeout time.Duration) *Config {
	c.CircuitBreakerEnabled = true
	c.CircuitBreakerFailThreshold = failThreshold
	c.CircuitBreakerSuccessThreshold = successThreshold
	c.CircuitBreakerTimeout = timeout
	return c
}

// WithIgnoreCodes sets ret_codes that are treated as success and returns the config for chaining.
func (c *Config) WithIgnoreCodes(codes ...int) *Config {
	c.IgnoreCodes = codes
	return c
}
