// Package config loads platform API configuration from the environment,
// optionally overlaid with a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full runtime configuration.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	Environment string `yaml:"environment"` // "development" or "production"

	// Redis backs the blob store and the TTL keyed store. Empty means
	// in-memory stores (tests, local development).
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	// Rate limiting.
	RateLimitWindow  time.Duration `yaml:"rate_limit_window"`
	RateLimitMax     int           `yaml:"rate_limit_max"`
	TrustedIPHeader  string        `yaml:"trusted_ip_header"`
	RateLimitHeaders bool          `yaml:"rate_limit_headers"`

	// Sessions.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// CORS.
	CORSOrigin string `yaml:"cors_origin"`

	// Cardano / Blockfrost.
	BlockfrostURL    string `yaml:"blockfrost_url"`
	BlockfrostAPIKey string `yaml:"blockfrost_api_key"`

	// Policy IDs for the identity NFT, bit token and asset-share token.
	NFTPolicyID      string `yaml:"nft_policy_id"`
	BitTokenPolicyID string `yaml:"bit_token_policy_id"`
	AssetPolicyID    string `yaml:"asset_policy_id"`

	// Wallet used as the hop for anonymous transfers.
	IntermediaryWalletAddress string `yaml:"intermediary_wallet_address"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:       ":8080",
		Environment:      "production",
		RateLimitWindow:  60 * time.Second,
		RateLimitMax:     100,
		TrustedIPHeader:  "CF-Connecting-IP",
		RateLimitHeaders: true,
		SessionTTL:       24 * time.Hour,
		CORSOrigin:       "*",
		BlockfrostURL:    "https://cardano-preprod.blockfrost.io/api/v0",
	}
}

// Development reports whether detailed error messages may be exposed.
func (c *Config) Development() bool {
	return c.Environment == "development"
}

// FromEnv builds a configuration from the environment on top of defaults.
func FromEnv() *Config {
	cfg := Default()

	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.Environment, "ENVIRONMENT")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.TrustedIPHeader, "TRUSTED_IP_HEADER")
	setString(&cfg.CORSOrigin, "CORS_ORIGIN")
	setString(&cfg.BlockfrostURL, "BLOCKFROST_URL")
	setString(&cfg.BlockfrostAPIKey, "BLOCKFROST_API_KEY")
	setString(&cfg.NFTPolicyID, "NFT_POLICY_ID")
	setString(&cfg.BitTokenPolicyID, "BIT_TOKEN_POLICY_ID")
	setString(&cfg.AssetPolicyID, "ASSET_POLICY_ID")
	setString(&cfg.IntermediaryWalletAddress, "INTERMEDIARY_WALLET_ADDRESS")
	setInt(&cfg.RateLimitMax, "RATE_LIMIT_MAX")
	setDuration(&cfg.RateLimitWindow, "RATE_LIMIT_WINDOW")
	setDuration(&cfg.SessionTTL, "SESSION_TTL")

	return cfg
}

// Load reads a YAML config file over the environment configuration.
func Load(path string) (*Config, error) {
	cfg := FromEnv()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists, else falls back to FromEnv.
func LoadOrDefault(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		return FromEnv()
	}
	return cfg
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
