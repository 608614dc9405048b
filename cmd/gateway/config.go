package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
)

// fileConfig is the optional YAML config file shape. Values from the file are
// defaults only; environment variables and flags override them.
type fileConfig struct {
	ListenAddr         string `yaml:"listen_addr"`
	DatabaseDSN        string `yaml:"database_dsn"`
	RedisAddr          string `yaml:"redis_addr"`
	TokenSecret        string `yaml:"token_secret"`
	TokenTTL           string `yaml:"token_ttl"`
	NonceRatePerMinute int    `yaml:"nonce_rate_per_minute"`
	NonceBurst         int    `yaml:"nonce_burst"`
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func getEnvIntDefault(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// configFilePath pre-scans os.Args for -config before the flag set is
// defined, so file values can serve as flag defaults.
func configFilePath() string {
	for i, arg := range os.Args[1:] {
		switch {
		case arg == "-config" || arg == "--config":
			rest := os.Args[i+2:]
			if len(rest) > 0 {
				return rest[0]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return os.Getenv("GATEWAY_CONFIG")
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// parseGatewayConfig parses flags, environment variables and the optional
// YAML config file into gateway.Config.
// Priority: flags > env > config file > defaults.
func parseGatewayConfig(logger *logging.ColoredLogger) *gateway.Config {
	fc := &fileConfig{}
	if path := configFilePath(); path != "" {
		loaded, err := loadConfigFile(path)
		if err != nil {
			logger.ComponentError(logging.ComponentGeneral, "failed to load config file", zap.Error(err))
			os.Exit(1)
		}
		fc = loaded
		logger.ComponentInfo(logging.ComponentGeneral, "Loaded config file", zap.String("path", path))
	}

	def := func(fileVal, builtin string) string {
		if strings.TrimSpace(fileVal) != "" {
			return fileVal
		}
		return builtin
	}
	defInt := func(fileVal, builtin int) int {
		if fileVal > 0 {
			return fileVal
		}
		return builtin
	}

	_ = flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", getEnvDefault("GATEWAY_ADDR", def(fc.ListenAddr, ":6001")), "HTTP listen address (e.g., :6001)")
	dsn := flag.String("database-dsn", getEnvDefault("GATEWAY_DATABASE_DSN", def(fc.DatabaseDSN, "postgres://localhost:5432/store?sslmode=disable")), "PostgreSQL DSN")
	redisAddr := flag.String("redis-addr", getEnvDefault("GATEWAY_REDIS_ADDR", fc.RedisAddr), "Redis address; empty disables the user cache")
	secret := flag.String("token-secret", getEnvDefault("GATEWAY_TOKEN_SECRET", fc.TokenSecret), "HMAC secret for bearer tokens")
	ttlStr := flag.String("token-ttl", getEnvDefault("GATEWAY_TOKEN_TTL", def(fc.TokenTTL, "24h")), "Bearer token lifetime (e.g., 24h)")
	rate := flag.Int("nonce-rate", getEnvIntDefault("GATEWAY_NONCE_RATE", defInt(fc.NonceRatePerMinute, 30)), "Auth requests per minute per IP; 0 disables rate limiting")
	burst := flag.Int("nonce-burst", getEnvIntDefault("GATEWAY_NONCE_BURST", defInt(fc.NonceBurst, 10)), "Auth request burst per IP")

	// Do not call flag.Parse() elsewhere to avoid double-parsing
	flag.Parse()

	ttl, err := time.ParseDuration(*ttlStr)
	if err != nil {
		logger.ComponentError(logging.ComponentGeneral, "invalid token ttl", zap.String("value", *ttlStr), zap.Error(err))
		os.Exit(1)
	}

	logger.ComponentInfo(logging.ComponentGeneral, "Loaded gateway configuration",
		zap.String("addr", *addr),
		zap.Bool("redis_enabled", strings.TrimSpace(*redisAddr) != ""),
		zap.Duration("token_ttl", ttl),
		zap.Int("nonce_rate_per_minute", *rate),
	)

	return &gateway.Config{
		ListenAddr:         *addr,
		DatabaseDSN:        *dsn,
		RedisAddr:          strings.TrimSpace(*redisAddr),
		TokenSecret:        *secret,
		TokenTTL:           ttl,
		NonceRatePerMinute: *rate,
		NonceBurst:         *burst,
	}
}
