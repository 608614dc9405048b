package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/auth"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/cache"
	usershandlers "github.com/leeleeEcho/web3-dapp-store-sub000/pkg/gateway/handlers/users"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/logging"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/storage"
	"github.com/leeleeEcho/web3-dapp-store-sub000/pkg/storage/users"
)

type Gateway struct {
	logger *logging.ColoredLogger
	cfg    *Config

	db  *sql.DB
	rdb *redis.Client

	authService *auth.Service
	tokens      *auth.TokenIssuer
	directory   usershandlers.Directory
	userCache   *cache.Users

	rateLimiter *RateLimiter
	startedAt   time.Time
}

// New creates and initializes a new Gateway instance
func New(logger *logging.ColoredLogger, cfg *Config) (*Gateway, error) {
	if cfg.TokenSecret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}

	logger.ComponentInfo(logging.ComponentDatabase, "Connecting to database...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := storage.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.ComponentError(logging.ComponentDatabase, "failed to open database", zap.Error(err))
		return nil, err
	}

	logger.ComponentInfo(logging.ComponentDatabase, "Applying migrations...")
	if err := storage.Migrate(ctx, db); err != nil {
		logger.ComponentError(logging.ComponentDatabase, "migrations failed", zap.Error(err))
		_ = db.Close()
		return nil, err
	}

	repo := users.NewRepository(db)

	gw := &Gateway{
		logger:      logger,
		cfg:         cfg,
		db:          db,
		authService: auth.NewService(logger, repo),
		tokens:      auth.NewTokenIssuer([]byte(cfg.TokenSecret), cfg.TokenTTL),
		directory:   repo,
		startedAt:   time.Now(),
	}

	if cfg.RedisAddr != "" {
		logger.ComponentInfo(logging.ComponentCache, "Connecting to redis...", zap.String("addr", cfg.RedisAddr))
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.ComponentWarn(logging.ComponentCache, "redis not reachable; user cache disabled", zap.Error(err))
			_ = rdb.Close()
		} else {
			gw.rdb = rdb
			gw.userCache = cache.NewUsers(rdb, 0)
		}
	}

	if cfg.NonceRatePerMinute > 0 {
		burst := cfg.NonceBurst
		if burst <= 0 {
			burst = cfg.NonceRatePerMinute
		}
		gw.rateLimiter = NewRateLimiter(cfg.NonceRatePerMinute, burst)
		gw.rateLimiter.StartCleanup(10*time.Minute, time.Hour)
	}

	logger.ComponentInfo(logging.ComponentGateway, "Gateway initialized")
	return gw, nil
}
