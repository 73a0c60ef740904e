package authz

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds the configuration for the permission engine.
type Config struct {
	DB          *gorm.DB
	RedisClient *redis.Client // optional; nil disables the decision cache
	CacheTTL    time.Duration
	CachePrefix string
	AutoMigrate bool
	Logger      *zap.SugaredLogger
}

// Engine evaluates whether a user holds a permission in a unidade,
// combining admin bypass, unidade membership, per-user overrides and role
// defaults. All lookups fail closed: any storage error denies.
type Engine struct {
	db          *gorm.DB
	redis       *redis.Client
	cacheTTL    time.Duration
	cachePrefix string
	log         *zap.SugaredLogger
}

// NewEngine initializes the permission engine.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = "authz:"
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 30 * time.Minute
	}

	if cfg.AutoMigrate {
		err := cfg.DB.AutoMigrate(&User{}, &UserUnidade{}, &RolePermission{}, &UserPermission{})
		if err != nil {
			return nil, fmt.Errorf("failed to auto-migrate authorization tables: %w", err)
		}
	}

	return &Engine{
		db:          cfg.DB,
		redis:       cfg.RedisClient,
		cacheTTL:    cfg.CacheTTL,
		cachePrefix: cfg.CachePrefix,
		log:         cfg.Logger,
	}, nil
}
