package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// カート関連の既定値
const (
	DefaultMaxQuantity      = 100
	DefaultCacheTTL         = 60 * time.Minute
	DefaultSessionTTL       = 24 * time.Hour
	DefaultCacheKeyPrefix   = "cart:user:"
	DefaultSessionKeyPrefix = "cart:guest:"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート

	RedisAddr     string // キャッシュ/セッション用Redis（host:port）
	RedisPassword string

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod

	MaxQuantity      int64         // 明細1件あたりの数量上限
	CacheTTL         time.Duration // カートキャッシュTTL
	SessionTTL       time.Duration // ゲストセッションTTL
	CacheKeyPrefix   string
	SessionKeyPrefix string

	LogLevel  string
	LogPretty bool
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),

		MaxQuantity:      DefaultMaxQuantity,
		CacheTTL:         DefaultCacheTTL,
		SessionTTL:       DefaultSessionTTL,
		CacheKeyPrefix:   getenv("CART_CACHE_KEY_PREFIX", DefaultCacheKeyPrefix),
		SessionKeyPrefix: getenv("CART_SESSION_KEY_PREFIX", DefaultSessionKeyPrefix),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: os.Getenv("LOG_PRETTY") == "true",
	}

	if v := os.Getenv("CART_MAX_QUANTITY"); v != "" {
		maxQty, err := strconv.ParseInt(v, 10, 64)
		if err != nil || maxQty < 1 {
			return Config{}, fmt.Errorf("CART_MAX_QUANTITY must be a positive number")
		}
		cfg.MaxQuantity = maxQty
	}

	if v := os.Getenv("CART_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("CART_CACHE_TTL must be a positive duration")
		}
		cfg.CacheTTL = ttl
	}

	if v := os.Getenv("CART_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("CART_SESSION_TTL must be a positive duration")
		}
		cfg.SessionTTL = ttl
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.PostgresUser == "" {
		return Config{}, fmt.Errorf("POSTGRES_USER is required")
	}
	if cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if cfg.PostgresDB == "" {
		return Config{}, fmt.Errorf("POSTGRES_DB is required")
	}
	if cfg.PostgresHost == "" {
		return Config{}, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
