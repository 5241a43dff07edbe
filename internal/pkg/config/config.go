package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Cache    CacheConfig
	Seckill  SeckillConfig
	Consumer ConsumerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Shanghai"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type RedisConfig struct {
	Addr         string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"REDIS_PASSWORD" default:""`
	DB           int           `envconfig:"REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE" default:"50"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT" default:"3s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Shanghai"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"28800"` // 8*60*60
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

type CacheConfig struct {
	ShopTTL        time.Duration `envconfig:"CACHE_SHOP_TTL" default:"30m"`
	VoucherTTL     time.Duration `envconfig:"CACHE_VOUCHER_TTL" default:"30m"`
	NullTTL        time.Duration `envconfig:"CACHE_NULL_TTL" default:"2m"`
	RebuildLockTTL time.Duration `envconfig:"CACHE_REBUILD_LOCK_TTL" default:"10s"`
	RebuildWorkers int           `envconfig:"CACHE_REBUILD_WORKERS" default:"10"`
	RebuildTimeout time.Duration `envconfig:"CACHE_REBUILD_TIMEOUT" default:"5s"`
}

type SeckillConfig struct {
	Stream string `envconfig:"SECKILL_STREAM" default:"stream.orders"`
	Group  string `envconfig:"SECKILL_GROUP" default:"g1"`
	IDTag  string `envconfig:"SECKILL_ID_TAG" default:"order"`
	// consecutive store failures before the admission breaker opens
	BreakerFailures uint32        `envconfig:"SECKILL_BREAKER_FAILURES" default:"5"`
	BreakerTimeout  time.Duration `envconfig:"SECKILL_BREAKER_TIMEOUT" default:"5s"`
}

type ConsumerConfig struct {
	// must stay stable across restarts so the pending list can be replayed
	Name             string        `envconfig:"CONSUMER_NAME" default:""`
	Workers          int           `envconfig:"CONSUMER_WORKERS" default:"1"`
	Block            time.Duration `envconfig:"CONSUMER_BLOCK" default:"2s"`
	Batch            int64         `envconfig:"CONSUMER_BATCH" default:"1"`
	RecoveryInterval time.Duration `envconfig:"CONSUMER_RECOVERY_INTERVAL" default:"30s"`
	LockLease        time.Duration `envconfig:"CONSUMER_LOCK_LEASE" default:"10s"`
	ClaimIdle        time.Duration `envconfig:"CONSUMER_CLAIM_IDLE" default:"5m"`
	ErrorBackoff     time.Duration `envconfig:"CONSUMER_ERROR_BACKOFF" default:"1s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// ConsumerName falls back to the hostname when CONSUMER_NAME is unset.
func (c *ConsumerConfig) ConsumerName() string {
	if c.Name != "" {
		return c.Name
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "c1"
	}
	return host
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

// LoadJWT reads only the JWT settings, for tools that mint tokens without the
// rest of the service configuration.
func LoadJWT(cfg *JWTConfig) error {
	if err := envconfig.Process("", cfg); err != nil {
		return fmt.Errorf("failed to process jwt env config: %w", err)
	}
	return nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Shanghai",
			MaxConns: 10,
		},
		Redis: RedisConfig{
			Addr:         "localhost:16379",
			PoolSize:     20,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Shanghai",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 28800,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Cache: CacheConfig{
			ShopTTL:        30 * time.Minute,
			VoucherTTL:     30 * time.Minute,
			NullTTL:        2 * time.Minute,
			RebuildLockTTL: 10 * time.Second,
			RebuildWorkers: 4,
			RebuildTimeout: 5 * time.Second,
		},
		Seckill: SeckillConfig{
			Stream:          "stream.orders",
			Group:           "g1",
			IDTag:           "order",
			BreakerFailures: 5,
			BreakerTimeout:  5 * time.Second,
		},
		Consumer: ConsumerConfig{
			Name:             "test-consumer",
			Workers:          1,
			Block:            200 * time.Millisecond,
			Batch:            1,
			RecoveryInterval: time.Second,
			LockLease:        10 * time.Second,
			ErrorBackoff:     50 * time.Millisecond,
		},
	}
}
