package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB/Redis address)
// - default: Values common across all environments (TTLs, pool sizes, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Seckill SeckillConfig
	Cache   CacheConfig
	CORS    CORSConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" required:"true"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	PoolSize int    `envconfig:"REDIS_POOL_SIZE" default:"100"`
}

type SeckillConfig struct {
	// QueueCapacity bounds the intake queue between admission and the
	// persistence worker. Sized to absorb bursts; a full queue blocks
	// admission rather than dropping admitted orders.
	QueueCapacity  int           `envconfig:"SECKILL_QUEUE_CAPACITY" default:"131072"`
	OrderNamespace string        `envconfig:"SECKILL_ORDER_NAMESPACE" default:"order"`
	PersistTimeout time.Duration `envconfig:"SECKILL_PERSIST_TIMEOUT" default:"5s"`
}

type CacheConfig struct {
	// ShopStrategy selects the read-through strategy for the shop
	// key-space: "mutex" or "logical". One strategy per key-space.
	ShopStrategy   string        `envconfig:"CACHE_SHOP_STRATEGY" default:"mutex"`
	ShopTTL        time.Duration `envconfig:"CACHE_SHOP_TTL" default:"30m"`
	EmptyTTL       time.Duration `envconfig:"CACHE_EMPTY_TTL" default:"2m"`
	LockTTL        time.Duration `envconfig:"CACHE_LOCK_TTL" default:"10s"`
	RetryInterval  time.Duration `envconfig:"CACHE_RETRY_INTERVAL" default:"50ms"`
	RebuildWorkers int           `envconfig:"CACHE_REBUILD_WORKERS" default:"10"`
	RebuildQueue   int           `envconfig:"CACHE_REBUILD_QUEUE" default:"256"`
	RebuildTimeout time.Duration `envconfig:"CACHE_REBUILD_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,X-User-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
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
		},
		Redis: RedisConfig{
			Addr:     "localhost:16379",
			PoolSize: 10,
		},
		Seckill: SeckillConfig{
			QueueCapacity:  1024,
			OrderNamespace: "order",
			PersistTimeout: time.Second,
		},
		Cache: CacheConfig{
			ShopStrategy:   "mutex",
			ShopTTL:        time.Minute,
			EmptyTTL:       10 * time.Second,
			LockTTL:        time.Second,
			RetryInterval:  20 * time.Millisecond,
			RebuildWorkers: 2,
			RebuildQueue:   16,
			RebuildTimeout: time.Second,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
