package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// - empty optional endpoints (REDIS_URL, KAFKA_BROKERS, OTEL_EXPORTER_OTLP_ENDPOINT) disable that integration
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Catalog   CatalogConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
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
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"8h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// CatalogConfig controls listing and circulation behavior.
type CatalogConfig struct {
	TimeZone        string `envconfig:"CATALOG_TIMEZONE" default:"UTC"`
	DefaultPageSize int    `envconfig:"CATALOG_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int    `envconfig:"CATALOG_MAX_PAGE_SIZE" default:"100"`
	// SingleHolder rejects a reserve while the book has an open reservation.
	SingleHolder bool `envconfig:"CATALOG_SINGLE_HOLDER" default:"false"`
}

type RedisConfig struct {
	URL              string        `envconfig:"REDIS_URL" default:""`
	LockoutThreshold int           `envconfig:"LOCKOUT_THRESHOLD" default:"5"`
	LockoutWindow    time.Duration `envconfig:"LOCKOUT_WINDOW" default:"15m"`
}

type KafkaConfig struct {
	Brokers       []string `envconfig:"KAFKA_BROKERS" default:""`
	ReservedTopic string   `envconfig:"KAFKA_TOPIC_BOOK_RESERVED" default:"library.book.reserved"`
	ReturnedTopic string   `envconfig:"KAFKA_TOPIC_BOOK_RETURNED" default:"library.book.returned"`
}

type TracingConfig struct {
	Endpoint    string  `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
	Insecure    bool    `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	ServiceName string  `envconfig:"OTEL_SERVICE_NAME" default:"library-backend"`
	SampleRatio float64 `envconfig:"OTEL_SAMPLE_RATIO" default:"1.0"`
}

type RateLimitConfig struct {
	AuthPerMinute int `envconfig:"RATE_LIMIT_AUTH_PER_MINUTE" default:"30"`
	AuthBurst     int `envconfig:"RATE_LIMIT_AUTH_BURST" default:"10"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// Location resolves the catalog time zone, falling back to UTC.
func (c CatalogConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
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
			TimeZone: "UTC",
			MaxConns: 10,
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-library-backend",
			Duration: "8h",
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		Catalog: CatalogConfig{
			TimeZone:        "UTC",
			DefaultPageSize: 10,
			MaxPageSize:     100,
		},
		Redis: RedisConfig{
			LockoutThreshold: 5,
			LockoutWindow:    15 * time.Minute,
		},
		Kafka: KafkaConfig{
			ReservedTopic: "library.book.reserved",
			ReturnedTopic: "library.book.returned",
		},
		Tracing: TracingConfig{
			ServiceName: "library-backend-test",
			SampleRatio: 1.0,
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: 6000,
			AuthBurst:     1000,
		},
	}
}
