package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel  string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	CDN       CDNConfig       `yaml:"cdn"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Minio     MinioConfig     `yaml:"minio"`
	Worker    WorkerConfig    `yaml:"worker"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Retry     RetryConfig     `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"SERVER_ADDR" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type DBConfig struct {
	Host            string        `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int           `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"DB_PASSWORD"`
	Name            string        `yaml:"name" env:"DB_NAME" env-default:"media"`
	SSLMode         string        `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type CDNConfig struct {
	// Endpoint is the transformation CDN base including the account id,
	// e.g. https://cdn.example/acct.
	Endpoint    string `yaml:"endpoint" env:"CDN_ENDPOINT" env-required:"true"`
	AccountID   string `yaml:"account_id" env:"CDN_ACCOUNT_ID"`
	OriginCheck bool   `yaml:"origin_check" env:"CDN_ORIGIN_CHECK" env-default:"false"`
}

type KafkaConfig struct {
	Brokers    []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:"," env-default:"localhost:9092"`
	EditsTopic string   `yaml:"edits_topic" env:"KAFKA_EDITS_TOPIC" env-default:"media-edits"`
	GroupID    string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"media-editor-readiness"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"media"`
	Region    string `yaml:"region" env:"MINIO_REGION" env-default:"us-east-1"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type WorkerConfig struct {
	Concurrency  int           `yaml:"concurrency" env:"WORKER_CONCURRENCY" env-default:"4"`
	PollAttempts int           `yaml:"poll_attempts" env:"WORKER_POLL_ATTEMPTS" env-default:"10"`
	PollDelay    time.Duration `yaml:"poll_delay" env:"WORKER_POLL_DELAY" env-default:"2s"`
	PollBackoff  float64       `yaml:"poll_backoff" env:"WORKER_POLL_BACKOFF" env-default:"1.5"`
	PollTimeout  time.Duration `yaml:"poll_timeout" env:"WORKER_POLL_TIMEOUT" env-default:"10s"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst             int           `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
	TTL               time.Duration `yaml:"ttl" env:"RATE_LIMIT_TTL" env-default:"10m"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"100ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

// MustLoad reads the YAML file named by CONFIG_PATH, or only the
// environment when CONFIG_PATH is unset.
func MustLoad() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from env: %w", err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) DBDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host, c.DB.Port, c.DB.User, c.DB.Password, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}

// PollStrategy is the retry schedule used while waiting for the CDN to
// render an edited URL.
func (c *Config) PollStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Worker.PollAttempts,
		Delay:    c.Worker.PollDelay,
		Backoff:  c.Worker.PollBackoff,
	}
}
