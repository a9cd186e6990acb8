package infrastructures

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/sirupsen/logrus"
)

type AppConfig struct {
	AppPort             string `env:"APP_PORT" envDefault:"8080"`
	DatabaseURL         string `env:"DATABASE_URL"`
	DatabaseAutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE" envDefault:"true"`
	JWTSecret           string `env:"JWT_SECRET"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`

	Redis        RedisConfig
	Image        ImageConfig
	Storage      StorageConfig
	CheckInToWin CheckInToWinConfig
}

type RedisConfig struct {
	Address   string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"checkin"`
}

type ImageConfig struct {
	BaseURL     string        `env:"IMAGE_API_BASE_URL"`
	APIKey      string        `env:"IMAGE_API_KEY"`
	Timeout     time.Duration `env:"IMAGE_API_TIMEOUT" envDefault:"90s"`
	AspectRatio string        `env:"IMAGE_ASPECT_RATIO" envDefault:"1:1"`
}

type StorageConfig struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	Bucket          string `env:"R2_BUCKET_NAME"`
	PublicBaseURL   string `env:"R2_PUBLIC_BASE_URL"`
}

// Enabled reports whether generated images go to R2 instead of inline data URLs.
func (c StorageConfig) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.Bucket != ""
}

type CheckInToWinConfig struct {
	PrizeCacheTTL        time.Duration `env:"PRIZE_CACHE_TTL" envDefault:"5m"`
	ValidationCodePrefix string        `env:"VALIDATION_CODE_PREFIX" envDefault:"CW"`
}

var Config *AppConfig

func LoadConfig() *AppConfig {
	godotenv.Load()

	cfg, err := ParseConfig()
	if err != nil {
		logrus.Fatalf("failed to parse config: %v", err)
	}

	Config = cfg
	return Config
}

// ParseConfig reads the environment without touching the global Config.
func ParseConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	prefix, err := pkg.NormalizeValidationCodePrefix(cfg.CheckInToWin.ValidationCodePrefix)
	if err != nil {
		return nil, err
	}
	cfg.CheckInToWin.ValidationCodePrefix = prefix

	return cfg, nil
}

// NewAppConfig hands the loaded config to the injector.
func NewAppConfig() *AppConfig {
	if Config == nil {
		return LoadConfig()
	}
	return Config
}
