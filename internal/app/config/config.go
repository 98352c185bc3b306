package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"staffdesk/internal/app/dsn"
)

type Config struct {
	ServiceHost string
	ServicePort int
	LogLevel    string
	CORS        CORSConfig
	Cache       CacheConfig
	Redis       RedisConfig `mapstructure:"-"`
	MinIO       MinIOConfig `mapstructure:"-"`
	PostgresDSN string      `mapstructure:"-"`
}

type CORSConfig struct {
	AllowOrigins []string
}

type CacheConfig struct {
	PackageTTL time.Duration
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// Enabled - redis настроен в окружении
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig - хранилище файлов резюме, без MINIO_ENDPOINT загрузка выключена
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLTTL    time.Duration
}

func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinIOEndpoint  = "MINIO_ENDPOINT"
	envMinIOAccessKey = "MINIO_ACCESS_KEY"
	envMinIOSecretKey = "MINIO_SECRET_KEY"
	envMinIOBucket    = "MINIO_BUCKET"
	envMinIOUseSSL    = "MINIO_USE_SSL"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	setDefaults()

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Warn("config file not found, using defaults")
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	cfg.PostgresDSN = dsn.FromEnv()
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("postgres is not configured: set POSTGRES_HOST")
	}

	// инициализация Redis конфигурации из env, без REDIS_HOST кэш выключен
	cfg.Redis.Host = os.Getenv(envRedisHost)
	if cfg.Redis.Enabled() {
		cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	cfg.Redis.Password = os.Getenv(envRedisPass)
	cfg.Redis.User = os.Getenv(envRedisUser)
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	cfg.MinIO.Endpoint = os.Getenv(envMinIOEndpoint)
	cfg.MinIO.AccessKey = os.Getenv(envMinIOAccessKey)
	cfg.MinIO.SecretKey = os.Getenv(envMinIOSecretKey)
	cfg.MinIO.Bucket = os.Getenv(envMinIOBucket)
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = "resumes"
	}
	if raw := os.Getenv(envMinIOUseSSL); raw != "" {
		cfg.MinIO.UseSSL, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("minio use ssl must be bool value: %w", err)
		}
	}
	cfg.MinIO.URLTTL = viper.GetDuration("Storage.ResumeURLTTL")

	log.Info("config parsed")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("ServiceHost", "0.0.0.0")
	viper.SetDefault("ServicePort", 8080)
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("CORS.AllowOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("Cache.PackageTTL", "10m")
	viper.SetDefault("Storage.ResumeURLTTL", "1h")
}
