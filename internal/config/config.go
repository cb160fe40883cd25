// Package config loads service settings from an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	HTTP     HTTPConfig     `yaml:"http"`
	Storage  StorageConfig  `yaml:"storage"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Sales    SalesConfig    `yaml:"sales"`
}

type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	// Driver is "mysql" or "memory".
	Driver string `yaml:"driver"`
}

type MySQLConfig struct {
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Database        string        `yaml:"database"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type RedisConfig struct {
	// Addr empty disables the product cache and keeps revoked sessions in memory.
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ProductTTL   time.Duration `yaml:"product_ttl"`
}

type RabbitMQConfig struct {
	// URL empty disables event publishing.
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenTTL          time.Duration `yaml:"token_ttl"`
	AdminUsername     string        `yaml:"admin_username"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
}

type TracingConfig struct {
	// JaegerEndpoint empty disables trace export.
	JaegerEndpoint string  `yaml:"jaeger_endpoint"`
	SampleRatio    float64 `yaml:"sample_ratio"`
}

type SalesConfig struct {
	Timezone string `yaml:"timezone"`
}

func (c SalesConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func Default() Config {
	return Config{
		App:     AppConfig{Name: "storefront", Env: "prod", LogLevel: "info"},
		HTTP:    HTTPConfig{Port: "8080", ShutdownTimeout: 10 * time.Second},
		Storage: StorageConfig{Driver: "mysql"},
		MySQL: MySQLConfig{
			User:            "root",
			Host:            "localhost",
			Port:            "3306",
			Database:        "storefront",
			MaxOpenConns:    100,
			MaxIdleConns:    20,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: time.Minute,
		},
		Redis: RedisConfig{
			PoolSize:     200,
			MinIdleConns: 20,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
			ProductTTL:   5 * time.Minute,
		},
		RabbitMQ: RabbitMQConfig{Exchange: "storefront.orders"},
		Auth:     AuthConfig{TokenTTL: 24 * time.Hour, AdminUsername: "admin"},
		Tracing:  TracingConfig{SampleRatio: 1},
		Sales:    SalesConfig{Timezone: "UTC"},
	}
}

// Load starts from Default, applies the YAML file named by CONFIG_FILE if set,
// then the environment overrides.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"APP_ENV":             &cfg.App.Env,
		"LOG_LEVEL":           &cfg.App.LogLevel,
		"PORT":                &cfg.HTTP.Port,
		"STORAGE_DRIVER":      &cfg.Storage.Driver,
		"MYSQL_USER":          &cfg.MySQL.User,
		"MYSQL_PASSWORD":      &cfg.MySQL.Password,
		"MYSQL_HOST":          &cfg.MySQL.Host,
		"MYSQL_PORT":          &cfg.MySQL.Port,
		"MYSQL_DATABASE":      &cfg.MySQL.Database,
		"REDIS_ADDR":          &cfg.Redis.Addr,
		"REDIS_PASSWORD":      &cfg.Redis.Password,
		"RABBITMQ_URL":        &cfg.RabbitMQ.URL,
		"RABBITMQ_EXCHANGE":   &cfg.RabbitMQ.Exchange,
		"JWT_SECRET":          &cfg.Auth.JWTSecret,
		"ADMIN_USERNAME":      &cfg.Auth.AdminUsername,
		"ADMIN_PASSWORD_HASH": &cfg.Auth.AdminPasswordHash,
		"JAEGER_ENDPOINT":     &cfg.Tracing.JaegerEndpoint,
		"SALES_TIMEZONE":      &cfg.Sales.Timezone,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	// REDIS_HOST is the older single-host form; the port is always 6379.
	if v, ok := lookup("REDIS_HOST"); ok && cfg.Redis.Addr == "" && v != "" {
		cfg.Redis.Addr = v + ":6379"
	}
	if v, ok := lookup("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v, ok := lookup("TOKEN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("storage.driver %q: want mysql or memory", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if _, err := c.Sales.Location(); err != nil {
		return fmt.Errorf("sales.timezone: %w", err)
	}
	return nil
}
