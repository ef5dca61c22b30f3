package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Дефолтные origin'ы для локальной разработки
var defaultAllowedOrigins = []string{
	"http://localhost",
	"http://localhost:80",
	"http://localhost:8080",
	"http://127.0.0.1",
	"http://127.0.0.1:80",
	"http://127.0.0.1:8080",
}

type Config struct {
	DBDSN                    string        `mapstructure:"DB_DSN"`
	Environment              string        `mapstructure:"ENV"`
	HTTPAddr                 string        `mapstructure:"HTTP_ADDR"`
	JWTSecret                string        `mapstructure:"JWT_SECRET"`
	SessionTTL               time.Duration `mapstructure:"SESSION_TTL"`
	AllowedOrigins           []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMinute       int           `mapstructure:"RATE_LIMIT_PER_MINUTE"`
	NotificationFallbackDays int           `mapstructure:"NOTIFICATION_FALLBACK_DAYS"`
	TrustedProxies           []*net.IPNet  `mapstructure:"TRUSTED_PROXIES"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из произвольного источника переменных
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:       getenv("DB_DSN"),
		Environment: getenv("ENV"),
		HTTPAddr:    getenv("HTTP_ADDR"),
		JWTSecret:   getenv("JWT_SECRET"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	ttl, err := durationOrDefault(getenv("SESSION_TTL"), 12*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	cfg.RateLimitPerMinute, err = intOrDefault(getenv("RATE_LIMIT_PER_MINUTE"), 240)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}

	cfg.NotificationFallbackDays, err = intOrDefault(getenv("NOTIFICATION_FALLBACK_DAYS"), 30)
	if err != nil {
		return nil, fmt.Errorf("NOTIFICATION_FALLBACK_DAYS: %w", err)
	}

	cfg.TrustedProxies, err = parseNetworks(splitList(getenv("TRUSTED_PROXIES")))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	cfg.AllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS"))
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaultAllowedOrigins
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func durationOrDefault(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}

func intOrDefault(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", v)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseNetworks принимает CIDR ("10.0.0.0/8") или одиночный IP
func parseNetworks(items []string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, item := range items {
		if _, n, err := net.ParseCIDR(item); err == nil {
			out = append(out, n)
			continue
		}
		ip := net.ParseIP(item)
		if ip == nil {
			return nil, fmt.Errorf("invalid address %q", item)
		}
		bits := 128
		if v4 := ip.To4(); v4 != nil {
			ip, bits = v4, 32
		}
		out = append(out, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return out, nil
}
