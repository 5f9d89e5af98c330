package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process settings read from the environment.
type Config struct {
	Env  string
	Port string

	DatabaseURL string
	RedisAddr   string
	ListingTTL  time.Duration

	JWTSecret string
	BaseURL   string
	MediaDir  string

	// AnalyticsEndpoint is an external collector. Empty records beacons in process.
	AnalyticsEndpoint string
	AnalyticsRPS      float64
	AnalyticsBurst    int
	// TrustedProxies are the peers whose X-Forwarded-For is believed
	TrustedProxies []netip.Prefix

	GoogleCredentials string
	ChromePath        string
}

// Load reads the environment. DATABASE_URL wins over the DB_* parts.
func Load() (*Config, error) {
	cfg := &Config{
		Env:               getEnv("ENV", "development"),
		Port:              strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		MediaDir:          getEnv("MEDIA_DIR", "media"),
		AnalyticsEndpoint: os.Getenv("ANALYTICS_ENDPOINT"),
		GoogleCredentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		ChromePath:        os.Getenv("CHROME_PATH"),
	}

	cfg.BaseURL = strings.TrimRight(getEnv("BASE_URL", "http://localhost:"+cfg.Port), "/")

	var err error
	if cfg.TrustedProxies, err = parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")); err != nil {
		return nil, err
	}
	if cfg.ListingTTL, err = time.ParseDuration(getEnv("LISTING_CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid LISTING_CACHE_TTL: %w", err)
	}
	if cfg.AnalyticsRPS, err = strconv.ParseFloat(getEnv("ANALYTICS_RATE_LIMIT", "5"), 64); err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_RATE_LIMIT: %w", err)
	}
	if cfg.AnalyticsBurst, err = strconv.Atoi(getEnv("ANALYTICS_BURST", "10")); err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_BURST: %w", err)
	}

	cfg.DatabaseURL, err = databaseURL()
	if err != nil {
		return nil, err
	}

	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func databaseURL() (string, error) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	dbname := os.Getenv("DB_NAME")
	if host == "" || user == "" || dbname == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, getEnv("DB_PORT", "5432"), user, os.Getenv("DB_PASSWORD"), dbname, getEnv("DB_SSLMODE", "disable")), nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseTrustedProxies reads a comma-separated list of IPs and CIDR ranges
func parseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			prefix, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", part, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", part, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
