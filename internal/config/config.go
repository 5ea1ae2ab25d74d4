package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "github.com/Skotchmaster/retailer_portal/pkg/config"
)

type Config struct {
	pkgconfig.Config

	AdminEmails []string
	CartTTL     time.Duration
	CSRFEnabled bool

	SeedProductsXLSX    string
	SeedSuggestionsXLSX string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("env_file_unreadable", "error", err)
	}

	base := pkgconfig.Load()
	if err := pkgconfig.NonEmpty(map[string]string{
		"JWT_SECRET":         string(base.JWTAccessSecret),
		"JWT_REFRESH_SECRET": string(base.JWTRefreshSecret),
	}); err != nil {
		return nil, err
	}

	admins := pkgconfig.CSV(os.Getenv("ADMIN_EMAILS"))
	for i := range admins {
		admins[i] = strings.ToLower(admins[i])
	}

	return &Config{
		Config:              base,
		AdminEmails:         admins,
		CartTTL:             time.Duration(pkgconfig.EnvIntDefault("CART_TTL_HOURS", 72)) * time.Hour,
		CSRFEnabled:         !strings.EqualFold(os.Getenv("CSRF_ENABLED"), "false"),
		SeedProductsXLSX:    os.Getenv("SEED_PRODUCTS_XLSX"),
		SeedSuggestionsXLSX: os.Getenv("SEED_SUGGESTIONS_XLSX"),
	}, nil
}
