package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config captures environment driven configuration for the booking service.
type Config struct {
	HTTPPort     int
	SQLiteDSN    string
	APIToken     string
	APITokenHash string
}

// Load parses configuration from the process environment. A .env file in the
// working directory is applied first when present, without overriding
// variables already set.
//
// API_TOKEN carries the shared credential that authorizes mutations;
// API_TOKEN_HASH may be supplied instead with an argon2id encoded hash of the
// token. Exactly one of the two is required.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:meeting_rooms.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}

	invalid := make([]string, 0, 1)

	if portValue := strings.TrimSpace(os.Getenv("ROOMS_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMS_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMS_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	cfg.APIToken = strings.TrimSpace(os.Getenv("API_TOKEN"))
	cfg.APITokenHash = strings.TrimSpace(os.Getenv("API_TOKEN_HASH"))

	if cfg.APIToken == "" && cfg.APITokenHash == "" {
		return Config{}, fmt.Errorf("variáveis de ambiente obrigatórias ausentes: API_TOKEN (ou API_TOKEN_HASH)")
	}
	if cfg.APIToken != "" && cfg.APITokenHash != "" {
		invalid = append(invalid, "API_TOKEN_HASH")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("variáveis de ambiente com valores inválidos: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
