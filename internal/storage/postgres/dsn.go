package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rcos/telescope-api/config"
)

// DSN returns the configured DSN verbatim when set, otherwise a key/value DSN built
// from the individual fields. Both lib/pq and pgx accept this form.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode(cfg),
	)
}

// ErrDSNNotURL is returned by URL when DB_DSN is set in key/value form.
var ErrDSNNotURL = errors.New("DB_DSN must be a postgres:// URL for migrations")

// URL returns a postgres:// URL for tools that do not accept key/value DSNs (migrate).
func URL(cfg *config.DatabaseConfig) (string, error) {
	if cfg.DSN != "" {
		if !strings.HasPrefix(cfg.DSN, "postgres://") && !strings.HasPrefix(cfg.DSN, "postgresql://") {
			return "", ErrDSNNotURL
		}
		return cfg.DSN, nil
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode(cfg)}}.Encode(),
	}
	return u.String(), nil
}

func sslMode(cfg *config.DatabaseConfig) string {
	if cfg.SSLMode == "" {
		return "disable"
	}
	return cfg.SSLMode
}
