package db

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/diewo77/blachy/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var passwordPattern = regexp.MustCompile(`(password=)(\S+)`)

// Open connects to the configured database, retrying a few times so a
// freshly started Postgres container has time to accept connections.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector, target, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := GormConfig(cfg.Debug)

	var conn *gorm.DB
	for i := 0; i < 5; i++ {
		conn, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		log.Warn("database not ready, retrying", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	if err := conn.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.Driver), zap.String("target", target))
	return conn, nil
}

// GormConfig is the gorm configuration shared by the server and tests.
// Driver errors are translated so unique violations surface as
// gorm.ErrDuplicatedKey.
func GormConfig(debug bool) *gorm.Config {
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, string, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), maskDSN(cfg.DSN), nil
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, "", fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dsn := cfg.Path
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=on"
		}
		return sqlite.Open(dsn), cfg.Path, nil
	}
	return nil, "", fmt.Errorf("unsupported driver %q", cfg.Driver)
}

// maskDSN hides the password in both key=value and URL style DSNs.
func maskDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		scheme, rest, _ := strings.Cut(dsn, "://")
		creds, host, ok := strings.Cut(rest, "@")
		if !ok {
			return dsn
		}
		user, _, _ := strings.Cut(creds, ":")
		return scheme + "://" + user + ":***@" + host
	}
	return passwordPattern.ReplaceAllString(dsn, `${1}***`)
}
