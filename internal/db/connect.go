// Package db opens GORM connections for the snapshot store.
package db

import (
	"errors"
	"fmt"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/northstar/summit/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MySQL server error codes we translate into friendlier messages.
const (
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
)

// DSN builds a MySQL DSN for the configured database.
func DSN(cfg config.DBConfig) string {
	return fmt.Sprintf("root@tcp(%s:%d)/%s?parseTime=true", cfg.Host, cfg.Port, cfg.Database)
}

// Open connects to the configured snapshot backend.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case "sqlite":
		gdb, err := gorm.Open(sqlite.Open(cfg.Path), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", cfg.Path, err)
		}
		return gdb, nil
	case "mysql":
		gdb, err := gorm.Open(mysql.Open(DSN(cfg)), gormCfg)
		if err != nil {
			return nil, wrapMySQLError(cfg, err)
		}
		return gdb, nil
	default:
		return nil, fmt.Errorf("db: unknown driver %q", cfg.Driver)
	}
}

// wrapMySQLError surfaces common server error codes with actionable messages.
func wrapMySQLError(cfg config.DBConfig, err error) error {
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errUnknownDatabase:
			return fmt.Errorf("db: database %q does not exist on %s:%d (create it first): %w", cfg.Database, cfg.Host, cfg.Port, err)
		case errAccessDenied:
			return fmt.Errorf("db: access denied to %s:%d: %w", cfg.Host, cfg.Port, err)
		}
	}
	return fmt.Errorf("db: connect to %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
}
