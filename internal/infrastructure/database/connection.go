package database

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the delivery log database described by databaseURL.
// Supported schemes are mysql, postgres and postgresql.
func Open(databaseURL string) (*gorm.DB, error) {
	dialector, err := dialectorFor(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func dialectorFor(databaseURL string) (gorm.Dialector, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("database url cannot be empty")
	}

	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	switch strings.ToLower(parsed.Scheme) {
	case "mysql":
		dsn, err := mysqlDSN(parsed)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(databaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", parsed.Scheme)
	}
}

// mysqlDSN converts a mysql:// URL into the driver's DSN format.
// Timestamps are parsed into time.Time and stored in UTC unless the URL says otherwise.
func mysqlDSN(parsed *url.URL) (string, error) {
	hostname := parsed.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("database url missing hostname for mysql connection")
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", fmt.Errorf("database url missing database name for mysql connection")
	}

	port := parsed.Port()
	if port == "" {
		port = "3306"
	}

	cfg := gomysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(hostname, port)
	cfg.DBName = databaseName
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	if parsed.User != nil {
		cfg.User = parsed.User.Username()
		cfg.Passwd, _ = parsed.User.Password()
	}
	if cfg.User == "" && cfg.Passwd != "" {
		return "", fmt.Errorf("database url provides password without username for mysql connection")
	}

	for key, values := range parsed.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[len(values)-1]

		switch key {
		case "parseTime":
			parseTime, err := strconv.ParseBool(value)
			if err != nil {
				return "", fmt.Errorf("invalid parseTime value %q: %w", value, err)
			}
			cfg.ParseTime = parseTime
		case "loc":
			loc, err := time.LoadLocation(value)
			if err != nil {
				return "", fmt.Errorf("invalid loc value %q: %w", value, err)
			}
			cfg.Loc = loc
		default:
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params[key] = value
		}
	}

	return cfg.FormatDSN(), nil
}
