package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/damienaltman42/sb1-u3qtxy/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database with pooling and retry.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, safeDSN, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("[database] connecting", zap.String("driver", cfg.Database.Driver), zap.String("dsn", safeDSN))

	// GORM logger: verbose in development
	var gormLogger logger.Interface
	if cfg.IsDevelopment() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	// Retry connection with exponential backoff
	maxRetries := cfg.Database.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	var db *gorm.DB
	backoff := time.Second
	for attempt := 0; attempt < maxRetries; attempt++ {
		db, err = gorm.Open(dialector, &gorm.Config{Logger: gormLogger, TranslateError: true})
		if err == nil {
			break
		}
		log.Warn("[database] connect failed", zap.Int("attempt", attempt+1), zap.Error(err))
		if attempt < maxRetries-1 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, cfg.Database)

	if err := pingWithTimeout(sqlDB, 5*time.Second); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a sqlite file with foreign keys enforced. Used for local
// development and tests.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// a single writer avoids "database is locked" under concurrent requests
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func dialectorFor(c config.DatabaseConfig) (gorm.Dialector, string, error) {
	switch c.Driver {
	case "sqlite":
		dsn := c.DSN
		if dsn == "" {
			dsn = sqliteDSN(c.Name)
		}
		return sqlite.Open(dsn), dsn, nil
	case "postgres":
		dsn := c.DSN
		if dsn == "" {
			sslmode := "disable"
			switch c.TLS {
			case "true", "preferred":
				sslmode = "require"
				if c.TLSVerify {
					sslmode = "verify-full"
				}
			}
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				c.Host, c.Port, c.User, c.Pass, c.Name, sslmode)
			if c.TLSCAPath != "" {
				dsn += " sslrootcert=" + c.TLSCAPath
			}
		}
		return postgres.Open(dsn), maskPassword(dsn, c.Pass), nil
	case "mysql":
		dsn, err := mysqlDSN(c)
		if err != nil {
			return nil, "", err
		}
		return gormmysql.Open(dsn), maskPassword(dsn, c.Pass), nil
	}
	return nil, "", fmt.Errorf("unsupported database driver %q", c.Driver)
}

func mysqlDSN(c config.DatabaseConfig) (string, error) {
	dsn := c.DSN
	if dsn == "" {
		params := c.Params
		// Ensure TLS/timeout params are present
		if !strings.Contains(params, "tls=") {
			if c.TLS == "true" || c.TLS == "preferred" {
				if c.TLSVerify {
					params += "&tls=custom"
				} else {
					params += "&tls=true"
				}
			}
		}
		for _, p := range []string{"timeout", "readTimeout", "writeTimeout"} {
			if !strings.Contains(params, p+"=") {
				params += "&" + p + "=10s"
			}
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", c.User, c.Pass, c.Host, c.Port, c.Name, strings.TrimPrefix(params, "&"))
	}

	// Register a custom TLS config named "custom" for strict certificate validation
	if strings.Contains(dsn, "tls=custom") {
		tlsCfg := &tls.Config{}
		if c.TLSCAPath != "" {
			caCert, err := os.ReadFile(c.TLSCAPath)
			if err != nil {
				return "", fmt.Errorf("failed reading DB TLS CA file: %w", err)
			}
			pool := x509.NewCertPool()
			if !pool.AppendCertsFromPEM(caCert) {
				return "", errors.New("failed to append CA certs")
			}
			tlsCfg.RootCAs = pool
		}
		if c.TLSClientCert != "" && c.TLSClientKey != "" {
			cert, err := tls.LoadX509KeyPair(c.TLSClientCert, c.TLSClientKey)
			if err != nil {
				return "", fmt.Errorf("failed to load client cert/key: %w", err)
			}
			tlsCfg.Certificates = []tls.Certificate{cert}
		}
		if err := mysqldriver.RegisterTLSConfig("custom", tlsCfg); err != nil {
			return "", err
		}
	}
	return dsn, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func configurePool(sqlDB *sql.DB, c config.DatabaseConfig) {
	if c.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
		return
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
}

func maskPassword(dsn, pass string) string {
	if pass == "" {
		return dsn
	}
	return strings.Replace(dsn, pass, "******", 1)
}

func pingWithTimeout(db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return db.PingContext(ctx)
}
