package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/config"
)

// Options is the subset of config.Config needed to reach MySQL.
type Options struct {
	User, Pass, Host, Port, Name string
	CAPath                       string // PEM bundle; skipped when the file is absent
	MaxConns                     int
	RequireTLS                   bool // fall back to unverified TLS when no CA is available
}

// OptionsFrom extracts database settings from the application config.
// Outside the dev environment TLS is always negotiated.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		User:       cfg.DBUser,
		Pass:       cfg.DBPass,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		Name:       cfg.DBName,
		CAPath:     cfg.DBCAPath,
		MaxConns:   cfg.DBMaxConns,
		RequireTLS: cfg.Env != "dev",
	}
}

// DriverConfig builds the driver configuration.  parseTime=true maps
// DATETIME to time.Time, loc=UTC keeps times consistent, and
// ClientFoundRows makes UPDATE report matched rows so an update that leaves
// values unchanged is not mistaken for a missing row.
func DriverConfig(o Options) (*mysql.Config, error) {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, o.Port)
	cfg.DBName = o.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	cfg.Timeout = 10 * time.Second
	cfg.Params = map[string]string{"charset": "utf8mb4"}

	tlsConf, err := tlsConfig(o)
	if err != nil {
		return nil, err
	}
	cfg.TLS = tlsConf
	return cfg, nil
}

func tlsConfig(o Options) (*tls.Config, error) {
	pem, err := os.ReadFile(o.CAPath)
	switch {
	case err == nil:
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", o.CAPath)
		}
		return &tls.Config{RootCAs: pool, ServerName: o.Host, MinVersion: tls.VersionTLS12}, nil
	case os.IsNotExist(err) || o.CAPath == "":
		if o.RequireTLS {
			return &tls.Config{InsecureSkipVerify: true, MinVersion: tls.VersionTLS12}, nil
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("read %s: %w", o.CAPath, err)
	}
}

// Open connects to MySQL and verifies the connection.  The pool is capped at
// MaxConns; database/sql makes further callers wait for a free connection
// rather than failing them.
func Open(o Options) (*sql.DB, error) {
	cfg, err := DriverConfig(o)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	db := sql.OpenDB(connector)

	maxConns := o.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
