// Package postgres opens pgx connection pools with query tracing through the service logger.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	pgxslog "github.com/mcosta74/pgx-slog"
)

const (
	DefaultMaxConns = 16
	DefaultMinConns = 0
)

// Queryable runs statements. Satisfied by pools, connections and transactions.
type Queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Queryable that can open transactions.
type DB interface {
	Queryable
	BeginTx(ctx context.Context, options pgx.TxOptions) (pgx.Tx, error)
}

var (
	_ DB = (*pgxpool.Pool)(nil)
	_ DB = (*pgx.Conn)(nil)
)

type Config struct {
	// URL is a postgres:// connection URL. When set, the discrete fields are ignored.
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`     // Default is 127.0.0.1
	Port     string `mapstructure:"port"`     // Default is 5432
	User     string `mapstructure:"user"`     // Default is empty
	Password string `mapstructure:"password"` // Default is empty
	DBName   string `mapstructure:"db_name"`  // Default is postgres
	SSLMode  string `mapstructure:"ssl_mode"` // Default is prefer

	MaxConns int32 `mapstructure:"max_conns"` // Default is 16
	MinConns int32 `mapstructure:"min_conns"` // Default is 0

	// Debug traces every query at debug level. Otherwise only failed queries are logged.
	Debug bool `mapstructure:"debug"`
}

// NewPool connects a pool and pings the database.
func NewPool(ctx context.Context, conf Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(conf.String())
	if err != nil {
		return nil, errors.Wrap(err, "can't parse postgres config")
	}
	poolConfig.MaxConns = utils.Default(conf.MaxConns, DefaultMaxConns)
	poolConfig.MinConns = utils.Default(conf.MinConns, DefaultMinConns)
	poolConfig.ConnConfig.Tracer = conf.tracer()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "can't create postgres pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "can't reach postgres")
	}
	return pool, nil
}

// String returns the connection string: URL when set, otherwise a keyword/value DSN.
func (conf Config) String() string {
	if conf.URL != "" {
		return conf.URL
	}
	parts := []string{
		"host=" + utils.Default(conf.Host, "127.0.0.1"),
		"port=" + utils.Default(conf.Port, "5432"),
		"dbname=" + utils.Default(conf.DBName, "postgres"),
		"sslmode=" + utils.Default(conf.SSLMode, "prefer"),
	}
	if conf.User != "" {
		parts = append(parts, "user="+conf.User)
	}
	if conf.Password != "" {
		parts = append(parts, fmt.Sprintf("password='%s'", strings.ReplaceAll(conf.Password, "'", `\'`)))
	}
	return strings.Join(parts, " ")
}

func (conf Config) tracer() pgx.QueryTracer {
	level := tracelog.LogLevelError
	if conf.Debug {
		level = tracelog.LogLevelDebug
	}
	return &tracelog.TraceLog{
		Logger:   pgxslog.NewLogger(logger.With(slogx.String("package", "postgres"))),
		LogLevel: level,
	}
}
