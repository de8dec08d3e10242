package database

import (
	"context"
	"fmt"
	"time"

	"chatmart/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// sessionTimeZone pins order_date rendering and the date range filters of
// the statistics queries to the shop's local day.
const sessionTimeZone = "Asia/Bangkok"

// NewPool opens the process-wide connection pool and pings it. The caller
// owns the pool and must Close it on shutdown.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.RuntimeParams["timezone"] = sessionTimeZone
	poolConfig.ConnConfig.RuntimeParams["application_name"] = "chatmart"

	dbLogger := logger.With().Str("component", "database").Logger()
	if cfg.LogQueries {
		poolConfig.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger:   queryLogger(dbLogger),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	dbLogger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int("max_connections", cfg.MaxConnections).
		Bool("log_queries", cfg.LogQueries).
		Msg("opening connection pool")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// queryLogger adapts pgx trace output to zerolog.
func queryLogger(logger zerolog.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		var event *zerolog.Event
		switch level {
		case tracelog.LogLevelError:
			event = logger.Error()
		case tracelog.LogLevelWarn:
			event = logger.Warn()
		case tracelog.LogLevelInfo:
			event = logger.Info()
		default:
			event = logger.Debug()
		}
		// args may carry customer phone numbers and addresses
		delete(data, "args")
		event.Fields(data).Msg(msg)
	})
}
