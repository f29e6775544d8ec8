// database/db.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"healthpredict-web/config"
)

const pingTimeout = 5 * time.Second

// Connect opens the Postgres pool described by cfg and checks it is
// reachable.
func Connect(cfg *config.DatabaseConfig, logger *logrus.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	logger.Info("Connected to diagnostics database")
	return db, nil
}

// InitDB creates the diagnostics tables when missing.
func InitDB(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS fetch_failures (
            id SERIAL PRIMARY KEY,
            view VARCHAR(10) NOT NULL,
            email VARCHAR(255) NOT NULL,
            kind VARCHAR(20) NOT NULL,
            status_code INTEGER,
            message TEXT NOT NULL,
            occurred_at TIMESTAMP NOT NULL DEFAULT NOW()
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create fetch_failures: %w", err)
	}

	_, err = db.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_fetch_failures_email ON fetch_failures(email);
        CREATE INDEX IF NOT EXISTS idx_fetch_failures_occurred_at ON fetch_failures(occurred_at);
    `)
	if err != nil {
		return fmt.Errorf("failed to create fetch_failures indexes: %w", err)
	}
	return nil
}
