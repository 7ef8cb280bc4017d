package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stationops/backend-go/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

// operator is the identity CLI reads run as.
var operator = domain.UserContext{ID: "stationctl", Role: domain.RoleAdmin}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newAsOfFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "as-of",
		Usage: "Reference date (YYYY-MM-DD); defaults to today",
	}
}

func initDB(c *cli.Context) error {
	dsn := c.String("db-url")
	if dsn == "" {
		cfg := config.Load()
		dsn = postgres.DSN(&cfg.Database)
	}

	raw, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
	defer cancel()
	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, postgres.Wrap(sqlx.NewDb(raw, "pgx")))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

// parseAsOf returns the reference time in loc; blank means now.
func parseAsOf(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		return now.In(loc), nil
	}
	day, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: expected YYYY-MM-DD", value)
	}
	return day.Add(12 * time.Hour), nil
}

func main() {
	cfg := config.Load()
	logger.SetFormat(cfg.Log.Format)
	logger.SetLevel(cfg.Log.Level)

	app := &cli.App{
		Name:  "stationctl",
		Usage: "Operate on station ops data: permission table, reports, exports, tokens",
		Commands: []*cli.Command{
			permissionsCommand(),
			tokenCommand(cfg),
			reportCommand(cfg),
			exportCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("stationctl failed")
	}
}
