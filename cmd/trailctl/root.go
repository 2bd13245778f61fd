package main

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	databaseURL string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "trailctl",
		Short:        "Operate the Blue Trail certification service",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"),
		"Postgres connection string (default $DATABASE_URL)")

	cmd.AddCommand(newMigrateCmd(opts))
	cmd.AddCommand(newCertifyCmd(opts))
	cmd.AddCommand(newAuditCmd(opts))
	return cmd
}

// pool opens and pings a connection pool.
func (o *rootOptions) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if o.databaseURL == "" {
		return nil, errors.New("--database-url or DATABASE_URL is required")
	}
	pool, err := pgxpool.New(ctx, o.databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
