package main

import (
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/bluetrail/migrations"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the reference schema",
	}

	run := func(action func(cmd *cobra.Command, p *goose.Provider) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			pool, err := opts.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			db := stdlib.OpenDBFromPool(pool)
			defer db.Close()

			p, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
			if err != nil {
				return fmt.Errorf("create goose provider: %w", err)
			}
			return action(cmd, p)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, p *goose.Provider) error {
			results, err := p.Up(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s (%s)\n", r.Source.Path, r.Duration)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, p *goose.Provider) error {
			r, err := p.Down(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s\n", r.Source.Path)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		Args:  cobra.NoArgs,
		RunE: run(func(cmd *cobra.Command, p *goose.Provider) error {
			statuses, err := p.Status(cmd.Context())
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Version", "File", "State", "Applied At"})
			for _, s := range statuses {
				applied := ""
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				t.AppendRow(table.Row{s.Source.Version, s.Source.Path, string(s.State), applied})
			}
			t.Render()
			return nil
		}),
	})

	return cmd
}
