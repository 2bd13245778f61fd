package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pkordes/bluetrail/internal/graph"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/repo"
)

func newAuditCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Check the reference data for inconsistencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := root.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			n, err := runAudit(cmd.Context(), cmd.OutOrStdout(), repo.NewReferenceRepo(pool))
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%d finding(s)", n)
			}
			return nil
		},
	}
}

func runAudit(ctx context.Context, out io.Writer, loader dataLoader) (int, error) {
	data, err := loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	findings := reference.NewSnapshot(data, graph.DefaultWeights(), time.Now()).Audit()
	if len(findings) == 0 {
		fmt.Fprintln(out, "no findings")
		return 0, nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Trail", "Subject", "Problem"})
	for _, f := range findings {
		t.AppendRow(table.Row{string(f.Trail), f.Subject, f.Problem})
	}
	t.Render()
	return len(findings), nil
}
