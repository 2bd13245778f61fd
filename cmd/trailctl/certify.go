package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pkordes/bluetrail/internal/config"
	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/handler"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/repo"
	"github.com/pkordes/bluetrail/internal/service"
)

// dataLoader reads the reference tables.
type dataLoader interface {
	Load(ctx context.Context) (reference.Data, error)
}

type certifyOptions struct {
	file       string
	trail      string
	policyFile string
	format     string
}

func newCertifyCmd(root *rootOptions) *cobra.Command {
	opts := certifyOptions{}

	cmd := &cobra.Command{
		Use:   "certify",
		Short: "Certify one request body offline",
		Long: "Reads a POST /challenges body from --file (or stdin with -), loads the\n" +
			"reference data from the database and prints the certification.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pool, err := root.pool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			return runCertify(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), repo.NewReferenceRepo(pool), opts, time.Now)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "Request body JSON file, - for stdin")
	cmd.Flags().StringVar(&opts.trail, "trail", "", "Override bookletWhichBlue (OKT, DDK, AK)")
	cmd.Flags().StringVar(&opts.policyFile, "policy", os.Getenv("POLICY_FILE"), "Policy YAML file")
	cmd.Flags().StringVarP(&opts.format, "output", "o", "table", "Output format: table or json")
	return cmd
}

func runCertify(ctx context.Context, out io.Writer, stdin io.Reader, loader dataLoader, opts certifyOptions, now func() time.Time) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("invalid output format: %s (valid values: table, json)", opts.format)
	}

	body, err := readRequest(opts.file, stdin)
	if err != nil {
		return err
	}
	if opts.trail != "" {
		body.BookletWhichBlue = opts.trail
	}
	trail, err := domain.ParseTrail(body.BookletWhichBlue)
	if err != nil {
		return err
	}

	policy, err := config.LoadPolicy(opts.policyFile)
	if err != nil {
		return err
	}
	data, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	store := reference.NewStore()
	store.Replace(reference.NewSnapshot(data, policy.Weights, now()))
	svc := service.NewCertificationService(store, policy, service.WithClock(now))

	cert, err := svc.Certify(ctx, handler.ServiceRequest(trail, body))
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(handler.NewChallengeResponse(cert))
	}
	renderCertification(out, cert)
	return nil
}

func readRequest(path string, stdin io.Reader) (handler.ChallengeRequest, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return handler.ChallengeRequest{}, err
		}
		defer f.Close()
		r = f
	}
	var body handler.ChallengeRequest
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return handler.ChallengeRequest{}, fmt.Errorf("decode request: %w", err)
	}
	return body, nil
}

func renderCertification(out io.Writer, c service.Certification) {
	fmt.Fprintf(out, "%s  %s -> %s  (%s)\n\n", c.Trail, c.Definition.StartCheckpointID, c.Definition.EndCheckpointID, c.ID)

	path := table.NewWriter()
	path.SetOutputMirror(out)
	path.SetStyle(table.StyleLight)
	path.AppendHeader(table.Row{"Segment", "From", "To", "Km", "Kind", "Direction"})
	for _, tr := range c.BestPath {
		path.AppendRow(table.Row{
			tr.Segment.ID,
			tr.From(),
			tr.To(),
			fmt.Sprintf("%.2f", tr.Segment.LengthKm),
			string(tr.Kind),
			string(tr.Direction),
		})
	}
	path.Render()

	if len(c.Rejected) > 0 {
		fmt.Fprintln(out)
		rej := table.NewWriter()
		rej.SetOutputMirror(out)
		rej.SetStyle(table.StyleLight)
		rej.AppendHeader(table.Row{"#", "Stamp Point", "Reason"})
		for _, r := range c.Rejected {
			rej.AppendRow(table.Row{r.Index, r.StampPointID, r.Reason})
		}
		rej.Render()
	}

	s := c.Statistics
	fmt.Fprintln(out)
	st := table.NewWriter()
	st.SetOutputMirror(out)
	st.SetStyle(table.StyleLight)
	st.AppendRows([]table.Row{
		{"Length", fmt.Sprintf("%.2f / %.2f km (%.1f%%)", s.CompletedLength, s.AllLength, s.LengthPercentage)},
		{"Elevation", fmt.Sprintf("%.0f / %.0f m (%.1f%%)", s.CompletedElevation, s.AllElevation, s.ElevationPercentage)},
		{"Checkpoints", fmt.Sprintf("%d done, %d remaining", s.CompletedStamps, s.RemainingStamps)},
		{"Main sections", fmt.Sprintf("%d / %d", s.CompletedMainSections, s.AllMainSections)},
		{"Average speed", fmt.Sprintf("%.2f km/h", s.AverageSpeed)},
		{"Time on trail", fmt.Sprintf("%dd %dh", s.TimeOnBlue.Days, s.TimeOnBlue.Hours)},
		{"Completed", s.Completed},
	})
	st.Render()
}
