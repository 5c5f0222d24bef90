// Command report prints the analytics of one season and team selection.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/samber/lo"

	app "github.com/okian/pldash/internal/app"
	"github.com/okian/pldash/internal/config"
	"github.com/okian/pldash/internal/domain/export"
	"github.com/okian/pldash/internal/domain/model"
	"github.com/okian/pldash/internal/domain/types"
	"github.com/okian/pldash/pkg/logger"
)

// Output formats.
const (
	formatText = "text"
	formatCSV  = "csv"
	formatJSON = "json"
)

var errUnknownFormat = errors.New("unknown output format")

type options struct {
	season  string
	teams   []string
	format  string
	output  string
	live    bool
	dataset string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts  options
		teams string
	)
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.season, "season", "", "season label, e.g. 2024-25 (default current season)")
	fs.StringVar(&teams, "teams", "", "comma separated team names (default every team)")
	fs.StringVar(&opts.format, "format", formatText, "output format: text, csv or json")
	fs.StringVar(&opts.output, "output", "", "write to this file instead of stdout")
	fs.BoolVar(&opts.live, "live", false, "probe the live data source before reporting")
	fs.StringVar(&opts.dataset, "dataset", "", "dataset YAML file (default built-in dataset)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "teams" {
			return
		}
		opts.teams = lo.Compact(lo.Map(strings.Split(teams, ","), func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))
	})

	switch opts.format {
	case formatText, formatCSV, formatJSON:
	default:
		return options{}, fmt.Errorf("%w: %q", errUnknownFormat, opts.format)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if opts.dataset != "" {
		cfg.DatasetPath = opts.dataset
	}

	log := logger.New(logger.WithFormat(cfg.LogFormat), logger.WithWriter(stderr))
	svcOpts := []app.Option{
		app.WithLogger(log),
		app.WithDatasetPath(cfg.DatasetPath),
		app.WithScoringOptions(cfg.ScoringOptions()...),
	}
	if opts.live {
		// The probe runs once below; the schedule only has to be valid.
		svcOpts = append(svcOpts, app.WithLiveCheck(cfg.LiveCheckURL, cfg.LiveCheckTimeout(), "@every 24h"))
	}
	svc := app.New(svcOpts...)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop(ctx)

	if opts.live {
		svc.CheckLive(ctx)
	}

	req, err := svc.ResolveRequest(ctx, opts.season, opts.teams)
	if err != nil {
		return err
	}

	out := stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.format == formatCSV {
		err := svc.Export(ctx, out, export.FormatCSV, req)
		if errors.Is(err, model.ErrEmptySelection) {
			_, err = fmt.Fprintln(stderr, types.EmptySelectionMessage)
		}
		return err
	}

	dash, err := svc.Dashboard(ctx, req)
	if errors.Is(err, model.ErrEmptySelection) {
		if opts.format == formatJSON {
			return writeJSON(out, types.EmptyNoticeFor(req.Season, err))
		}
		_, err = fmt.Fprintln(out, types.EmptySelectionMessage)
		return err
	}
	if err != nil {
		return err
	}

	if opts.format == formatJSON {
		return writeJSON(out, dash)
	}
	return writeText(out, uuid.NewString(), dash)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeText renders the dashboard as plain text tables.
func writeText(w io.Writer, reportID string, d types.Dashboard) error {
	k := d.View.KPIs
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Premier League Financial Analytics\t%s\n", d.View.Season)
	fmt.Fprintf(tw, "Report\t%s\n", reportID)
	fmt.Fprintf(tw, "Data source\t%s\n\n", d.Live.Source())

	fmt.Fprintf(tw, "Total revenue\t£%.1fm\n", k.TotalRevenue)
	fmt.Fprintf(tw, "Average revenue\t£%.1fm\n", k.AvgTotalRevenue)
	fmt.Fprintf(tw, "Commercial share\t%.1f%%\n", k.CommercialSharePct)
	fmt.Fprintf(tw, "Broadcasting share\t%.1f%%\n", k.BroadcastingSharePct)
	fmt.Fprintf(tw, "Matchday share\t%.1f%%\n", k.MatchdaySharePct)
	fmt.Fprintf(tw, "Average growth\t%.1f%%\n", k.AvgGrowth)
	fmt.Fprintf(tw, "%s target (£%.0fm)\t%+.1f\n\n", d.View.Target.Context, d.View.Target.RevenueTarget, k.TargetDiff)

	fmt.Fprintln(tw, "Team\tRevenue\tGrowth %\tCommercial %\tMatchday %\tPoints\tFEI")
	for _, r := range d.FEITable {
		points := "-"
		if r.Points != nil {
			points = fmt.Sprint(*r.Points)
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%.3f\n",
			r.Team, r.TotalRevenue, r.RevenueGrowthPct, r.CommercialSharePct, r.MatchdaySharePct, points, r.FEI)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, m := range d.View.Mismatches {
		fmt.Fprintf(w, "\nnote: %s has no %s data for %s", m.Team, m.Missing, d.View.Season)
	}

	fmt.Fprintln(w, "\n\nWarnings")
	for _, i := range d.Insights.Warnings {
		fmt.Fprintf(w, "  [%s] %s\n", i.Severity, i.Message)
	}
	fmt.Fprintln(w, "\nRecommendations")
	for _, i := range d.Insights.Recommendations {
		fmt.Fprintf(w, "  [%s] %s\n", i.Severity, i.Message)
	}
	return nil
}
