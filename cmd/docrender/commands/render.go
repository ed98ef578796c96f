package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docrender/internal/build"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/metrics"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Source      []string `short:"s" help:"Source directory replacing the sources of every guide set" type:"path"`
	Output      string   `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	CheckLinks  bool     `name:"check-links" help:"Verify internal links of the rendered output"`
	MetricsFile string   `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" type:"path"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintln(g.out(), "Starting docrender render")

	rec := metrics.NewPrometheusRecorder(nil)
	svc := build.NewBuildService().WithLogger(g.logger()).WithRecorder(rec)
	result, runErr := svc.Run(ctx, build.BuildRequest{
		Config:     cfg,
		OutputDir:  r.Output,
		Sources:    r.Source,
		CheckLinks: r.CheckLinks,
	})
	if result != nil {
		printReport(g.out(), result)
	}
	if r.MetricsFile != "" {
		if err := metrics.WriteTextfile(rec.Registry(), r.MetricsFile); err != nil {
			g.logger().Warn("Failed to write metrics", logfields.Path(r.MetricsFile), logfields.Error(err))
		}
	}
	return runErr
}

func printReport(w io.Writer, result *build.BuildResult) {
	for _, s := range result.Sets {
		fmt.Fprintf(w, "%s (%s): %d written", s.Name, s.Kind, len(s.Targets))
		if len(s.Failed) > 0 {
			fmt.Fprintf(w, ", %d failed", len(s.Failed))
		}
		fmt.Fprintf(w, " -> %s\n", s.Output)
	}
	for _, b := range result.BrokenLinks {
		fmt.Fprintf(w, "broken link in %s: %s (%s)\n", b.Page, b.Link.URL, b.Reason)
	}
	fmt.Fprintf(w, "Render %s in %s\n", result.Status, result.Duration.Round(time.Millisecond))
}
