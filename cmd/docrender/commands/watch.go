package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docrender/internal/build"
	"git.home.luguber.info/inful/docrender/internal/config"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/metrics"
	"git.home.luguber.info/inful/docrender/internal/preview"
	"git.home.luguber.info/inful/docrender/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Source     []string      `short:"s" help:"Source directory replacing the sources of every guide set" type:"path"`
	Output     string        `short:"o" help:"Output directory (overrides output.directory)" type:"path"`
	CheckLinks bool          `name:"check-links" help:"Verify internal links after every render"`
	Debounce   time.Duration `help:"Quiet period before re-rendering" default:"300ms"`
	Listen     string        `short:"l" help:"Serve the rendered output, /health and /metrics on this address (e.g. :8080)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root.Config)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := g.logger()
	output := cfg.Output.Directory
	if w.Output != "" {
		output = w.Output
	}
	rec := metrics.NewPrometheusRecorder(nil)
	if w.Listen != "" {
		srv := &http.Server{Addr: w.Listen, Handler: preview.NewServer(output, rec.Registry(), logger), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Preview server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("Serving preview", slog.String("addr", w.Listen), logfields.Path(output))
	}

	svc := build.NewBuildService().WithLogger(logger).WithRecorder(rec)
	req := build.BuildRequest{Config: cfg, OutputDir: w.Output, Sources: w.Source, CheckLinks: w.CheckLinks}

	var previous map[string]string
	rebuild := func(ctx context.Context) error {
		result, err := svc.Run(ctx, req)
		if result != nil {
			printReport(g.out(), result)
		}
		if err != nil {
			return err
		}
		current := result.Fingerprints()
		logger.Info("Render finished", slog.Int("changed", changedTargets(previous, current)), slog.Int("targets", len(current)))
		previous = current
		return nil
	}

	if err := rebuild(ctx); err != nil {
		logger.Error("Initial render failed", logfields.Error(err))
	}

	roots := watchRoots(cfg, w.Source)
	if len(roots) == 0 {
		return errors.New("no source directories to watch")
	}
	for _, r := range roots {
		if within(output, r) {
			logger.Warn("Output directory lies inside a watched source; renders will retrigger", logfields.Path(output))
		}
	}

	fmt.Fprintf(g.out(), "Watching %s\n", strings.Join(roots, ", "))
	return watch.New(roots, w.Debounce, rebuild, logger).Run(ctx)
}

// watchRoots lists the directories that feed the configured sets.
func watchRoots(cfg *config.Config, override []string) []string {
	seen := make(map[string]bool)
	var roots []string
	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		roots = append(roots, p)
	}
	for _, s := range cfg.Sets {
		sources := s.Sources
		if len(override) > 0 && s.Kind == config.SetKindGuide {
			sources = override
		}
		for _, src := range sources {
			add(filepath.Clean(src))
		}
	}
	return roots
}

// changedTargets counts targets that are new or whose source fingerprint differs.
func changedTargets(previous, current map[string]string) int {
	n := 0
	for p, fp := range current {
		if old, ok := previous[p]; !ok || old != fp {
			n++
		}
	}
	return n
}

func within(p, root string) bool {
	absP, err1 := filepath.Abs(p)
	absRoot, err2 := filepath.Abs(root)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absRoot, absP)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
