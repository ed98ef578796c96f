package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docrender/internal/config"
	"git.home.luguber.info/inful/docrender/internal/destination"
	"git.home.luguber.info/inful/docrender/internal/discovery"
	"git.home.luguber.info/inful/docrender/internal/docset"
	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/linkverify"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/metrics"
	"git.home.luguber.info/inful/docrender/internal/noderender"
	"git.home.luguber.info/inful/docrender/internal/references"
	"git.home.luguber.info/inful/docrender/internal/render"
	"git.home.luguber.info/inful/docrender/internal/retry"
	"git.home.luguber.info/inful/docrender/internal/router"
	"git.home.luguber.info/inful/docrender/internal/toc"
)

const (
	stageDiscover   = "discover"
	stageToc        = "toc"
	stageRender     = "render"
	stageLinkVerify = "linkverify"
)

// DefaultBuildService is the standard BuildService.
type DefaultBuildService struct {
	logger   *slog.Logger
	recorder metrics.Recorder
	router   router.Router
}

// NewBuildService creates a service using slog.Default(), a noop recorder and the default router.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{logger: slog.Default(), recorder: metrics.NoopRecorder{}, router: router.New()}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	s.recorder = r
	return s
}

// WithLogger sets the logger.
func (s *DefaultBuildService) WithLogger(l *slog.Logger) *DefaultBuildService {
	s.logger = l
	return s
}

// Run executes discover, toc, render and (optionally) link verification.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	result := &BuildResult{StartTime: time.Now()}
	finish := func(status BuildStatus, outcome metrics.BuildOutcomeLabel) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
		s.recorder.IncBuildOutcome(outcome)
		s.recorder.ObserveBuildDuration(result.Duration)
	}
	fail := func(stage string, err error) (*BuildResult, error) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.recorder.IncStageResult(stage, metrics.ResultCanceled)
			finish(BuildStatusCancelled, metrics.BuildOutcomeCanceled)
			return result, err
		}
		s.recorder.IncStageResult(stage, metrics.ResultFatal)
		finish(BuildStatusFailed, metrics.BuildOutcomeFailed)
		s.logger.Error("Build failed", logfields.Stage(stage), logfields.Error(err))
		return result, err
	}

	if req.Config == nil {
		finish(BuildStatusFailed, metrics.BuildOutcomeFailed)
		return result, ferrors.ConfigError("config required").Build()
	}
	cfg := req.Config
	outputDir := cfg.Output.Directory
	if req.OutputDir != "" {
		outputDir = req.OutputDir
	}
	result.OutputPath = outputDir

	// Stage 1: discovery
	stageStart := time.Now()
	project, err := s.discover(cfg, req, outputDir)
	if err != nil {
		return fail(stageDiscover, ferrors.WrapError(fmt.Errorf("%w: %w", ErrDiscovery, err), ferrors.CategoryDiscovery, "failed to load documentation").Build())
	}
	s.stageDone(stageDiscover, stageStart)

	// Stage 2: table of contents pass
	stageStart = time.Now()
	if err := toc.NewBuilder(s.router, s.logger).Execute(project); err != nil {
		return fail(stageToc, ferrors.WrapError(fmt.Errorf("%w: %w", ErrToc, err), ferrors.CategoryToc, "failed to build table of contents").Build())
	}
	s.stageDone(stageToc, stageStart)

	// Stage 3: render
	stageStart = time.Now()
	if cfg.Output.Clean {
		if err := cleanOutput(outputDir); err != nil {
			return fail(stageRender, err)
		}
	}
	handler := render.NewHandler(
		render.WithRouter(s.router),
		render.WithLogger(s.logger),
		render.WithRecorder(s.recorder),
		render.WithReferences(configuredReferences(cfg.References)...),
	)
	format := &noderender.HTMLFormat{LayoutPath: cfg.Render.Layout, Unsafe: cfg.Render.UnsafeHTML}
	policy := retry.FromConfig(cfg.Retry)

	var written []string
	for _, set := range project.Versions[0].Sets {
		if set.Documents.Len() == 0 {
			s.logger.Debug("Nothing to render", logfields.Set(set.Name))
			continue
		}
		setName := set.Name
		sink := destination.NewFSSink(
			destination.WithPolicy(policy),
			destination.WithRetryHook(func(p string, err error) {
				s.recorder.IncWriteRetry(setName)
				s.logger.Warn("Retrying write", logfields.Set(setName), logfields.Target(p), logfields.Error(err))
			}),
		)
		res, err := handler.Handle(ctx, render.Command{
			Set:         set,
			Destination: sink,
			Format:      format,
			Links:       cfg.Links,
			Variables:   cfg.Variables,
		})
		if res != nil {
			result.Sets = append(result.Sets, SetReport{
				Name: set.Name, Kind: set.Kind, PassID: res.PassID, Output: set.Output,
				Targets: res.Targets, Failed: res.Failed, Tocs: set.Tocs,
			})
			for _, t := range res.Targets {
				written = append(written, t.Path)
			}
		}
		if err != nil {
			return fail(stageRender, ferrors.WrapError(fmt.Errorf("%w: set %s: %w", ErrRender, set.Name, err), ferrors.CategoryRender, "render pass failed").
				WithContext("set", set.Name).Build())
		}
	}
	s.stageDone(stageRender, stageStart)

	// Stage 4: link verification
	if req.CheckLinks || cfg.Render.CheckLinks {
		stageStart = time.Now()
		pages, err := linkverify.ReadPages(written)
		if err != nil {
			return fail(stageLinkVerify, fmt.Errorf("%w: %w", ErrLinkCheck, err))
		}
		broken, err := linkverify.NewVerifier(filepath.ToSlash(outputDir), s.logger).Verify(ctx, pages)
		if err != nil {
			return fail(stageLinkVerify, fmt.Errorf("%w: %w", ErrLinkCheck, err))
		}
		result.BrokenLinks = broken
		s.recorder.SetBrokenLinks(len(broken))
		if len(broken) > 0 {
			s.recorder.IncStageResult(stageLinkVerify, metrics.ResultWarning)
			s.recorder.ObserveStageDuration(stageLinkVerify, time.Since(stageStart))
			finish(BuildStatusWarning, metrics.BuildOutcomeWarning)
			s.logger.Warn("Build finished with broken links", slog.Int("broken", len(broken)))
			return result, nil
		}
		s.stageDone(stageLinkVerify, stageStart)
	}

	finish(BuildStatusSuccess, metrics.BuildOutcomeSuccess)
	s.logger.Info("Build finished", slog.Int("sets", len(result.Sets)), logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

// Plan runs discovery and the table of contents pass without writing anything.
func (s *DefaultBuildService) Plan(req BuildRequest) (*docset.Project, error) {
	if req.Config == nil {
		return nil, ferrors.ConfigError("config required").Build()
	}
	outputDir := req.Config.Output.Directory
	if req.OutputDir != "" {
		outputDir = req.OutputDir
	}
	project, err := s.discover(req.Config, req, outputDir)
	if err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrDiscovery, err), ferrors.CategoryDiscovery, "failed to load documentation").Build()
	}
	if err := toc.NewBuilder(s.router, s.logger).Execute(project); err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrToc, err), ferrors.CategoryToc, "failed to build table of contents").Build()
	}
	return project, nil
}

func (s *DefaultBuildService) stageDone(stage string, start time.Time) {
	s.recorder.ObserveStageDuration(stage, time.Since(start))
	s.recorder.IncStageResult(stage, metrics.ResultSuccess)
}

// discover loads every set and the API model into a single-version project.
func (s *DefaultBuildService) discover(cfg *config.Config, req BuildRequest, outputDir string) (*docset.Project, error) {
	version := &docset.Version{Name: cfg.Project.Version}
	if version.Name == "" {
		version.Name = "latest"
	}
	project := &docset.Project{
		Name:      cfg.Project.Name,
		Namespace: &docset.Namespace{FQSEN: `\`, Kind: docset.KindNamespace},
		Package:   &docset.Namespace{FQSEN: `\`, Kind: docset.KindPackage},
		Versions:  []*docset.Version{version},
	}
	if cfg.Project.API != "" {
		ns, pkg, err := discovery.LoadAPI(cfg.Project.API)
		if err != nil {
			return nil, err
		}
		project.Namespace, project.Package = ns, pkg
	}

	loader := discovery.NewLoader(s.logger)
	for _, sc := range cfg.Sets {
		spec := discovery.SetSpec{
			Name:    sc.Name,
			Kind:    docset.SetKind(sc.Kind),
			Output:  setOutput(outputDir, sc.Output),
			Sources: sc.Sources,
		}
		if len(req.Sources) > 0 && spec.Kind == docset.SetKindGuide {
			spec.Sources = req.Sources
		}
		if spec.Kind == docset.SetKindAPI && len(spec.Sources) == 0 {
			version.Sets = append(version.Sets, &docset.DocumentationSet{
				Name: spec.Name, Kind: spec.Kind, Output: spec.Output, Documents: docset.NewCollection(),
			})
			continue
		}
		set, err := loader.LoadSet(spec)
		if err != nil {
			return nil, err
		}
		version.Sets = append(version.Sets, set)
	}
	return project, nil
}

func setOutput(outputDir, setDir string) string {
	if filepath.IsAbs(setDir) {
		return filepath.ToSlash(setDir)
	}
	return filepath.ToSlash(filepath.Join(outputDir, setDir))
}

// cleanOutput removes a previous build. The filesystem root and the working
// directory are never removed.
func cleanOutput(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ferrors.FileSystemError("cannot resolve output directory").WithContext("path", dir).Build()
	}
	wd, _ := os.Getwd()
	if abs == filepath.Dir(abs) || abs == wd {
		return ferrors.ValidationError("refusing to clean output directory").WithContext("path", abs).Build()
	}
	if err := os.RemoveAll(abs); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to clean output directory").WithContext("path", abs).Build()
	}
	return nil
}

// configuredReferences turns the references section into resolvers registered
// after the built-in ones.
func configuredReferences(rc config.ReferencesConfig) []references.Reference {
	var refs []references.Reference
	if rc.PHPManualBase != "" {
		php := references.NewPHPFunction()
		php.Base = rc.PHPManualBase
		refs = append(refs, php)
	}
	for _, c := range rc.Custom {
		refs = append(refs, &references.Template{RefName: c.Name, URLPattern: c.URL, TitlePattern: c.Title})
	}
	return refs
}
