package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/environment"
	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/logfields"
	"git.home.luguber.info/inful/docrender/internal/metrics"
	"git.home.luguber.info/inful/docrender/internal/references"
	"git.home.luguber.info/inful/docrender/internal/router"
)

// Handler executes render commands. It is stateless between passes and may be
// shared; each Handle call builds its own Environment.
type Handler struct {
	router     router.Router
	references []references.Reference
	logger     *slog.Logger
	recorder   metrics.Recorder
}

// Option configures a Handler.
type Option func(*Handler)

// WithRouter replaces the default router.
func WithRouter(r router.Router) Option { return func(h *Handler) { h.router = r } }

// WithReferences adds resolvers registered after the built-in ones.
func WithReferences(refs ...references.Reference) Option {
	return func(h *Handler) { h.references = append(h.references, refs...) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(h *Handler) { h.logger = l } }

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option { return func(h *Handler) { h.recorder = r } }

// NewHandler creates a handler with the default router, a noop recorder and slog.Default().
func NewHandler(opts ...Option) *Handler {
	h := &Handler{router: router.New(), logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle renders cmd.Set to cmd.Destination.
//
// A missing renderer or a renderer failure aborts the pass. A failed write only
// fails its document: the remaining documents are still written and the write
// errors are returned joined once the loop is done.
func (h *Handler) Handle(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Set == nil || cmd.Destination == nil || cmd.Format == nil {
		return nil, ferrors.WrapError(ErrInvalidCommand, ferrors.CategoryValidation, "render command needs a set, a destination and a format").Build()
	}
	if cmd.ID == uuid.Nil {
		cmd.ID = uuid.New()
	}
	set := cmd.Set
	log := h.logger.With(logfields.PassID(cmd.ID.String()), logfields.Set(set.Name))
	start := time.Now()
	log.Info("Render pass started", slog.String("format", cmd.Format.Name()), slog.Int("documents", set.Documents.Len()))

	targets, metas, err := h.plan(set)
	if err != nil {
		return nil, err
	}

	factory, err := cmd.Format.NodeRendererFactory()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to build node renderers").
			WithContext("format", cmd.Format.Name()).Build()
	}

	env := environment.New(set.Output)
	env.SetNodeRendererFactory(factory)
	env.SetMetas(references.NewMetaIndex(metas))
	h.registerReferences(env, cmd.References)
	for _, name := range slices.Sorted(maps.Keys(cmd.Links)) {
		env.SetLink(name, cmd.Links[name])
	}
	for _, name := range slices.Sorted(maps.Keys(cmd.Variables)) {
		env.SetVariable(name, cmd.Variables[name])
	}
	if len(set.Sources) > 1 {
		log.Debug("Only the first source root is used for absolute paths",
			slog.String("source", set.Sources[0]), slog.Int("ignored", len(set.Sources)-1))
	}

	result := &Result{PassID: cmd.ID, Set: set.Name}
	var writeErrs []error
	for doc := range set.Documents.All() {
		if err := ctx.Err(); err != nil {
			h.recorder.IncDocumentResult(set.Name, metrics.ResultCanceled)
			return result, err
		}
		target := targets[doc.File]
		docStart := time.Now()

		content, err := h.renderDocument(env, set, doc, target)
		if err != nil {
			h.recorder.IncDocumentResult(set.Name, metrics.ResultFatal)
			log.Error("Render pass aborted", logfields.File(doc.File), logfields.Error(err))
			return result, err
		}

		if err := cmd.Destination.Put(ctx, target, content); err != nil {
			h.recorder.IncDocumentResult(set.Name, metrics.ResultFatal)
			log.Warn("Failed to write document", logfields.File(doc.File), logfields.Target(target), logfields.Error(err))
			writeErrs = append(writeErrs, err)
			result.Failed = append(result.Failed, doc.File)
			continue
		}

		elapsed := time.Since(docStart)
		h.recorder.ObserveDocumentDuration(set.Name, elapsed)
		h.recorder.IncDocumentResult(set.Name, metrics.ResultSuccess)
		result.Targets = append(result.Targets, Target{File: doc.File, Path: target, Fingerprint: doc.Fingerprint})
		log.Debug("Rendered document", logfields.File(doc.File), logfields.Target(target),
			logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	}

	result.Duration = time.Since(start)
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	log.Info("Render pass finished",
		slog.Int("written", len(result.Targets)),
		slog.Int("failed", len(result.Failed)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())),
		slog.Uint64("alloc_bytes", mem.Alloc))

	if len(writeErrs) > 0 {
		return result, ferrors.WrapError(errors.Join(writeErrs...), ferrors.CategoryFileSystem,
			fmt.Sprintf("%d of %d documents could not be written", len(writeErrs), set.Documents.Len())).
			WithContext("set", set.Name).Build()
	}
	return result, nil
}

// plan routes every document up front so that a collision fails the pass before
// anything is written. It also builds the Metas index from the same routes.
func (h *Handler) plan(set *docset.DocumentationSet) (map[string]string, []references.Meta, error) {
	targets := make(map[string]string, set.Documents.Len())
	owners := make(map[string]string, set.Documents.Len())
	metas := make([]references.Meta, 0, set.Documents.Len())
	for doc := range set.Documents.All() {
		route, err := h.router.Generate(doc)
		if err != nil {
			return nil, nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to route document").
				WithContext("file", doc.File).Build()
		}
		target := router.Join(set.Output, route)
		if other, taken := owners[target]; taken {
			return nil, nil, ferrors.WrapError(ErrPathCollision, ferrors.CategoryValidation, "documents share a target path").
				WithContext("target", target).WithContext("file", doc.File).WithContext("other", other).Build()
		}
		owners[target] = doc.File
		targets[doc.File] = target
		metas = append(metas, references.Meta{File: doc.File, URL: router.Trim(route), Title: doc.Title, Anchors: doc.Anchors})
	}
	return targets, metas, nil
}

// registerReferences installs defaults, then handler references, then command
// references. Later registrations replace earlier ones with the same name.
func (h *Handler) registerReferences(env *environment.Environment, extra []references.Reference) {
	for _, group := range [][]references.Reference{references.Defaults(), h.references, extra} {
		for _, ref := range group {
			env.RegisterReference(ref)
		}
	}
}

func (h *Handler) renderDocument(env *environment.Environment, set *docset.DocumentationSet, doc *docset.Document, target string) ([]byte, error) {
	env.SetCurrentFileName(doc.File)
	env.SetCurrentAbsolutePath(absolutePath(set, doc))
	env.SetCurrentDirectory(path.Dir(target))
	for _, name := range slices.Sorted(maps.Keys(doc.Links)) {
		env.SetLink(name, doc.Links[name])
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Variables)) {
		env.SetVariable(name, doc.Variables[name])
	}

	if doc.Node == nil {
		return nil, ferrors.WrapError(ErrMissingNode, ferrors.CategoryRender, "cannot render document").
			WithContext("file", doc.File).Build()
	}
	nodeRenderer, err := env.NodeRendererFactory().Get(doc.Node.NodeType())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "no renderer for document").
			WithContext("file", doc.File).WithContext("node_type", doc.Node.NodeType()).Build()
	}
	content, err := nodeRenderer.RenderDocument(doc.Node, env.Snapshot())
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRender, "failed to render document").
			WithContext("file", doc.File).Build()
	}
	return content, nil
}

// absolutePath is the source directory of doc below the first source root.
func absolutePath(set *docset.DocumentationSet, doc *docset.Document) string {
	if len(set.Sources) == 0 {
		return doc.Dir()
	}
	return path.Join(set.Sources[0], doc.Dir())
}
