package render

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docrender/internal/destination"
	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/environment"
	ferrors "git.home.luguber.info/inful/docrender/internal/foundation/errors"
	"git.home.luguber.info/inful/docrender/internal/metrics"
	"git.home.luguber.info/inful/docrender/internal/noderender"
	"git.home.luguber.info/inful/docrender/internal/references"
)

type stubFormat struct {
	factory environment.NodeRendererFactory
}

func (stubFormat) Name() string { return "stub" }
func (f stubFormat) NodeRendererFactory() (environment.NodeRendererFactory, error) {
	return f.factory, nil
}

// recordingRenderer writes the file name and keeps every snapshot it was handed.
type recordingRenderer struct {
	contexts []*environment.RenderContext
	render   func(rc *environment.RenderContext) string
}

func (r *recordingRenderer) RenderDocument(_ docset.Node, rc *environment.RenderContext) ([]byte, error) {
	r.contexts = append(r.contexts, rc)
	if r.render != nil {
		return []byte(r.render(rc)), nil
	}
	return []byte("rendered:" + rc.CurrentFileName()), nil
}

func markdownFormat(r environment.NodeRenderer) stubFormat {
	return stubFormat{factory: noderender.NewRegistry().Register(docset.NodeTypeMarkdown, r)}
}

func doc(file string) *docset.Document {
	return &docset.Document{File: file, Title: file, Node: &docset.MarkdownNode{Source: []byte("# " + file)}}
}

func guideSet(docs ...*docset.Document) *docset.DocumentationSet {
	return &docset.DocumentationSet{
		Name:      "guide",
		Kind:      docset.SetKindGuide,
		Output:    "/out",
		Sources:   []string{"/src"},
		Documents: docset.NewCollection(docs...),
	}
}

type countingRecorder struct {
	metrics.NoopRecorder
	results map[metrics.ResultLabel]int
}

func (c *countingRecorder) IncDocumentResult(_ string, r metrics.ResultLabel) { c.results[r]++ }

func TestHandle_SingleDocumentTarget(t *testing.T) {
	sink := destination.NewMemorySink()
	renderer := &recordingRenderer{}

	result, err := NewHandler().Handle(context.Background(), Command{
		Set:         guideSet(doc("guide/intro.md")),
		Destination: sink,
		Format:      markdownFormat(renderer),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/out/guide/intro.html"}, sink.Paths())

	content, _ := sink.Get("/out/guide/intro.html")
	require.Equal(t, "rendered:guide/intro.md", string(content))
	require.NotEqual(t, uuid.Nil, result.PassID)
	require.Equal(t, []Target{{File: "guide/intro.md", Path: "/out/guide/intro.html"}}, result.Targets)

	rc := renderer.contexts[0]
	require.Equal(t, "/out/guide", rc.CurrentDirectory())
	require.Equal(t, "/src/guide", rc.CurrentAbsolutePath())
}

func TestHandle_OneUniqueWritePerDocument(t *testing.T) {
	set := guideSet(doc("index"), doc("a.md"), doc("dir/a.md"), doc("dir//b.md"), doc("/c.md"))
	set.Output = "/out/"
	sink := destination.NewMemorySink()

	_, err := NewHandler().Handle(context.Background(), Command{Set: set, Destination: sink, Format: markdownFormat(&recordingRenderer{})})
	require.NoError(t, err)

	paths := sink.Paths()
	require.Len(t, paths, set.Documents.Len())
	for _, p := range paths {
		require.NotContains(t, p, "//")
	}
	require.ElementsMatch(t, []string{"/out/index.html", "/out/a.html", "/out/dir/a.html", "/out/dir/b.html", "/out/c.html"}, paths)
}

func TestHandle_PathCollisionFailsBeforeWriting(t *testing.T) {
	sink := destination.NewMemorySink()
	_, err := NewHandler().Handle(context.Background(), Command{
		Set:         guideSet(doc("a.md"), doc("a.rst")),
		Destination: sink,
		Format:      markdownFormat(&recordingRenderer{}),
	})
	require.ErrorIs(t, err, ErrPathCollision)
	require.Zero(t, sink.Len())
}

type fixedReference struct {
	name string
	url  string
}

func (f fixedReference) Name() string { return f.name }
func (f fixedReference) Resolve(_ references.Context, token string) references.ResolvedReference {
	return references.ResolvedReference{Token: token, URL: f.url, Attributes: map[string]string{"title": token}}
}

func TestHandle_CustomDocReferenceOverridesDefault(t *testing.T) {
	sink := destination.NewMemorySink()
	renderer := &recordingRenderer{render: func(rc *environment.RenderContext) string {
		resolved, ok := rc.Resolve("doc", "other")
		if !ok {
			return "unresolved"
		}
		return resolved.URL
	}}

	_, err := NewHandler().Handle(context.Background(), Command{
		Set:         guideSet(doc("index"), doc("other.md")),
		Destination: sink,
		Format:      markdownFormat(renderer),
		References:  []references.Reference{fixedReference{name: "doc", url: "https://custom.example/doc"}},
	})
	require.NoError(t, err)
	for _, p := range sink.Paths() {
		content, _ := sink.Get(p)
		require.Equal(t, "https://custom.example/doc", string(content))
	}
}

func TestHandle_DefaultReferencesUseRoutes(t *testing.T) {
	sink := destination.NewMemorySink()
	renderer := &recordingRenderer{render: func(rc *environment.RenderContext) string {
		resolved, _ := rc.Resolve("doc", "guide/intro")
		return resolved.URL + "|" + resolved.Title()
	}}
	intro := doc("guide/intro.md")
	intro.Title = "Introduction"

	_, err := NewHandler().Handle(context.Background(), Command{
		Set:         guideSet(doc("index"), intro),
		Destination: sink,
		Format:      markdownFormat(renderer),
	})
	require.NoError(t, err)
	content, _ := sink.Get("/out/index.html")
	require.Equal(t, "guide/intro.html|Introduction", string(content))
}

func TestHandle_HandlerReferencesRegisteredBeforeCommandReferences(t *testing.T) {
	sink := destination.NewMemorySink()
	renderer := &recordingRenderer{render: func(rc *environment.RenderContext) string {
		resolved, _ := rc.Resolve("rfc", "2119")
		return resolved.URL
	}}
	h := NewHandler(WithReferences(fixedReference{name: "rfc", url: "handler"}))

	_, err := h.Handle(context.Background(), Command{
		Set:         guideSet(doc("index")),
		Destination: sink,
		Format:      markdownFormat(renderer),
		References:  []references.Reference{fixedReference{name: "rfc", url: "command"}},
	})
	require.NoError(t, err)
	content, _ := sink.Get("/out/index.html")
	require.Equal(t, "command", string(content))
}

func TestHandle_RendererNotFoundAbortsPass(t *testing.T) {
	sink := destination.NewMemorySink()
	raw := &docset.Document{File: "raw.html", Node: &docset.RawNode{Content: []byte("<p>")}}
	recorder := &countingRecorder{results: map[metrics.ResultLabel]int{}}

	_, err := NewHandler(WithRecorder(recorder)).Handle(context.Background(), Command{
		Set:         guideSet(doc("index"), raw, doc("after.md")),
		Destination: sink,
		Format:      markdownFormat(&recordingRenderer{}),
	})
	var notFound *environment.RendererNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, docset.NodeTypeRaw, notFound.NodeType)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryRender))
	require.Equal(t, []string{"/out/index.html"}, sink.Paths(), "nothing after the failing document is written")
	require.Equal(t, 1, recorder.results[metrics.ResultFatal])
}

func TestHandle_WriteFailureContinues(t *testing.T) {
	sink := destination.NewMemorySink()
	boom := errors.New("disk full")
	sink.Fail = func(p string) error {
		if strings.HasSuffix(p, "/b.html") {
			return boom
		}
		return nil
	}
	recorder := &countingRecorder{results: map[metrics.ResultLabel]int{}}

	result, err := NewHandler(WithRecorder(recorder)).Handle(context.Background(), Command{
		Set:         guideSet(doc("a.md"), doc("b.md"), doc("c.md")),
		Destination: sink,
		Format:      markdownFormat(&recordingRenderer{}),
	})
	require.ErrorIs(t, err, boom)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	require.Equal(t, []string{"/out/a.html", "/out/c.html"}, sink.Paths())
	require.Equal(t, []string{"b.md"}, result.Failed)
	require.Len(t, result.Targets, 2)
	require.Equal(t, 2, recorder.results[metrics.ResultSuccess])
	require.Equal(t, 1, recorder.results[metrics.ResultFatal])
}

func TestHandle_DocumentScopeDoesNotLeak(t *testing.T) {
	first := doc("first.md")
	first.Variables = map[string]string{"release": "1.0", "project": "Override"}
	first.Links = map[string]string{"home": "https://first.example"}
	second := doc("second.md")
	renderer := &recordingRenderer{}

	_, err := NewHandler().Handle(context.Background(), Command{
		Set:         guideSet(first, second),
		Destination: destination.NewMemorySink(),
		Format:      markdownFormat(renderer),
		Variables:   map[string]string{"project": "Demo"},
	})
	require.NoError(t, err)
	require.Len(t, renderer.contexts, 2)

	v, _ := renderer.contexts[0].Variable("project")
	require.Equal(t, "Override", v)
	_, ok := renderer.contexts[0].Link("home")
	require.True(t, ok)

	v, _ = renderer.contexts[1].Variable("project")
	require.Equal(t, "Demo", v)
	_, ok = renderer.contexts[1].Variable("release")
	require.False(t, ok)
	_, ok = renderer.contexts[1].Link("home")
	require.False(t, ok)
}

func TestHandle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := destination.NewMemorySink()
	_, err := NewHandler().Handle(ctx, Command{Set: guideSet(doc("a.md")), Destination: sink, Format: markdownFormat(&recordingRenderer{})})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, sink.Len())
}

func TestHandle_InvalidCommand(t *testing.T) {
	_, err := NewHandler().Handle(context.Background(), Command{})
	require.ErrorIs(t, err, ErrInvalidCommand)
}

func TestHandle_MarkdownEndToEnd(t *testing.T) {
	intro := &docset.Document{
		File:  "guide/intro.md",
		Title: "Intro",
		Node:  &docset.MarkdownNode{Source: []byte("# Intro\n\nSee [](doc:/index) and [str_contains](phpfunction:str_contains).\n")},
	}
	index := &docset.Document{File: "index", Title: "Home", Node: &docset.MarkdownNode{Source: []byte("# Home\n")}}
	sink := destination.NewMemorySink()

	start := time.Now()
	result, err := NewHandler().Handle(context.Background(), Command{
		Set:         guideSet(index, intro),
		Destination: sink,
		Format:      &noderender.HTMLFormat{},
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), result.Duration)

	content, ok := sink.Get("/out/guide/intro.html")
	require.True(t, ok)
	html := string(content)
	require.Contains(t, html, `href="../index.html"`)
	require.Contains(t, html, ">Home</a>")
	require.Contains(t, html, `href="https://www.php.net/manual/en/function.str-contains.php"`)
}
