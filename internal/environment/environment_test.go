package environment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docrender/internal/references"
)

type stubReference struct {
	name string
	url  string
}

func (s stubReference) Name() string { return s.name }
func (s stubReference) Resolve(ctx references.Context, token string) references.ResolvedReference {
	return references.ResolvedReference{File: ctx.CurrentFileName(), Token: token, URL: s.url, Attributes: map[string]string{"title": token}}
}

func TestRegisterReference_LastWriteWins(t *testing.T) {
	env := New("/out")
	for _, r := range references.Defaults() {
		env.RegisterReference(r)
	}
	env.RegisterReference(stubReference{name: "doc", url: "custom.html"})
	env.SetCurrentFileName("index.md")

	ref, ok := env.Resolve("doc", "anything")
	require.True(t, ok)
	require.Equal(t, "custom.html", ref.URL)

	ref, ok = env.Snapshot().Resolve("doc", "other")
	require.True(t, ok)
	require.Equal(t, "custom.html", ref.URL)

	_, ok = env.Resolve("unknown", "x")
	require.False(t, ok)
}

func TestLinksAndVariables_DocumentScope(t *testing.T) {
	env := New("/out")
	env.SetLink("home", "https://example.com")
	env.SetVariable("project", "docrender")

	env.SetCurrentFileName("a.md")
	env.SetLink("home", "https://a.example.com")
	env.SetLink("only-a", "a.html")
	env.SetVariable("version", "1.0")
	env.SetVariable("version", "1.1")

	u, _ := env.Link("home")
	require.Equal(t, "https://a.example.com", u)
	v, _ := env.Variable("version")
	require.Equal(t, "1.1", v)

	env.SetCurrentFileName("b.md")
	u, _ = env.Link("home")
	require.Equal(t, "https://example.com", u)
	_, ok := env.Link("only-a")
	require.False(t, ok)
	_, ok = env.Variable("version")
	require.False(t, ok)
	v, _ = env.Variable("project")
	require.Equal(t, "docrender", v)
}

func TestSnapshot_IsIsolatedFromLaterMutation(t *testing.T) {
	env := New("/out")
	env.SetCurrentFileName("a.md")
	env.SetCurrentDirectory("/out/guide")
	env.SetLink("x", "1")
	snap := env.Snapshot()

	env.SetCurrentFileName("b.md")
	env.SetCurrentDirectory("/out")
	env.SetLink("x", "2")
	env.RegisterReference(stubReference{name: "late"})

	require.Equal(t, "a.md", snap.CurrentFileName())
	require.Equal(t, "/out/guide", snap.CurrentDirectory())
	u, _ := snap.Link("x")
	require.Equal(t, "1", u)
	require.False(t, snap.HasReference("late"))
}

func TestRelativeURL(t *testing.T) {
	env := New("/out")
	env.SetCurrentFileName("guide/deep/page.md")
	env.SetCurrentDirectory("/out/guide/deep")
	rc := env.Snapshot()

	require.Equal(t, "../../index.html", rc.RelativeURL("index.html"))
	require.Equal(t, "https://php.net/x", rc.RelativeURL("https://php.net/x"))
	require.Equal(t, "#anchor", rc.RelativeURL("#anchor"))
	require.Equal(t, "", rc.RelativeURL(""))

	env.SetCurrentDirectory("/out")
	require.Equal(t, "index.html", env.Snapshot().RelativeURL("index.html"))
}

func TestResolve_WithoutMetasIsTotal(t *testing.T) {
	env := New("/out")
	for _, r := range references.Defaults() {
		env.RegisterReference(r)
	}
	env.SetCurrentFileName("index.md")

	ref, ok := env.Resolve("doc", "guide/intro")
	require.True(t, ok)
	require.Equal(t, "guide/intro.html", ref.URL)
	require.Equal(t, "guide/intro", ref.Title())

	ref, ok = env.Snapshot().Resolve("ref", "install")
	require.True(t, ok)
	require.Empty(t, ref.URL)

	env.SetMetas(nil)
	ref, ok = env.Resolve("doc", "about")
	require.True(t, ok)
	require.Equal(t, "about.html", ref.URL)
}
