package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func TestLoadSet(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.md": "---\ntitle: Home\ntoc:\n  - files: [guide/intro]\n---\n# Welcome\n",
		"guide/intro.md": "---\nvariables:\n  version: \"2\"\nlinks:\n  php: https://php.net\n---\n# Introduction\n\n## Install it\n",
		"guide/legacy.html": "<html><head><title> Legacy </title></head><body><h2 id=\"old\">Old</h2></body></html>",
		"notes.txt":         "ignored",
		".hidden/secret.md": "# hidden",
	})

	set, err := NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Output: "/out", Sources: []string{root}})
	require.NoError(t, err)
	require.Equal(t, 3, set.Documents.Len())

	index, err := set.Documents.Get("index")
	require.NoError(t, err)
	require.Equal(t, "Home", index.Title)
	require.Equal(t, []docset.TocDeclaration{{Files: []string{"guide/intro"}}}, index.Tocs)
	require.NotEmpty(t, index.Fingerprint)
	md, ok := index.Node.(*docset.MarkdownNode)
	require.True(t, ok)
	require.Equal(t, "# Welcome\n", string(md.Source))

	intro, err := set.Documents.Get("guide/intro.md")
	require.NoError(t, err)
	require.Equal(t, "Introduction", intro.Title)
	require.Equal(t, "2", intro.Variables["version"])
	require.Equal(t, "https://php.net", intro.Links["php"])
	require.Contains(t, intro.Anchors, "install-it")

	legacy, err := set.Documents.Get("guide/legacy.html")
	require.NoError(t, err)
	require.Equal(t, "Legacy", legacy.Title)
	require.Equal(t, []string{"old"}, legacy.Anchors)
	require.Equal(t, docset.NodeTypeRaw, legacy.Node.NodeType())
}

func TestLoadSet_FirstSourceWins(t *testing.T) {
	primary, secondary := t.TempDir(), t.TempDir()
	writeFiles(t, primary, map[string]string{"index.md": "# Primary\n"})
	writeFiles(t, secondary, map[string]string{"index.md": "# Secondary\n", "extra.md": "# Extra\n"})

	set, err := NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Sources: []string{primary, secondary}})
	require.NoError(t, err)
	require.Equal(t, 2, set.Documents.Len())
	index, _ := set.Documents.Get("index")
	require.Equal(t, "Primary", index.Title)
}

func TestLoadSet_Errors(t *testing.T) {
	_, err := NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Sources: []string{filepath.Join(t.TempDir(), "missing")}})
	require.ErrorIs(t, err, ErrSourceNotFound)

	_, err = NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Sources: []string{t.TempDir()}})
	require.ErrorIs(t, err, ErrNoDocsFound)

	broken := t.TempDir()
	writeFiles(t, broken, map[string]string{"index.md": "---\ntitle: x\n# never closed\n"})
	_, err = NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Sources: []string{broken}})
	require.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestLoadSet_TitleFallsBackToFileName(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"guide/no-heading.md": "just text\n"})

	set, err := NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Sources: []string{root}})
	require.NoError(t, err)
	doc, _ := set.Documents.Get("guide/no-heading")
	require.Equal(t, "no-heading", doc.Title)
}

func TestParseAPI(t *testing.T) {
	ns, pkg, err := ParseAPI([]byte(`
namespaces:
  - name: Acme
    children:
      - name: Http
packages:
  - name: Core
    fqsen: \Vendor\Core
`))
	require.NoError(t, err)
	require.Len(t, ns.Children, 1)
	acme := ns.Children[0]
	require.Equal(t, `\Acme`, acme.FQSEN)
	require.Equal(t, docset.KindNamespace, acme.Kind)
	require.Equal(t, `\Acme\Http`, acme.Children[0].FQSEN)

	require.Equal(t, docset.KindPackage, pkg.Children[0].Kind)
	require.Equal(t, `\Vendor\Core`, pkg.Children[0].FQSEN)
}

func TestParseAPI_UnnamedNode(t *testing.T) {
	_, _, err := ParseAPI([]byte("namespaces:\n  - children: []\n"))
	require.Error(t, err)
}

func TestLoadSet_KeepsSameStemDocuments(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"index.md": "# Home\n",
		"api.md":   "# API\n",
		"api.html": "<html><head><title>API page</title></head></html>",
	})

	set, err := NewLoader(nil).LoadSet(SetSpec{Name: "guide", Kind: docset.SetKindGuide, Output: "/out", Sources: []string{root}})
	require.NoError(t, err)
	require.Equal(t, 3, set.Documents.Len())
	require.True(t, set.Documents.Has("api.md"))
	require.True(t, set.Documents.Has("api.html"))
}
