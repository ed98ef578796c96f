package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

func TestSplit(t *testing.T) {
	cases := []struct {
		name        string
		in          string
		frontmatter string
		body        string
		had         bool
		newline     string
	}{
		{name: "no frontmatter", in: "# Title\n\nHello\n", body: "# Title\n\nHello\n", newline: "\n"},
		{name: "yaml", in: "---\nkey: value\n---\n# Title\n", frontmatter: "key: value\n", body: "# Title\n", had: true, newline: "\n"},
		{name: "empty block", in: "---\n---\nbody\n", body: "body\n", had: true, newline: "\n"},
		{name: "crlf", in: "---\r\nkey: value\r\n---\r\n# Title\r\n", frontmatter: "key: value\r\n", body: "# Title\r\n", had: true, newline: "\r\n"},
		{name: "closing at eof", in: "---\ntitle: x\n---", frontmatter: "title: x\n", had: true, newline: "\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts, err := Split([]byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.had, parts.HasFrontmatter)
			require.Equal(t, tc.frontmatter, string(parts.Frontmatter))
			require.Equal(t, tc.body, string(parts.Body))
			require.Equal(t, tc.newline, parts.Newline)
		})
	}
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestDecode(t *testing.T) {
	f, err := Decode([]byte(`
title: Getting started
links:
  php: https://www.php.net
variables:
  version: "2.1"
toc:
  - caption: Basics
    files: [install, /usage.md]
weight: 3
`))
	require.NoError(t, err)
	require.Equal(t, "Getting started", f.Title)
	require.Equal(t, map[string]string{"php": "https://www.php.net"}, f.Links)
	require.Equal(t, "2.1", f.Variables["version"])
	require.Equal(t, []docset.TocDeclaration{{Caption: "Basics", Files: []string{"install", "/usage.md"}}}, f.Toc)
	require.Equal(t, 3, f.Raw["weight"])
}

func TestDecode_EmptyAndInvalid(t *testing.T) {
	f, err := Decode(nil)
	require.NoError(t, err)
	require.NotNil(t, f.Raw)

	_, err = Decode([]byte("title: [unclosed"))
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(map[string]any{"title": "x", "b": 1}, []byte("body\n"))
	require.NoError(t, err)
	require.NotEmpty(t, a)

	reordered, err := Fingerprint(map[string]any{"b": 1, "title": "x", "fingerprint": "old"}, []byte("body\r\n"))
	require.NoError(t, err)
	require.Equal(t, a, reordered, "key order, the fingerprint field and line endings do not matter")

	changed, err := Fingerprint(map[string]any{"title": "x", "b": 1}, []byte("other\n"))
	require.NoError(t, err)
	require.NotEqual(t, a, changed)
}
