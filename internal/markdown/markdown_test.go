package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyze_TitleAndAnchors(t *testing.T) {
	body := []byte("# Getting Started\n\nIntro.\n\n## Install the *CLI*\n\n## Configure\n")
	s := Analyze(body)

	require.Equal(t, "Getting Started", s.Title)
	require.Equal(t, []string{"getting-started", "install-the-cli", "configure"}, s.Anchors)
}

func TestAnalyze_NoHeading(t *testing.T) {
	s := Analyze([]byte("just text\n"))
	require.Empty(t, s.Title)
	require.Empty(t, s.Anchors)
}

func TestAnalyze_TitleIsFirstLevelOne(t *testing.T) {
	s := Analyze([]byte("## Sub\n\n# Main\n"))
	require.Equal(t, "Main", s.Title)
}

func TestNew_RendersHeadingIDs(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{}).Convert([]byte("## Configure\n"), &buf))
	require.Contains(t, buf.String(), `<h2 id="configure">Configure</h2>`)
}

func TestParseReferenceDestination(t *testing.T) {
	cases := []struct {
		in          string
		name, token string
		ok          bool
	}{
		{"phpfunction:str_contains", "phpfunction", "str_contains", true},
		{"doc:guide/intro#setup", "doc", "guide/intro#setup", true},
		{"https://example.com", "", "", false},
		{"guide/intro.md", "", "", false},
		{"Doc:x", "", "", false},
		{"doc:", "", "", false},
	}
	for _, tc := range cases {
		name, token, ok := ParseReferenceDestination(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.name, name, tc.in)
		require.Equal(t, tc.token, token, tc.in)
	}
}
