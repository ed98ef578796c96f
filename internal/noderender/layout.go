package noderender

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"git.home.luguber.info/inful/docrender/internal/docset"
	"git.home.luguber.info/inful/docrender/internal/environment"
	"git.home.luguber.info/inful/docrender/internal/markdown"
)

const defaultLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<meta name="docrender:root" content="{{ .Root }}">
</head>
<body>
<main>
{{ .Body }}
</main>
</body>
</html>
`

// Page is the data handed to the layout template.
type Page struct {
	Title string
	File  string
	// Root is the relative path from the page to the output root, for asset links.
	Root      string
	Body      template.HTML
	Variables map[string]string
}

// DocumentRenderer wraps a body renderer's fragment in a full HTML page.
type DocumentRenderer struct {
	Body   environment.NodeRenderer
	Layout *template.Template
}

func (d *DocumentRenderer) RenderDocument(node docset.Node, rc *environment.RenderContext) ([]byte, error) {
	body, err := d.Body.RenderDocument(node, rc)
	if err != nil {
		return nil, err
	}
	page := Page{
		Title:     pageTitle(node, rc),
		File:      rc.CurrentFileName(),
		Root:      rc.RootPath(),
		Body:      template.HTML(body), // #nosec G203 -- produced by the body renderer
		Variables: rc.Variables(),
	}
	var buf bytes.Buffer
	if err := d.Layout.Execute(&buf, page); err != nil {
		return nil, fmt.Errorf("execute layout for %s: %w", rc.CurrentFileName(), err)
	}
	return buf.Bytes(), nil
}

func pageTitle(node docset.Node, rc *environment.RenderContext) string {
	if v, ok := rc.Variable("title"); ok && v != "" {
		return v
	}
	if md, ok := node.(*docset.MarkdownNode); ok {
		if t := markdown.Analyze(md.Source).Title; t != "" {
			return t
		}
	}
	return rc.CurrentFileName()
}

// ParseLayout parses a layout from a file, or the built-in layout when path is empty.
func ParseLayout(path string) (*template.Template, error) {
	if path == "" {
		return template.New("layout").Parse(defaultLayout)
	}
	// #nosec G304 -- layout path comes from the operator's configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	tpl, err := template.New("layout").Option("missingkey=zero").Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", path, err)
	}
	return tpl, nil
}
