package references

import "strings"

// TokenPlaceholder is replaced by the raw token in Template patterns.
const TokenPlaceholder = "{token}"

// Template is a configurable resolver built from URL and title patterns,
// e.g. name "rfc", URL "https://www.rfc-editor.org/rfc/rfc{token}".
type Template struct {
	RefName      string
	URLPattern   string
	TitlePattern string
}

func (t *Template) Name() string { return t.RefName }

func (t *Template) Resolve(ctx Context, token string) ResolvedReference {
	token = strings.TrimSpace(token)
	url := collapseSlashes(strings.ReplaceAll(t.URLPattern, TokenPlaceholder, token))
	title := token
	if t.TitlePattern != "" {
		title = strings.ReplaceAll(t.TitlePattern, TokenPlaceholder, token)
	}
	return newResolved(ctx, token, url, title)
}

// Defaults returns the built-in resolvers in registration order.
func Defaults() []Reference {
	return []Reference{NewDoc(), NewRef(), NewPHPFunction()}
}
