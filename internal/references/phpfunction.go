package references

import (
	"fmt"
	"strings"
)

// DefaultPHPManualBase is where "phpfunction" references point unless configured otherwise.
const DefaultPHPManualBase = "https://www.php.net/manual/en"

// PHPFunction links PHP built-in function names to their manual page.
type PHPFunction struct {
	Base string
	Ext  string
}

// NewPHPFunction returns the resolver with the default base and "php" extension.
func NewPHPFunction() *PHPFunction {
	return &PHPFunction{Base: DefaultPHPManualBase, Ext: "php"}
}

func (p *PHPFunction) Name() string { return "phpfunction" }

func (p *PHPFunction) Resolve(ctx Context, token string) ResolvedReference {
	ext := p.Ext
	if ext == "" {
		ext = "php"
	}
	name := strings.TrimSuffix(strings.TrimSpace(token), "()")
	page := fmt.Sprintf("function.%s.%s", strings.ReplaceAll(strings.ToLower(name), "_", "-"), strings.TrimPrefix(ext, "."))
	return newResolved(ctx, token, JoinURL(p.Base, page), token)
}
