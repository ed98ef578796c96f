package discovery

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docrender/internal/docset"
)

// apiFile is the on-disk shape of the API model:
//
//	namespaces:
//	  - name: Acme
//	    children:
//	      - name: Http
//	packages:
//	  - name: Core
type apiFile struct {
	Namespaces []*docset.Namespace `yaml:"namespaces"`
	Packages   []*docset.Namespace `yaml:"packages"`
}

// LoadAPI reads the namespace and package trees. Each tree gets a synthetic root
// (the global namespace / default package) holding the declared top-level nodes.
// Missing FQSENs are derived from the parent chain.
func LoadAPI(p string) (namespace, pkg *docset.Namespace, err error) {
	data, err := os.ReadFile(p) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, p, err)
	}
	return ParseAPI(data)
}

// ParseAPI is LoadAPI over bytes.
func ParseAPI(data []byte) (namespace, pkg *docset.Namespace, err error) {
	var f apiFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("decode api model: %w", err)
	}
	namespace = &docset.Namespace{FQSEN: `\`, Kind: docset.KindNamespace, Children: f.Namespaces}
	pkg = &docset.Namespace{FQSEN: `\`, Kind: docset.KindPackage, Children: f.Packages}
	if err := complete(namespace, ""); err != nil {
		return nil, nil, err
	}
	if err := complete(pkg, ""); err != nil {
		return nil, nil, err
	}
	return namespace, pkg, nil
}

func complete(parent *docset.Namespace, prefix string) error {
	for _, child := range parent.Children {
		if child == nil || strings.TrimSpace(child.Name) == "" {
			return fmt.Errorf("api model: unnamed %s below %q", parent.Kind, parent.FQSEN)
		}
		child.Kind = parent.Kind
		if child.FQSEN == "" {
			child.FQSEN = prefix + `\` + child.Name
		}
		if err := complete(child, child.FQSEN); err != nil {
			return err
		}
	}
	return nil
}
