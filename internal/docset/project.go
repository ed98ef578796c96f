package docset

// NamespaceKind tells namespaces and packages apart; both form the same kind of tree.
type NamespaceKind string

const (
	KindNamespace NamespaceKind = "namespace"
	KindPackage   NamespaceKind = "package"
)

// Namespace is a grouping node of the API model.
type Namespace struct {
	Name string `yaml:"name" json:"name"`
	// FQSEN is the fully qualified name, e.g. `\Acme\Http`.
	FQSEN    string        `yaml:"fqsen" json:"fqsen"`
	Kind     NamespaceKind `yaml:"-" json:"kind"`
	Children []*Namespace  `yaml:"children,omitempty" json:"children,omitempty"`
}

// FullyQualifiedName falls back to `\Name` when no FQSEN was recorded.
func (n *Namespace) FullyQualifiedName() string {
	if n.FQSEN != "" {
		return n.FQSEN
	}
	return `\` + n.Name
}

// Version groups the documentation sets of one project version.
type Version struct {
	Name string
	Sets []*DocumentationSet
}

// Project is the whole documentation model handed to compiler passes.
type Project struct {
	Name      string
	Namespace *Namespace
	Package   *Namespace
	Versions  []*Version
}
