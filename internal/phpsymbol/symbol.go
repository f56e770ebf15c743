// Package phpsymbol holds the data model produced by the PHP symbol-
// extraction pass: the hierarchical Symbol tree rooted at a file, and the
// flat Reference list alongside it. Nothing in this package parses PHP or
// walks a tree; it only defines the shapes the transformer protocol
// (internal/phpsymbol/transform and internal/phpindex) fills in.
package phpsymbol

// Kind identifies what a Symbol or Reference denotes.
type Kind string

const (
	KindFile           Kind = "file"
	KindNamespace      Kind = "namespace"
	KindClass          Kind = "class"
	KindInterface      Kind = "interface"
	KindTrait          Kind = "trait"
	KindFunction       Kind = "function"
	KindMethod         Kind = "method"
	KindParameter      Kind = "parameter"
	KindProperty       Kind = "property"
	KindClassConstant  Kind = "class_constant"
	KindConstant       Kind = "constant"
	KindVariable       Kind = "variable"
	KindUse            Kind = "use"
)

// Range is a packed document range: byte offsets plus 1-based line/column,
// matching the "packed location" utility spec.md §6 requires from the
// parser collaborator.
type Range struct {
	URI                string
	StartByte, EndByte int
	StartLine, EndLine int
	StartCol, EndCol   int
}

// Doc holds the PHPDoc-derived description and type for a symbol, when a
// doc comment was attached to it (spec.md §4.5).
type Doc struct {
	Description string
	Type        string
}

// Symbol is one node of the hierarchical symbol tree described in
// spec.md §3. Children are owned by their parent: the tree is cut down with
// the parent, there is no separate lifetime.
type Symbol struct {
	Kind      Kind
	Name      string
	Modifiers Modifier
	Type      string
	Location  Range
	Scope     string // containing qualified name, e.g. the owning class FQN
	Value     string // literal text of an initializer, if any
	Children  []*Symbol
	Associated []Reference // base class / implemented interfaces / used traits
	Doc       Doc
}

// Reference is one textual occurrence of a name that denotes a symbol
// (spec.md §3). UnresolvedName is only populated when resolution rewrote
// the name (Function/Constant fallback candidates) — see resolve.Resolver.
type Reference struct {
	Kind           Kind
	Name           string
	UnresolvedName string
	Range          Range
	Type           string
}

// AddChild appends child to s.Children, setting child.Scope to s's
// qualified name when s denotes a scope-bearing kind (namespace, class-like).
// This is a convenience used by the transformer set to preserve the scope-
// closure invariant (spec.md §8 property 4) without repeating it everywhere.
func (s *Symbol) AddChild(child *Symbol) {
	if isScopeBearing(s.Kind) {
		child.Scope = s.Name
	}
	s.Children = append(s.Children, child)
}

// isScopeBearing reports whether kind introduces a scope its children's
// Scope field should record — namespaces and class-like declarations (spec.md
// §8 property 4). Only symbols added through AddChild get a Scope: the
// children of functions and methods (parameters, variables, closures) are
// stored directly and keep an empty Scope.
func isScopeBearing(kind Kind) bool {
	switch kind {
	case KindNamespace, KindClass, KindInterface, KindTrait:
		return true
	default:
		return false
	}
}
