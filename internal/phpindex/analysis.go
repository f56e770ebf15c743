// Package phpindex wires the generic stack-based transformer protocol in
// internal/phpsymbol/transform to the concrete PHP grammar: one Transformer
// per declaration/expression kind spec.md §4.3 names, driven over a tree
// parsed by github.com/VKCOM/php-parser. It lives above phpsymbol/resolve/
// phpdoc rather than inside any of them so those packages stay free of a
// dependency on the parser and on each other's concrete Transformer Set.
package phpindex

import (
	"github.com/doITmagic/phpindex/internal/phpsymbol"
	"github.com/doITmagic/phpindex/internal/phpsymbol/resolve"
)

// Analysis is the result of walking one document: the File symbol (whose
// Children hold the declaration tree) plus the flat Reference list spec.md
// §3 says a complete pass produces alongside it.
type Analysis struct {
	URI        string
	File       *phpsymbol.Symbol
	References []phpsymbol.Reference
}

// context threads the state every Transformer in the set needs but that
// doesn't belong on the Transformer itself: the shared Resolver (namespace/
// use-rule/class-stack) and the sink References get appended to. It is built once per document and closed over by the
// Factory, mirroring how the teacher's symbolCollector visitor carries
// ca *CodeAnalyzer / currentClass / imports as visitor fields instead of
// threading them through every method call.
type context struct {
	uri        string
	resolver   *resolve.Resolver
	references *[]phpsymbol.Reference
}

func (c *context) addReference(ref phpsymbol.Reference) {
	*c.references = append(*c.references, ref)
}
