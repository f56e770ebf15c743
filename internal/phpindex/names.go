package phpindex

import (
	"strings"

	"github.com/VKCOM/php-parser/pkg/ast"
	"github.com/VKCOM/php-parser/pkg/position"
	"github.com/VKCOM/php-parser/pkg/token"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
	"github.com/doITmagic/phpindex/internal/phpsymbol/resolve"
)

// nameParts collapses a *ast.Name/*ast.NameFullyQualified/*ast.NameRelative
// "Parts []ast.Vertex of *ast.NamePart" shape into the backslash-joined
// string all three share, the same collapsing the teacher's extractName
// does per node kind.
func nameParts(parts []ast.Vertex) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if np, ok := p.(*ast.NamePart); ok {
			segs = append(segs, string(np.Value))
		}
	}
	return strings.Join(segs, `\`)
}

// resolveNameVertex resolves any of the three name-vertex shapes php-parser
// produces for a class-like reference into a fully-qualified name, threading
// the resolution through r so use-imports and the current namespace apply.
func resolveNameVertex(v ast.Vertex, r *resolve.Resolver, kind phpsymbol.Kind) (resolved, unresolved string) {
	switch n := v.(type) {
	case *ast.Name:
		return r.ResolveNotFullyQualified(nameParts(n.Parts), kind)
	case *ast.NameFullyQualified:
		return resolve.ResolveFullyQualified(`\` + nameParts(n.Parts)), ""
	case *ast.NameRelative:
		return r.ResolveRelative(nameParts(n.Parts)), ""
	case *ast.Identifier:
		return r.ResolveNotFullyQualified(string(n.Value), kind)
	}
	return "", ""
}

// typeNameVertex extracts the textual type of a type-hint vertex (a plain or
// nullable name), resolved to FQNs; union and intersection type hints are
// not handled and yield "". It mirrors the
// teacher's extractTypeName but routed through the shared resolver so class
// references in type hints are resolved the same way doc-tag types are.
func typeNameVertex(v ast.Vertex, r *resolve.Resolver) string {
	if v == nil {
		return ""
	}
	switch n := v.(type) {
	case *ast.Nullable:
		return "?" + typeNameVertex(n.Expr, r)
	case *ast.Identifier:
		name := string(n.Value)
		if resolve.IsReservedWord(name) {
			return name
		}
		resolved, _ := r.ResolveNotFullyQualified(name, phpsymbol.KindClass)
		return resolved
	case *ast.Name, *ast.NameFullyQualified, *ast.NameRelative:
		resolved, _ := resolveNameVertex(n.(ast.Vertex), r, phpsymbol.KindClass)
		return resolved
	}
	return ""
}

// variableName reads the identifier name out of an *ast.ExprVariable,
// re-prefixed with "$" the way spec.md's symbol names are written.
func variableName(v ast.Vertex) string {
	exprVar, ok := v.(*ast.ExprVariable)
	if !ok {
		return ""
	}
	if ident, ok := exprVar.Name.(*ast.Identifier); ok {
		return "$" + string(ident.Value)
	}
	return ""
}

func identifierName(v ast.Vertex) string {
	if ident, ok := v.(*ast.Identifier); ok {
		return string(ident.Value)
	}
	return ""
}

func hasModifier(modifiers []ast.Vertex, name string) bool {
	for _, m := range modifiers {
		if identifierName(m) == name {
			return true
		}
	}
	return false
}

func visibilityModifier(modifiers []ast.Vertex) phpsymbol.Modifier {
	switch {
	case hasModifier(modifiers, "private"):
		return phpsymbol.Private
	case hasModifier(modifiers, "protected"):
		return phpsymbol.Protected
	default:
		return phpsymbol.Public
	}
}

func collectModifiers(modifiers []ast.Vertex) phpsymbol.Modifier {
	var m phpsymbol.Modifier
	m |= visibilityModifier(modifiers)
	if hasModifier(modifiers, "static") {
		m |= phpsymbol.Static
	}
	if hasModifier(modifiers, "final") {
		m |= phpsymbol.Final
	}
	if hasModifier(modifiers, "abstract") {
		m |= phpsymbol.Abstract
	}
	if hasModifier(modifiers, "readonly") {
		m |= phpsymbol.ReadOnly
	}
	return m
}

// rawDocComment finds the T_DOC_COMMENT free-floating token attached ahead
// of tok, if any, matching parsePHPDoc in the teacher's php analyzer.
func rawDocComment(tok *token.Token) string {
	if tok == nil {
		return ""
	}
	for _, ff := range tok.FreeFloating {
		if ff.ID.String() == "T_DOC_COMMENT" {
			return string(ff.Value)
		}
	}
	return ""
}

// rangeOf reads the *position.Position the parser attaches to every vertex
// (teacher's analyzer.go reads n.Position.StartLine/.EndLine directly; we
// go through the GetPosition() accessor so this works across vertex kinds
// without a type switch per kind).
func rangeOf(uri string, v ast.Vertex) phpsymbol.Range {
	getter, ok := v.(interface{ GetPosition() *position.Position })
	if !ok {
		return phpsymbol.Range{URI: uri}
	}
	p := getter.GetPosition()
	if p == nil {
		return phpsymbol.Range{URI: uri}
	}
	return phpsymbol.Range{
		URI:        uri,
		StartByte:  p.StartPos,
		EndByte:    p.EndPos,
		StartLine:  p.StartLine,
		EndLine:    p.EndLine,
	}
}
