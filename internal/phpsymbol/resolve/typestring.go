package resolve

import (
	"strings"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

// ResolveTypeString splits a (possibly union/intersection/nullable) type
// string — as written in a type declaration or a PHPDoc `@param`/`@return`/
// `@var` tag — into its component names and resolves each one through r,
// rejoining with the original separators. Reserved scalar words and the
// `callable`/`array` pseudo-types pass through unchanged; class-like
// component names are resolved via ResolveNotFullyQualified(kind=Class).
//
// This is the "Type-string parser" component of spec.md §2, shared by the
// TypeDeclaration transformer (spec.md §4.3) and PHPDoc merging (§4.5).
func (r *Resolver) ResolveTypeString(raw string) string {
	if raw == "" {
		return raw
	}

	nullable := false
	s := raw
	if strings.HasPrefix(s, "?") {
		nullable = true
		s = s[1:]
	}

	sep := "|"
	if strings.Contains(s, "&") && !strings.Contains(s, "|") {
		sep = "&"
	}

	parts := strings.Split(s, sep)
	resolvedParts := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		resolvedParts = append(resolvedParts, r.resolveTypeAtom(part))
	}

	out := strings.Join(resolvedParts, sep)
	if nullable {
		out = "?" + out
	}
	return out
}

func (r *Resolver) resolveTypeAtom(atom string) string {
	if atom == "" {
		return atom
	}
	if strings.HasPrefix(atom, "\\") {
		return ResolveFullyQualified(atom)
	}
	if IsReservedWord(atom) {
		return atom
	}
	resolved, _ := r.ResolveNotFullyQualified(atom, phpsymbol.KindClass)
	return resolved
}
