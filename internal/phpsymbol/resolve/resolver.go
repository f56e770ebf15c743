// Package resolve implements PHP's per-file name-resolution rules
// (spec.md §4.1) and the union type-string parser that rides on top of it
// (spec.md §2's "Type-string parser" component).
package resolve

import (
	"strings"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

// reservedWords are returned unchanged by resolveNotFullyQualified
// regardless of kind, per spec.md §4.1.
var reservedWords = map[string]bool{
	"int": true, "string": true, "bool": true, "float": true,
	"iterable": true, "true": true, "false": true, "null": true,
	"void": true, "object": true, "self": true, "static": true,
	"parent": true, "mixed": true, "never": true, "callable": true,
	"array": true,
}

// IsReservedWord reports whether name is one of the PHP reserved type words
// that the resolver and type-string parser pass through unchanged.
func IsReservedWord(name string) bool {
	return reservedWords[strings.ToLower(name)]
}

// UseRule is one entry of a file's use-table: an alias mapped to a target
// FQN for a given symbol kind (Class, Function, or Constant).
type UseRule struct {
	Alias  string
	Target string
	Kind   phpsymbol.Kind
}

// Resolver holds the per-file mutable state spec.md §3 assigns to
// NameResolver: the current namespace, the ordered use-table, and the
// enclosing-class stack so self/static/parent resolve.
//
// A fresh Resolver is created per document (spec.md §3's NameResolver
// lifecycle); it is never shared across files or goroutines.
type Resolver struct {
	namespaceName string
	rules         []UseRule
	classStack    []*phpsymbol.Symbol
}

// New returns a resolver for a fresh file, starting in the global namespace.
func New() *Resolver {
	return &Resolver{}
}

// Namespace returns the current namespace name ("" for the global namespace).
func (r *Resolver) Namespace() string {
	return r.namespaceName
}

// SetNamespace sets the current namespace. NamespaceDefinition transformers
// call this on pre-order (spec.md §4.1's ordering rule) so every name that
// follows resolves against the new namespace.
func (r *Resolver) SetNamespace(name string) {
	r.namespaceName = strings.TrimPrefix(name, "\\")
}

// AddUseRule registers a use-import. UseDeclaration transformers call this
// during pre-order of the use-clause node, so subsequent names in the file
// see it immediately (spec.md §4.1's ordering rule); names that appeared
// earlier in the file already resolved without it, by design.
func (r *Resolver) AddUseRule(rule UseRule) {
	r.rules = append(r.rules, rule)
}

// Rules returns the use-table accumulated so far, in declaration order.
func (r *Resolver) Rules() []UseRule {
	return r.rules
}

// PushClass pushes sym onto the enclosing-class stack so nested members can
// resolve self/static/parent.
func (r *Resolver) PushClass(sym *phpsymbol.Symbol) {
	r.classStack = append(r.classStack, sym)
}

// PopClass pops the most recently pushed class.
func (r *Resolver) PopClass() {
	if len(r.classStack) == 0 {
		return
	}
	r.classStack = r.classStack[:len(r.classStack)-1]
}

// CurrentClass returns the innermost enclosing class symbol, or nil at file
// scope.
func (r *Resolver) CurrentClass() *phpsymbol.Symbol {
	if len(r.classStack) == 0 {
		return nil
	}
	return r.classStack[len(r.classStack)-1]
}

// ResolveRelative prepends the current namespace, for names at their
// declaration site (class/function/constant/trait/interface names).
func (r *Resolver) ResolveRelative(name string) string {
	name = strings.TrimPrefix(name, "\\")
	return phpsymbol.JoinFQN(r.namespaceName, name)
}

// ResolveRelativeToNamespace implements the `namespace\Foo` syntactic form:
// always prepend the current namespace, regardless of separators in name.
func (r *Resolver) ResolveRelativeToNamespace(name string) string {
	return phpsymbol.JoinFQN(r.namespaceName, strings.TrimPrefix(name, "\\"))
}

// lookupAlias finds a use-rule for alias matching kind, falling back to a
// Class rule when kind is Class (functions/constants never fall back to a
// class alias, and vice versa).
func (r *Resolver) lookupAlias(alias string, kind phpsymbol.Kind) (UseRule, bool) {
	for _, rule := range r.rules {
		if rule.Kind == kind && strings.EqualFold(rule.Alias, alias) {
			return rule, true
		}
	}
	return UseRule{}, false
}

// ResolveNotFullyQualified implements spec.md §4.1's unqualified/qualified
// resolution rules for a name as written (no leading "\"). The returned
// name is always fully namespace-qualified when no alias applies.
//
// unresolved is non-empty only when resolution rewrote the name AND kind is
// Function or Constant — callers attach it to Reference.UnresolvedName so a
// later lookup can retry against the global namespace (spec.md §4.3's name
// transformers, spec.md §7's "unresolvable names" handling).
func (r *Resolver) ResolveNotFullyQualified(name string, kind phpsymbol.Kind) (resolved string, unresolved string) {
	if IsReservedWord(name) {
		return name, ""
	}

	if !strings.Contains(name, "\\") {
		if rule, ok := r.lookupAlias(name, kind); ok {
			return rule.Target, ""
		}
		resolved = phpsymbol.JoinFQN(r.namespaceName, name)
		if kind == phpsymbol.KindFunction || kind == phpsymbol.KindConstant {
			return resolved, name
		}
		return resolved, ""
	}

	// Qualified form: X\Y\Z. Only the first segment can be a Class alias
	// (PHP never resolves function/const use-aliases against a qualified
	// name's first segment).
	first, rest := splitFirstSegment(name)
	if rule, ok := r.lookupAlias(first, phpsymbol.KindClass); ok {
		return phpsymbol.JoinFQN(rule.Target, rest), ""
	}
	return phpsymbol.JoinFQN(r.namespaceName, name), ""
}

func splitFirstSegment(name string) (first, rest string) {
	idx := strings.Index(name, "\\")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// ResolveFullyQualified strips the leading separator from an already-
// fully-qualified name (the `\Foo\Bar` syntactic form). Per spec.md §8
// property 3, this is idempotent: feeding it an already-bare FQN is a
// no-op.
func ResolveFullyQualified(name string) string {
	return strings.TrimPrefix(name, "\\")
}
