package phpindex

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/VKCOM/php-parser/pkg/ast"
	"github.com/VKCOM/php-parser/pkg/position"
	"github.com/VKCOM/php-parser/pkg/token"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
	"github.com/doITmagic/phpindex/internal/phpsymbol/phpdoc"
	"github.com/doITmagic/phpindex/internal/phpsymbol/resolve"
	"github.com/doITmagic/phpindex/internal/phpsymbol/transform"
)

// declTransformer is implemented by every Transformer that contributes
// exactly one Symbol to its parent's Children on Close, the common shape
// for class/interface/trait/method/function/property declarations.
type declTransformer interface {
	transform.Transformer
	Symbol() *phpsymbol.Symbol
}

// multiDeclTransformer is implemented by list-style declarations
// (`public int $a, $b;`, `const A = 1, B = 2;`) that contribute several
// sibling Symbols at once.
type multiDeclTransformer interface {
	transform.Transformer
	Symbols() []*phpsymbol.Symbol
}

// associatedTransformer is implemented by declarations that contribute
// "associated" references to their owning class-like symbol (spec.md §3)
// rather than a Child — currently just trait-use (`use SomeTrait;`), since
// extends/implements are resolved directly in newClassLikeTransformer before
// any child Transformer exists to push one in.
type associatedTransformer interface {
	transform.Transformer
	References() []phpsymbol.Reference
}

// newFactory builds the transform.Factory for one document: a closure over
// ctx so every Transformer it builds shares the same Resolver and Reference
// sink, matching the way the teacher's symbolCollector visitor shares
// ca/currentClass/imports as visitor fields across every visit method.
func newFactory(ctx *context) transform.Factory {
	return func(n transform.Node) transform.Transformer {
		v := n.Vertex()
		if v == nil {
			return nil
		}
		switch node := v.(type) {
		case *ast.Root:
			return &fileRootTransformer{}
		case *ast.StmtNamespace:
			return newNamespaceTransformer(ctx, node)
		case *ast.StmtUseList:
			return newUseTransformer(ctx, node)
		case *ast.StmtClass:
			return newClassLikeTransformer(ctx, phpsymbol.KindClass, node.Name, node.Modifiers, node.Extends, node.Implements, node.ClassTkn, node)
		case *ast.StmtInterface:
			return newClassLikeTransformer(ctx, phpsymbol.KindInterface, node.Name, nil, nil, node.Extends, node.InterfaceTkn, node)
		case *ast.StmtTrait:
			return newClassLikeTransformer(ctx, phpsymbol.KindTrait, node.Name, nil, nil, nil, node.TraitTkn, node)
		case *ast.StmtTraitUse:
			return newTraitUseTransformer(ctx, node)
		case *ast.StmtClassMethod:
			return newFunctionLikeTransformer(ctx, phpsymbol.KindMethod, node.Name, node.Modifiers, node.ReturnType, firstModifierDocToken(node.Modifiers), node)
		case *ast.StmtFunction:
			return newFunctionLikeTransformer(ctx, phpsymbol.KindFunction, node.Name, nil, node.ReturnType, node.FunctionTkn, node)
		case *ast.ExprClosure:
			return newClosureTransformer(ctx, node)
		case *ast.ExprArrowFunction:
			return newArrowFunctionTransformer(ctx, node)
		case *ast.ExprClosureUse:
			return newClosureUseTransformer(ctx, node)
		case *ast.Parameter:
			return newParameterTransformer(ctx, node)
		case *ast.StmtPropertyList:
			return newPropertyListTransformer(ctx, node)
		case *ast.StmtClassConstList:
			return newConstListTransformer(ctx, node)
		case *ast.StmtConstList:
			return newTopConstListTransformer(ctx, node)
		case *ast.ExprVariable:
			if name := variableName(node); name != "" {
				return newSimpleVariableTransformer(ctx, node, name)
			}
			return nil
		case *ast.StmtCatch:
			return newCatchTransformer(ctx, node)
		case *ast.ExprFunctionCall:
			return newFunctionCallTransformer(ctx, node)
		case *ast.ExprPropertyFetch:
			return newPropertyFetchTransformer(ctx, node)
		case *ast.ExprMethodCall:
			return newMethodCallTransformer(ctx, node)
		case *ast.ExprStaticCall:
			return newStaticCallTransformer(ctx, node)
		case *ast.ExprClassConstFetch:
			return newClassConstFetchTransformer(ctx, node)
		}
		return &aggregatorTransformer{}
	}
}

// aggregatorTransformer is the fallback Transformer for every phrase type
// without a dedicated handler above (assignments, binary expressions, if/
// loop/try bodies, argument lists, and so on): it simply folds whatever its
// children push upward so a symbol or reference produced several grammar
// productions below a declaration (a variable inside an `if` inside a
// function body, say) still reaches the transformer collecting it, without
// a bespoke transformer for every statement and expression shape spec.md
// §4.3 doesn't call out individually. This is the general case of the
// "parent narrows by the child's contribution interface" rule spec.md §9
// describes for the transformer protocol.
type aggregatorTransformer struct {
	symbols []*phpsymbol.Symbol
	refs    []phpsymbol.Reference
}

func (t *aggregatorTransformer) Push(child transform.Transformer) {
	switch c := child.(type) {
	case declTransformer:
		t.symbols = append(t.symbols, c.Symbol())
	case multiDeclTransformer:
		t.symbols = append(t.symbols, c.Symbols()...)
	}
	if c, ok := child.(associatedTransformer); ok {
		t.refs = append(t.refs, c.References()...)
	}
}

func (t *aggregatorTransformer) Symbols() []*phpsymbol.Symbol       { return t.symbols }
func (t *aggregatorTransformer) References() []phpsymbol.Reference { return t.refs }

// anonymousName builds the deterministic synthetic name spec.md §4.3 gives
// anonymous classes and closures: a fixed prefix, the document's short form,
// and the node's start byte offset, stable across re-analyses of the same
// document (spec.md §3's "opaque but stable" invariant).
func anonymousName(ctx *context, prefix string, self ast.Vertex) string {
	offset := 0
	if getter, ok := self.(interface{ GetPosition() *position.Position }); ok {
		if p := getter.GetPosition(); p != nil {
			offset = p.StartPos
		}
	}
	return fmt.Sprintf("%s@%s:%d", prefix, filepath.Base(ctx.uri), offset)
}

// firstModifierDocToken finds the doc comment attached ahead of a method or
// property's modifier list: the teacher's extractPHPDocFromModifiers notes
// "first modifier usually has PHPDoc in FreeFloating" since php-parser
// attaches leading comments to the first token of a statement.
func firstModifierDocToken(modifiers []ast.Vertex) *token.Token {
	for _, m := range modifiers {
		if ident, ok := m.(*ast.Identifier); ok && ident.IdentifierTkn != nil {
			return ident.IdentifierTkn
		}
	}
	return nil
}

// ---- file root ----

// fileRootTransformer aggregates every top-level declaration (namespace
// blocks, or classes/functions declared directly at file scope when the
// file has no namespace statement) into the flat list AnalyzeDocument
// copies onto the File symbol's Children.
type fileRootTransformer struct {
	symbols []*phpsymbol.Symbol
}

func (t *fileRootTransformer) Push(child transform.Transformer) {
	switch c := child.(type) {
	case declTransformer:
		t.symbols = append(t.symbols, c.Symbol())
	case multiDeclTransformer:
		t.symbols = append(t.symbols, c.Symbols()...)
	}
}

func (t *fileRootTransformer) Symbols() []*phpsymbol.Symbol { return t.symbols }

// ---- namespace ----

type namespaceTransformer struct {
	ctx  *context
	prev string
	sym  *phpsymbol.Symbol
}

func newNamespaceTransformer(ctx *context, n *ast.StmtNamespace) *namespaceTransformer {
	name := ""
	if nameVertex, ok := n.Name.(*ast.Name); ok {
		name = nameParts(nameVertex.Parts)
	}
	prev := ctx.resolver.Namespace()
	ctx.resolver.SetNamespace(name)
	return &namespaceTransformer{
		ctx:  ctx,
		prev: prev,
		sym:  &phpsymbol.Symbol{Kind: phpsymbol.KindNamespace, Name: name, Location: rangeOf(ctx.uri, n)},
	}
}

func (t *namespaceTransformer) Push(child transform.Transformer) {
	switch c := child.(type) {
	case declTransformer:
		t.sym.AddChild(c.Symbol())
	case multiDeclTransformer:
		for _, s := range c.Symbols() {
			t.sym.AddChild(s)
		}
	}
}

// Close resets the resolver's namespace to whatever was active before this
// declaration. For the brace form (`namespace Foo { ... }`) that correctly
// restores global scope; for the flat form (`namespace Foo;`, running to
// end of file) there is nothing left afterward for it to disturb.
func (t *namespaceTransformer) Close() {
	t.ctx.resolver.SetNamespace(t.prev)
}

func (t *namespaceTransformer) Symbol() *phpsymbol.Symbol { return t.sym }

// ---- use imports ----

// useTransformer contributes one KindUse Symbol per use-clause, each holding
// the resolved target as a single Associated reference — see spec.md §8
// scenario 2 ("One Use symbol ... associated FQN Foo\Bar; one Reference at B
// with kind=Class, name=Foo\Bar").
type useTransformer struct {
	symbols []*phpsymbol.Symbol
}

func newUseTransformer(ctx *context, n *ast.StmtUseList) *useTransformer {
	t := &useTransformer{}
	for _, u := range n.Uses {
		use, ok := u.(*ast.StmtUse)
		if !ok {
			continue
		}
		nameVertex, ok := use.Use.(*ast.Name)
		if !ok {
			continue
		}
		target := nameParts(nameVertex.Parts)
		alias := ""
		if use.Alias != nil {
			alias = identifierName(use.Alias)
		}
		if alias == "" {
			_, alias = phpsymbol.SplitFQN(target)
		}
		ctx.resolver.AddUseRule(resolve.UseRule{Alias: alias, Target: target, Kind: phpsymbol.KindClass})

		ref := phpsymbol.Reference{Kind: phpsymbol.KindClass, Name: target, Range: rangeOf(ctx.uri, use)}
		ctx.addReference(ref)
		t.symbols = append(t.symbols, &phpsymbol.Symbol{
			Kind:       phpsymbol.KindUse,
			Name:       alias,
			Modifiers:  phpsymbol.Use,
			Associated: []phpsymbol.Reference{ref},
			Location:   rangeOf(ctx.uri, use),
		})
	}
	return t
}

func (t *useTransformer) Push(transform.Transformer)   {}
func (t *useTransformer) Symbols() []*phpsymbol.Symbol { return t.symbols }

// ---- class / interface / trait ----

type classLikeTransformer struct {
	ctx *context
	sym *phpsymbol.Symbol
}

func newClassLikeTransformer(
	ctx *context,
	kind phpsymbol.Kind,
	nameVertex ast.Vertex,
	modifiers []ast.Vertex,
	extends ast.Vertex,
	implements []ast.Vertex,
	docTkn *token.Token,
	self ast.Vertex,
) *classLikeTransformer {
	name := identifierName(nameVertex)
	fqn := phpsymbol.JoinFQN(ctx.resolver.Namespace(), name)
	mod := collectModifiers(modifiers)
	if name == "" {
		// Anonymous class declaration (`new class { ... }`): php-parser
		// represents it as a StmtClass with a nil Name. spec.md §4.3 gives
		// it a deterministic synthetic name instead of a namespaced FQN.
		fqn = anonymousName(ctx, "class", self)
		mod |= phpsymbol.Anonymous
	}

	sym := &phpsymbol.Symbol{
		Kind:      kind,
		Name:      fqn,
		Modifiers: mod,
		Location:  rangeOf(ctx.uri, self),
	}

	if raw := rawDocComment(docTkn); raw != "" {
		doc := phpdoc.Parse(raw)
		doc.ResolveTypes(ctx.resolver)
		sym.Doc = phpsymbol.Doc{Description: doc.Description}
		appendMagicMembers(sym, doc)
	}

	// StmtClass.Extends is a single superclass name; StmtInterface.Extends
	// is a list of extended interfaces (PHP interfaces support multiple
	// inheritance), so they arrive through different parameters but are
	// both recorded as class-kind references here.
	if extends != nil {
		resolved, _ := resolveNameVertex(extends, ctx.resolver, phpsymbol.KindClass)
		if resolved != "" {
			ref := phpsymbol.Reference{Kind: phpsymbol.KindClass, Name: resolved, Range: rangeOf(ctx.uri, extends)}
			ctx.addReference(ref)
			sym.Associated = append(sym.Associated, ref)
		}
	}
	for _, impl := range implements {
		resolved, _ := resolveNameVertex(impl, ctx.resolver, phpsymbol.KindClass)
		if resolved != "" {
			ref := phpsymbol.Reference{Kind: phpsymbol.KindClass, Name: resolved, Range: rangeOf(ctx.uri, impl)}
			ctx.addReference(ref)
			sym.Associated = append(sym.Associated, ref)
		}
	}

	ctx.resolver.PushClass(sym)
	return &classLikeTransformer{ctx: ctx, sym: sym}
}

func (t *classLikeTransformer) Push(child transform.Transformer) {
	switch c := child.(type) {
	case declTransformer:
		t.sym.AddChild(c.Symbol())
	case multiDeclTransformer:
		for _, s := range c.Symbols() {
			t.sym.AddChild(s)
		}
	case associatedTransformer:
		t.sym.Associated = append(t.sym.Associated, c.References()...)
	}
}

func (t *classLikeTransformer) Close() {
	t.ctx.resolver.PopClass()
}

func (t *classLikeTransformer) Symbol() *phpsymbol.Symbol { return t.sym }

// appendMagicMembers turns @property*/@method tags into synthetic child
// symbols per spec.md §4.5: magic members get Magic+Public modifiers, plus
// ReadOnly/WriteOnly/Static as the tag specifies.
func appendMagicMembers(owner *phpsymbol.Symbol, doc *phpdoc.Doc) {
	for _, m := range doc.Magic {
		mod := phpsymbol.Magic | phpsymbol.Public
		if m.ReadOnly {
			mod |= phpsymbol.ReadOnly
		}
		if m.WriteOnly {
			mod |= phpsymbol.WriteOnly
		}
		if m.Static {
			mod |= phpsymbol.Static
		}
		kind := phpsymbol.KindProperty
		if m.IsMethod {
			kind = phpsymbol.KindMethod
		}
		sym := &phpsymbol.Symbol{
			Kind:      kind,
			Name:      m.Name,
			Type:      m.Type,
			Modifiers: mod,
			Doc:       phpsymbol.Doc{Description: m.Description},
		}
		if m.IsMethod {
			uniq := phpsymbol.NewUniqueSymbolCollection()
			for _, p := range m.Params {
				uniq.Append(&phpsymbol.Symbol{Kind: phpsymbol.KindParameter, Name: "$" + p.Name, Type: p.Type})
			}
			sym.Children = uniq.Snapshot()
		}
		owner.AddChild(sym)
	}
}

// ---- trait use ----

type traitUseTransformer struct {
	refs []phpsymbol.Reference
}

func newTraitUseTransformer(ctx *context, n *ast.StmtTraitUse) *traitUseTransformer {
	t := &traitUseTransformer{}
	for _, tr := range n.Traits {
		resolved, _ := resolveNameVertex(tr, ctx.resolver, phpsymbol.KindTrait)
		if resolved != "" {
			ref := phpsymbol.Reference{Kind: phpsymbol.KindTrait, Name: resolved, Range: rangeOf(ctx.uri, tr)}
			ctx.addReference(ref)
			t.refs = append(t.refs, ref)
		}
	}
	return t
}

func (t *traitUseTransformer) Push(transform.Transformer) {}

// References returns the resolved trait-use references this declaration
// contributed, so the owning classLikeTransformer can fold them into its
// Symbol's Associated list.
func (t *traitUseTransformer) References() []phpsymbol.Reference { return t.refs }

// ---- method / function ----

// functionLikeTransformer backs every function-shaped declaration: named
// functions and methods (built via newFunctionLikeTransformer), and
// closures/arrow functions (built via newClosureTransformer /
// newArrowFunctionTransformer with a synthetic Anonymous name). children
// collects parameters alongside whatever the body contributes — local
// variables, nested closures, nested anonymous classes, `define(...)` calls
// — per spec.md §4.3's Method/Function Declaration entry; the shared
// UniqueSymbolCollection is what gives spec.md §8 property 5 (no duplicate
// Variable/Parameter names, no superglobals) for free.
type functionLikeTransformer struct {
	ctx      *context
	sym      *phpsymbol.Symbol
	children *phpsymbol.UniqueSymbolCollection
	doc      *phpdoc.Doc
}

func newFunctionLikeTransformer(
	ctx *context,
	kind phpsymbol.Kind,
	nameVertex ast.Vertex,
	modifiers []ast.Vertex,
	returnType ast.Vertex,
	docTkn *token.Token,
	self ast.Vertex,
) *functionLikeTransformer {
	name := identifierName(nameVertex)
	fqn := name
	if kind == phpsymbol.KindFunction {
		fqn = phpsymbol.JoinFQN(ctx.resolver.Namespace(), name)
	}

	sym := &phpsymbol.Symbol{
		Kind:      kind,
		Name:      fqn,
		Type:      typeNameVertex(returnType, ctx.resolver),
		Modifiers: collectModifiers(modifiers),
		Location:  rangeOf(ctx.uri, self),
	}

	var doc *phpdoc.Doc
	if raw := rawDocComment(docTkn); raw != "" {
		doc = phpdoc.Parse(raw)
		doc.ResolveTypes(ctx.resolver)
		sym.Doc = phpsymbol.Doc{Description: doc.Description}
		if len(doc.Returns) > 0 {
			sym.Doc.Type = doc.Returns[0].Type
			if sym.Type == "" {
				sym.Type = doc.Returns[0].Type
			}
		}
	}

	return &functionLikeTransformer{ctx: ctx, sym: sym, children: phpsymbol.NewUniqueSymbolCollection(), doc: doc}
}

// newClosureTransformer builds an Anonymous Function symbol for
// `function () use (...) { ... }` per spec.md §4.3's
// AnonymousFunctionCreationExpression entry. Its use-clause variables and
// body statements reach it the same way a named function's do, through
// Push.
func newClosureTransformer(ctx *context, n *ast.ExprClosure) *functionLikeTransformer {
	sym := &phpsymbol.Symbol{
		Kind:      phpsymbol.KindFunction,
		Name:      anonymousName(ctx, "closure", n),
		Type:      typeNameVertex(n.ReturnType, ctx.resolver),
		Modifiers: phpsymbol.Anonymous,
		Location:  rangeOf(ctx.uri, n),
	}
	return &functionLikeTransformer{ctx: ctx, sym: sym, children: phpsymbol.NewUniqueSymbolCollection()}
}

// newArrowFunctionTransformer builds the same shape for `fn () => expr`.
func newArrowFunctionTransformer(ctx *context, n *ast.ExprArrowFunction) *functionLikeTransformer {
	sym := &phpsymbol.Symbol{
		Kind:      phpsymbol.KindFunction,
		Name:      anonymousName(ctx, "fn", n),
		Type:      typeNameVertex(n.ReturnType, ctx.resolver),
		Modifiers: phpsymbol.Anonymous,
		Location:  rangeOf(ctx.uri, n),
	}
	return &functionLikeTransformer{ctx: ctx, sym: sym, children: phpsymbol.NewUniqueSymbolCollection()}
}

func (t *functionLikeTransformer) Push(child transform.Transformer) {
	if pt, ok := child.(*parameterTransformer); ok {
		p := pt.Symbol()
		if t.doc != nil {
			if tag, found := t.doc.ParamByName(p.Name); found && p.Type == "" {
				p.Type = tag.Type
				p.Doc = phpsymbol.Doc{Description: tag.Description, Type: tag.Type}
			}
		}
		t.children.Append(p)
		return
	}
	switch c := child.(type) {
	case declTransformer:
		t.children.Append(c.Symbol())
	case multiDeclTransformer:
		t.children.AppendAll(c.Symbols())
	}
}

func (t *functionLikeTransformer) Close() {
	t.sym.Children = t.children.Snapshot()
}

func (t *functionLikeTransformer) Symbol() *phpsymbol.Symbol { return t.sym }

// ---- parameter ----

type parameterTransformer struct {
	sym *phpsymbol.Symbol
}

func newParameterTransformer(ctx *context, n *ast.Parameter) *parameterTransformer {
	mod := phpsymbol.Modifier(0)
	if n.AmpersandTkn != nil {
		mod |= phpsymbol.Reference
	}
	if n.VariadicTkn != nil {
		mod |= phpsymbol.Variadic
	}
	sym := &phpsymbol.Symbol{
		Kind:      phpsymbol.KindParameter,
		Name:      variableName(n.Var),
		Type:      typeNameVertex(n.Type, ctx.resolver),
		Modifiers: mod,
		Location:  rangeOf(ctx.uri, n),
	}
	return &parameterTransformer{sym: sym}
}

func (t *parameterTransformer) Push(transform.Transformer) {}
func (t *parameterTransformer) Symbol() *phpsymbol.Symbol   { return t.sym }

// ---- closure use-clause ----

// closureUseTransformer handles one variable of a closure's
// `use ($a, &$b)` clause: a Variable symbol carrying the Use modifier (plus
// Reference when captured by `&`), folded into the enclosing closure's
// children the same way a body variable would be (spec.md §4.3's "Closure
// use clause" entry).
type closureUseTransformer struct {
	sym *phpsymbol.Symbol
}

func newClosureUseTransformer(ctx *context, n *ast.ExprClosureUse) *closureUseTransformer {
	mod := phpsymbol.Use
	if n.AmpersandTkn != nil {
		mod |= phpsymbol.Reference
	}
	return &closureUseTransformer{sym: &phpsymbol.Symbol{
		Kind:      phpsymbol.KindVariable,
		Name:      variableName(n.Var),
		Modifiers: mod,
		Location:  rangeOf(ctx.uri, n),
	}}
}

func (t *closureUseTransformer) Push(transform.Transformer) {}
func (t *closureUseTransformer) Symbol() *phpsymbol.Symbol   { return t.sym }

// ---- simple variables ----

// simpleVariableTransformer backs spec.md §4.3's SimpleVariable entry: every
// plain `$name` occurrence becomes a Variable symbol (folded into the
// nearest enclosing function-like transformer's children, deduplicated
// there) and a Reference at its own range, regardless of where in an
// expression it appears.
type simpleVariableTransformer struct {
	sym *phpsymbol.Symbol
}

func newSimpleVariableTransformer(ctx *context, n *ast.ExprVariable, name string) *simpleVariableTransformer {
	ctx.addReference(phpsymbol.Reference{Kind: phpsymbol.KindVariable, Name: name, Range: rangeOf(ctx.uri, n)})
	return &simpleVariableTransformer{sym: &phpsymbol.Symbol{
		Kind:     phpsymbol.KindVariable,
		Name:     name,
		Location: rangeOf(ctx.uri, n),
	}}
}

func (t *simpleVariableTransformer) Push(transform.Transformer) {}
func (t *simpleVariableTransformer) Symbol() *phpsymbol.Symbol   { return t.sym }

// ---- catch clause ----

// catchTransformer records a Class reference for each caught exception type
// and, when the clause captures a variable (`catch (E $e)` as opposed to
// PHP 8's non-capturing `catch (E)`), contributes a Variable symbol per
// spec.md §4.3's CatchClauseVariable entry.
type catchTransformer struct {
	sym *phpsymbol.Symbol
}

func newCatchTransformer(ctx *context, n *ast.StmtCatch) *catchTransformer {
	for _, ty := range n.Types {
		if resolved, _ := resolveNameVertex(ty, ctx.resolver, phpsymbol.KindClass); resolved != "" {
			ctx.addReference(phpsymbol.Reference{Kind: phpsymbol.KindClass, Name: resolved, Range: rangeOf(ctx.uri, ty)})
		}
	}
	t := &catchTransformer{}
	if n.Var != nil {
		t.sym = &phpsymbol.Symbol{Kind: phpsymbol.KindVariable, Name: variableName(n.Var), Location: rangeOf(ctx.uri, n.Var)}
	}
	return t
}

func (t *catchTransformer) Push(transform.Transformer) {}

func (t *catchTransformer) Symbols() []*phpsymbol.Symbol {
	if t.sym == nil {
		return nil
	}
	return []*phpsymbol.Symbol{t.sym}
}

// ---- define() ----

// functionCallTransformer specialises `define('NAME', value)` (and the
// fully-qualified `\define(...)` form) into a top-level Constant symbol per
// spec.md §4.3's FunctionCallExpression entry; any other call expression
// contributes nothing. A malformed define() (missing or non-string first
// argument) yields no symbol and no reference, per spec.md §7.
type functionCallTransformer struct {
	sym *phpsymbol.Symbol
}

func newFunctionCallTransformer(ctx *context, n *ast.ExprFunctionCall) *functionCallTransformer {
	t := &functionCallTransformer{}
	name, ok := calleeName(n.Function)
	if !ok || (name != "define" && name != `\define`) {
		return t
	}
	if len(n.Args) < 2 {
		return t
	}
	nameArg, ok := n.Args[0].(*ast.Argument)
	if !ok {
		return t
	}
	str, ok := nameArg.Expr.(*ast.ScalarString)
	if !ok {
		return t
	}
	constName := strings.TrimPrefix(unquoteString(string(str.Value)), `\`)
	if constName == "" {
		return t
	}

	var value, typ string
	if valueArg, ok := n.Args[1].(*ast.Argument); ok {
		value = constValueText(valueArg.Expr)
		typ = scalarType(valueArg.Expr)
	}

	t.sym = &phpsymbol.Symbol{
		Kind:     phpsymbol.KindConstant,
		Name:     constName,
		Value:    value,
		Type:     typ,
		Location: rangeOf(ctx.uri, n),
	}
	ctx.addReference(phpsymbol.Reference{Kind: phpsymbol.KindConstant, Name: constName, Range: rangeOf(ctx.uri, n)})
	return t
}

func (t *functionCallTransformer) Push(transform.Transformer) {}

func (t *functionCallTransformer) Symbols() []*phpsymbol.Symbol {
	if t.sym == nil {
		return nil
	}
	return []*phpsymbol.Symbol{t.sym}
}

// calleeName reads the plain function name off a call expression's Function
// vertex — define() is always resolved against the global namespace, never
// through the file's use-table, so this deliberately doesn't call
// resolveNameVertex.
func calleeName(v ast.Vertex) (string, bool) {
	switch n := v.(type) {
	case *ast.Name:
		return nameParts(n.Parts), true
	case *ast.NameFullyQualified:
		return nameParts(n.Parts), true
	}
	return "", false
}

// unquoteString strips a single matching pair of surrounding quotes from a
// PHP string literal's raw token text.
func unquoteString(raw string) string {
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		return raw[1 : len(raw)-1]
	}
	return raw
}

// scalarType reports the PHP scalar type name of a literal expression, or ""
// for anything else (spec.md §9 design note (b): non-scalar define() values
// keep empty value/type).
func scalarType(expr ast.Vertex) string {
	switch expr.(type) {
	case *ast.ScalarString:
		return "string"
	case *ast.ScalarLnumber:
		return "int"
	case *ast.ScalarDnumber:
		return "float"
	}
	return ""
}

// ---- member / static / class-constant access references ----

// propertyFetchTransformer adorns `$obj->prop` with a Property reference,
// prefixing the member name with "$" to normalise with property
// declarations (spec.md §4.3's PropertyAccessExpression entry). Dynamic
// member names (`$obj->{$expr}`) are not resolvable without evaluating an
// expression, which is a Non-goal, so they are skipped.
type propertyFetchTransformer struct{}

func newPropertyFetchTransformer(ctx *context, n *ast.ExprPropertyFetch) *propertyFetchTransformer {
	if ident, ok := n.Prop.(*ast.Identifier); ok {
		ctx.addReference(phpsymbol.Reference{
			Kind:  phpsymbol.KindProperty,
			Name:  "$" + string(ident.Value),
			Range: rangeOf(ctx.uri, n.Prop),
		})
	}
	return &propertyFetchTransformer{}
}

func (t *propertyFetchTransformer) Push(transform.Transformer) {}

// methodCallTransformer adorns `$obj->meth()` with a Method reference.
type methodCallTransformer struct{}

func newMethodCallTransformer(ctx *context, n *ast.ExprMethodCall) *methodCallTransformer {
	if ident, ok := n.Method.(*ast.Identifier); ok {
		ctx.addReference(phpsymbol.Reference{
			Kind:  phpsymbol.KindMethod,
			Name:  string(ident.Value),
			Range: rangeOf(ctx.uri, n.Method),
		})
	}
	return &methodCallTransformer{}
}

func (t *methodCallTransformer) Push(transform.Transformer) {}

// staticCallTransformer adorns `Foo::bar()` with both a Class reference for
// the receiver (when it is written as a name, not a variable) and a Method
// reference for the call.
type staticCallTransformer struct{}

func newStaticCallTransformer(ctx *context, n *ast.ExprStaticCall) *staticCallTransformer {
	addClassRefIfNamed(ctx, n.Class)
	if ident, ok := n.Call.(*ast.Identifier); ok {
		ctx.addReference(phpsymbol.Reference{
			Kind:  phpsymbol.KindMethod,
			Name:  string(ident.Value),
			Range: rangeOf(ctx.uri, n.Call),
		})
	}
	return &staticCallTransformer{}
}

func (t *staticCallTransformer) Push(transform.Transformer) {}

// classConstFetchTransformer adorns `Foo::BAR` / `Foo::class` with a Class
// reference for the receiver and, unless the constant is the `class`
// pseudo-constant (already fully covered by the class reference), a
// ClassConstant reference for the constant name.
type classConstFetchTransformer struct{}

func newClassConstFetchTransformer(ctx *context, n *ast.ExprClassConstFetch) *classConstFetchTransformer {
	addClassRefIfNamed(ctx, n.Class)
	if ident, ok := n.Const.(*ast.Identifier); ok && string(ident.Value) != "class" {
		ctx.addReference(phpsymbol.Reference{
			Kind:  phpsymbol.KindClassConstant,
			Name:  string(ident.Value),
			Range: rangeOf(ctx.uri, n.Const),
		})
	}
	return &classConstFetchTransformer{}
}

func (t *classConstFetchTransformer) Push(transform.Transformer) {}

// addClassRefIfNamed records a Class reference for a static-call or
// class-constant-fetch receiver written as a name or self/static/parent
// (`Foo::bar()`), skipping variable/expression receivers (`$obj::bar()`):
// resolving those would require type inference, a Non-goal.
func addClassRefIfNamed(ctx *context, v ast.Vertex) {
	switch v.(type) {
	case *ast.Name, *ast.NameFullyQualified, *ast.NameRelative, *ast.Identifier:
	default:
		return
	}
	resolved, _ := resolveNameVertex(v, ctx.resolver, phpsymbol.KindClass)
	if resolved != "" {
		ctx.addReference(phpsymbol.Reference{Kind: phpsymbol.KindClass, Name: resolved, Range: rangeOf(ctx.uri, v)})
	}
}

// ---- properties ----

type propertyListTransformer struct {
	symbols []*phpsymbol.Symbol
}

func newPropertyListTransformer(ctx *context, n *ast.StmtPropertyList) *propertyListTransformer {
	typeName := typeNameVertex(n.Type, ctx.resolver)
	mod := collectModifiers(n.Modifiers)

	var doc *phpdoc.Doc
	if raw := rawDocComment(firstModifierDocToken(n.Modifiers)); raw != "" {
		doc = phpdoc.Parse(raw)
		doc.ResolveTypes(ctx.resolver)
		if typeName == "" {
			typeName = doc.VarType
		}
	}

	var out []*phpsymbol.Symbol
	for _, p := range n.Props {
		prop, ok := p.(*ast.StmtProperty)
		if !ok {
			continue
		}
		sym := &phpsymbol.Symbol{
			Kind:      phpsymbol.KindProperty,
			Name:      variableName(prop.Var),
			Type:      typeName,
			Modifiers: mod,
			Location:  rangeOf(ctx.uri, prop),
		}
		if doc != nil {
			sym.Doc = phpsymbol.Doc{Description: doc.Description, Type: doc.VarType}
		}
		out = append(out, sym)
	}
	return &propertyListTransformer{symbols: out}
}

func (t *propertyListTransformer) Push(transform.Transformer)   {}
func (t *propertyListTransformer) Symbols() []*phpsymbol.Symbol { return t.symbols }

// ---- class constants ----

type constListTransformer struct {
	symbols []*phpsymbol.Symbol
}

func newConstListTransformer(ctx *context, n *ast.StmtClassConstList) *constListTransformer {
	mod := collectModifiers(n.Modifiers) | phpsymbol.Static
	var out []*phpsymbol.Symbol
	for _, c := range n.Consts {
		constant, ok := c.(*ast.StmtConstant)
		if !ok {
			continue
		}
		out = append(out, &phpsymbol.Symbol{
			Kind:      phpsymbol.KindClassConstant,
			Name:      identifierName(constant.Name),
			Value:     constValueText(constant.Expr),
			Modifiers: mod,
			Location:  rangeOf(ctx.uri, constant),
		})
	}
	return &constListTransformer{symbols: out}
}

func (t *constListTransformer) Push(transform.Transformer)   {}
func (t *constListTransformer) Symbols() []*phpsymbol.Symbol { return t.symbols }

// ---- top-level constants ----

// topConstListTransformer handles a plain `const X = 1, Y = 2;` statement,
// the non-class counterpart of constListTransformer: one Constant symbol
// per name, namespaced the same way a function or class declaration is
// (spec.md §4.3's "top-level const" entry), with no Static modifier since
// there is no enclosing class to be static relative to.
type topConstListTransformer struct {
	symbols []*phpsymbol.Symbol
}

func newTopConstListTransformer(ctx *context, n *ast.StmtConstList) *topConstListTransformer {
	var out []*phpsymbol.Symbol
	for _, c := range n.Consts {
		constant, ok := c.(*ast.StmtConstant)
		if !ok {
			continue
		}
		name := identifierName(constant.Name)
		fqn := phpsymbol.JoinFQN(ctx.resolver.Namespace(), name)
		out = append(out, &phpsymbol.Symbol{
			Kind:     phpsymbol.KindConstant,
			Name:     fqn,
			Value:    constValueText(constant.Expr),
			Type:     scalarType(constant.Expr),
			Location: rangeOf(ctx.uri, constant),
		})
		ctx.addReference(phpsymbol.Reference{Kind: phpsymbol.KindConstant, Name: fqn, Range: rangeOf(ctx.uri, constant)})
	}
	return &topConstListTransformer{symbols: out}
}

func (t *topConstListTransformer) Push(transform.Transformer)   {}
func (t *topConstListTransformer) Symbols() []*phpsymbol.Symbol { return t.symbols }

// constValueText mirrors the teacher's extractConstValue: a best-effort
// literal rendering, empty for anything but simple scalars/const-fetches.
func constValueText(expr ast.Vertex) string {
	switch n := expr.(type) {
	case *ast.ScalarString:
		return string(n.Value)
	case *ast.ScalarLnumber:
		return string(n.Value)
	case *ast.ScalarDnumber:
		return string(n.Value)
	case *ast.ExprConstFetch:
		if name, ok := n.Const.(*ast.Name); ok {
			return nameParts(name.Parts)
		}
	}
	return ""
}
