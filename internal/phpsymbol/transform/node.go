// Package transform implements the stack-based transformer protocol from
// spec.md §4.2: a Node abstraction over the parsed PHP tree, a Transformer
// interface each construct-specific handler implements, and an iterative
// Walker that drives pre/post-order visitation without recursion.
//
// Node is generic over the concrete parser: it uses reflection to discover
// a phrase node's children, since github.com/VKCOM/php-parser does not
// expose a single "children of any vertex" accessor and hand-enumerating
// every one of its ~100 node types would defeat the point of a generic
// walker. Individual Transformers still narrow on concrete AST types via
// type assertion — reflection only replaces the missing child-enumeration
// primitive, never the semantic extraction. See DESIGN.md.
package transform

import (
	"reflect"

	"github.com/VKCOM/php-parser/pkg/ast"
	"github.com/VKCOM/php-parser/pkg/position"
	"github.com/VKCOM/php-parser/pkg/token"
)

// Node is one element of the tree the Walker visits: either a phrase
// (internal node, wrapping an ast.Vertex) or a token (leaf, wrapping a
// *token.Token). This is the "tree whose internal nodes carry a phraseType
// ... and whose leaves are tokens" spec.md §6 describes as consumed from
// the parser collaborator.
type Node interface {
	IsToken() bool
	PhraseType() string // Go type name of the ast.Vertex, "" for tokens
	TokenType() string  // token.ID name, "" for phrases
	Text() string
	Pos() *position.Position
	Vertex() ast.Vertex   // nil for tokens
	Token() *token.Token  // nil for phrases
	Children() []Node
}

// source carries the original file bytes so Node.Text() can slice out exact
// source text (the "utility that returns exact source text" collaborator
// spec.md §6 requires).
type source struct {
	uri  string
	body []byte
}

func (s *source) slice(p *position.Position) string {
	if s == nil || p == nil || p.StartPos < 0 || p.EndPos > len(s.body) || p.StartPos > p.EndPos {
		return ""
	}
	return string(s.body[p.StartPos:p.EndPos])
}

type phraseNode struct {
	v   ast.Vertex
	src *source
}

// NewRoot wraps the root ast.Vertex produced by the parser into a Node tree
// rooted at it. uri and body are used to resolve Range/Text for every node
// reachable from root.
func NewRoot(root ast.Vertex, uri string, body []byte) Node {
	return &phraseNode{v: root, src: &source{uri: uri, body: body}}
}

func (n *phraseNode) IsToken() bool      { return false }
func (n *phraseNode) PhraseType() string { return reflect.TypeOf(n.v).Elem().Name() }
func (n *phraseNode) TokenType() string  { return "" }
func (n *phraseNode) Vertex() ast.Vertex { return n.v }
func (n *phraseNode) Token() *token.Token { return nil }

func (n *phraseNode) Pos() *position.Position {
	getter, ok := n.v.(interface{ GetPosition() *position.Position })
	if !ok {
		return nil
	}
	return getter.GetPosition()
}

func (n *phraseNode) Text() string {
	return n.src.slice(n.Pos())
}

// Children enumerates n's child vertices/tokens in struct field order,
// which mirrors grammar-production order for github.com/VKCOM/php-parser's
// generated AST. Fields of type ast.Vertex, []ast.Vertex, *token.Token, and
// []*token.Token are descended into; everything else (strings, positions,
// the FreeFloating token list) is left to the dedicated PHPDoc lookup,
// which reads FreeFloating directly off the relevant *token.Token.
func (n *phraseNode) Children() []Node {
	val := reflect.ValueOf(n.v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}

	var out []Node
	vertexType := reflect.TypeOf((*ast.Vertex)(nil)).Elem()
	tokenPtrType := reflect.TypeOf((*token.Token)(nil))

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanInterface() {
			continue
		}
		ft := field.Type()

		switch {
		case ft.Implements(vertexType):
			if field.IsNil() {
				continue
			}
			child, ok := field.Interface().(ast.Vertex)
			if !ok || child == nil {
				continue
			}
			out = append(out, &phraseNode{v: child, src: n.src})

		case ft.Kind() == reflect.Slice && ft.Elem().Implements(vertexType):
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				if elem.IsNil() {
					continue
				}
				child, ok := elem.Interface().(ast.Vertex)
				if !ok || child == nil {
					continue
				}
				out = append(out, &phraseNode{v: child, src: n.src})
			}

		case ft == tokenPtrType:
			if field.IsNil() {
				continue
			}
			tok, ok := field.Interface().(*token.Token)
			if !ok || tok == nil {
				continue
			}
			out = append(out, &tokenNode{t: tok, src: n.src})

		case ft.Kind() == reflect.Slice && ft.Elem() == tokenPtrType:
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				if elem.IsNil() {
					continue
				}
				tok, ok := elem.Interface().(*token.Token)
				if !ok || tok == nil {
					continue
				}
				out = append(out, &tokenNode{t: tok, src: n.src})
			}
		}
	}
	return out
}

type tokenNode struct {
	t   *token.Token
	src *source
}

func (n *tokenNode) IsToken() bool       { return true }
func (n *tokenNode) PhraseType() string  { return "" }
func (n *tokenNode) TokenType() string   { return n.t.ID.String() }
func (n *tokenNode) Vertex() ast.Vertex  { return nil }
func (n *tokenNode) Token() *token.Token { return n.t }
func (n *tokenNode) Children() []Node    { return nil }

func (n *tokenNode) Pos() *position.Position {
	return n.t.Position
}

func (n *tokenNode) Text() string {
	if n.t == nil {
		return ""
	}
	return string(n.t.Value)
}
