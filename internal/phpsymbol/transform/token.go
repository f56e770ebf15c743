package transform

import "github.com/VKCOM/php-parser/pkg/position"

// TokenTransform is what the Walker pushes into a parent Transformer for a
// leaf token: spec.md §4.2 says tokens are "pushed directly ... as a
// TokenTransform, never instantiating a Transformer of their own" since a
// single token carries no children to aggregate.
type TokenTransform struct {
	Text      string
	TokenType string
	Pos       *position.Position
}

// Push is a no-op: a TokenTransform is always a leaf and is never itself
// handed children. It exists so TokenTransform satisfies Transformer and
// can be passed to a parent's Push; the Walker never puts it on its stack.
func (TokenTransform) Push(Transformer) {}
