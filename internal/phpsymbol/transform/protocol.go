package transform

import "context"

// Transformer is implemented by every construct-specific handler in the
// concrete Transformer Set (spec.md §4.3). A Transformer is built for a
// phrase node on pre-order and, once every child has been visited, is
// popped on post-order and offered to its parent via Push so the parent
// can fold it into whatever symbol/reference it is assembling. This is
// deliberately the only method the protocol requires: aggregation logic
// belongs to each concrete Transformer, not to the Walker.
type Transformer interface {
	Push(child Transformer)
}

// Closer is implemented by Transformers that need to run cleanup at the
// exact moment their own node finishes — popping a resolver's namespace or
// class-stack entry pushed when the Transformer was built, for instance —
// rather than waiting for the parent's Push. The Walker calls Close right
// before handing the finished Transformer to its parent.
type Closer interface {
	Close()
}

// Factory builds the Transformer for one phrase Node, selected by
// n.PhraseType(). A Factory may return nil for a phrase type it has no
// handler for; the Walker then uses Discard for that node so the walk can
// continue past constructs the caller doesn't care about.
type Factory func(n Node) Transformer

// Discard is the do-nothing Transformer the Walker substitutes when a
// Factory returns nil. Its children still get walked — and may still
// mutate shared state such as a Resolver's namespace/use-rule stack — only
// the Push bubbling stops here.
type Discard struct{}

func (Discard) Push(Transformer) {}

// Walker drives the iterative pre/post-order traversal spec.md §4.2
// requires: no recursive descent, so traversal depth is bounded by an
// explicit stack rather than the Go call stack, and a context can be
// checked between sibling visits for cancellation.
type Walker struct {
	New Factory
}

type frame struct {
	transformer Transformer
	children    []Node
	next        int
}

// Walk traverses root and everything reachable from it, returning the
// Transformer built for root once every descendant has been folded into
// it. It returns ctx.Err() if the context is cancelled between sibling
// nodes, per spec.md §5 ("long-running per-document walks must check for
// cancellation between sibling nodes, not only at document boundaries").
func (w *Walker) Walk(ctx context.Context, root Node) (Transformer, error) {
	rootTransformer := w.build(root)
	stack := []*frame{{transformer: rootTransformer, children: root.Children()}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next >= len(top.children) {
			stack = stack[:len(stack)-1]
			if closer, ok := top.transformer.(Closer); ok {
				closer.Close()
			}
			if len(stack) > 0 {
				stack[len(stack)-1].transformer.Push(top.transformer)
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		child := top.children[top.next]
		top.next++

		if child.IsToken() {
			top.transformer.Push(TokenTransform{
				Text:      child.Text(),
				TokenType: child.TokenType(),
				Pos:       child.Pos(),
			})
			continue
		}

		childTransformer := w.build(child)
		stack = append(stack, &frame{transformer: childTransformer, children: child.Children()})
	}

	return rootTransformer, nil
}

func (w *Walker) build(n Node) Transformer {
	t := w.New(n)
	if t == nil {
		return Discard{}
	}
	return t
}
