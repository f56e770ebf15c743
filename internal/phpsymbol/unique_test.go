package phpsymbol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniqueSymbolCollectionDedupesVariables(t *testing.T) {
	c := NewUniqueSymbolCollection()
	c.Append(&Symbol{Kind: KindVariable, Name: "$a"})
	c.Append(&Symbol{Kind: KindVariable, Name: "$a"})
	c.Append(&Symbol{Kind: KindVariable, Name: "$b"})

	got := c.Snapshot()
	require.Len(t, got, 2)
	require.Equal(t, "$a", got[0].Name)
	require.Equal(t, "$b", got[1].Name)
}

func TestUniqueSymbolCollectionExcludesSuperglobals(t *testing.T) {
	c := NewUniqueSymbolCollection()
	c.Append(&Symbol{Kind: KindVariable, Name: "$GLOBALS"})
	c.Append(&Symbol{Kind: KindVariable, Name: "$this"})
	c.Append(&Symbol{Kind: KindParameter, Name: "$argv"})
	c.Append(&Symbol{Kind: KindVariable, Name: "$ok"})

	got := c.Snapshot()
	require.Len(t, got, 1)
	require.Equal(t, "$ok", got[0].Name)
}

func TestUniqueSymbolCollectionAlwaysAppendsNonVariableKinds(t *testing.T) {
	c := NewUniqueSymbolCollection()
	c.Append(&Symbol{Kind: KindClass, Name: "A"})
	c.Append(&Symbol{Kind: KindClass, Name: "A"})

	require.Equal(t, 2, c.Len())
}
