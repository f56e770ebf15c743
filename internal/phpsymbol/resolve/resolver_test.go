package resolve

import (
	"testing"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
	"github.com/stretchr/testify/require"
)

func TestResolveRelative(t *testing.T) {
	r := New()
	r.SetNamespace(`A\B`)
	require.Equal(t, `A\B\C`, r.ResolveRelative("C"))
}

func TestResolveNotFullyQualifiedUnqualified(t *testing.T) {
	r := New()
	r.SetNamespace(`A\B`)

	resolved, unresolved := r.ResolveNotFullyQualified("D", phpsymbol.KindClass)
	require.Equal(t, `A\B\D`, resolved)
	require.Empty(t, unresolved)

	// Functions/constants preserve the unresolved form for a later
	// global-namespace fallback lookup.
	resolved, unresolved = r.ResolveNotFullyQualified("strlen", phpsymbol.KindFunction)
	require.Equal(t, `A\B\strlen`, resolved)
	require.Equal(t, "strlen", unresolved)
}

func TestResolveNotFullyQualifiedWithAlias(t *testing.T) {
	r := New()
	r.SetNamespace(`A\B`)
	r.AddUseRule(UseRule{Alias: "B", Target: `Foo\Bar`, Kind: phpsymbol.KindClass})

	resolved, unresolved := r.ResolveNotFullyQualified("B", phpsymbol.KindClass)
	require.Equal(t, `Foo\Bar`, resolved)
	require.Empty(t, unresolved)
}

func TestResolveNotFullyQualifiedQualifiedFirstSegmentAlias(t *testing.T) {
	r := New()
	r.AddUseRule(UseRule{Alias: "Foo", Target: `Vendor\Foo`, Kind: phpsymbol.KindClass})

	resolved, _ := r.ResolveNotFullyQualified(`Foo\Bar`, phpsymbol.KindClass)
	require.Equal(t, `Vendor\Foo\Bar`, resolved)
}

func TestResolveNotFullyQualifiedReservedWord(t *testing.T) {
	r := New()
	r.SetNamespace("App")
	resolved, unresolved := r.ResolveNotFullyQualified("int", phpsymbol.KindClass)
	require.Equal(t, "int", resolved)
	require.Empty(t, unresolved)
}

func TestResolutionIdempotenceOnFullyQualified(t *testing.T) {
	// spec.md §8 property 3: resolving an already fully-qualified name
	// returns it unchanged.
	require.Equal(t, `Foo\Bar`, ResolveFullyQualified(`Foo\Bar`))
	require.Equal(t, `Foo\Bar`, ResolveFullyQualified(ResolveFullyQualified(`\Foo\Bar`)))
}

func TestClassStackPushPop(t *testing.T) {
	r := New()
	require.Nil(t, r.CurrentClass())

	cls := &phpsymbol.Symbol{Kind: phpsymbol.KindClass, Name: `A\B`}
	r.PushClass(cls)
	require.Same(t, cls, r.CurrentClass())

	r.PopClass()
	require.Nil(t, r.CurrentClass())
}

func TestResolveTypeStringUnion(t *testing.T) {
	r := New()
	r.SetNamespace("App")
	r.AddUseRule(UseRule{Alias: "Collection", Target: `Illuminate\Support\Collection`, Kind: phpsymbol.KindClass})

	got := r.ResolveTypeString("?Collection|int")
	require.Equal(t, `?Illuminate\Support\Collection|int`, got)
}
