package phpdoc

import (
	"testing"

	"github.com/doITmagic/phpindex/internal/phpsymbol/resolve"
	"github.com/stretchr/testify/require"
)

func TestParseParamAndReturn(t *testing.T) {
	doc := Parse(`/**
	 * Greets somebody.
	 * @param string $name The name to greet.
	 * @return string
	 */`)

	require.Equal(t, "Greets somebody.", doc.Description)
	require.Len(t, doc.Params, 1)
	require.Equal(t, "name", doc.Params[0].Name)
	require.Equal(t, "string", doc.Params[0].Type)
	require.Len(t, doc.Returns, 1)
	require.Equal(t, "string", doc.Returns[0].Type)
}

func TestParseMagicProperty(t *testing.T) {
	doc := Parse("/** @property int $x */")
	require.Len(t, doc.Magic, 1)
	require.Equal(t, "$x", doc.Magic[0].Name)
	require.Equal(t, "int", doc.Magic[0].Type)
	require.False(t, doc.Magic[0].ReadOnly)
	require.False(t, doc.Magic[0].IsMethod)
}

func TestParseMagicPropertyReadWrite(t *testing.T) {
	doc := Parse("/**\n * @property-read int $id\n * @property-write string $name\n */")
	require.Len(t, doc.Magic, 2)
	require.True(t, doc.Magic[0].ReadOnly)
	require.True(t, doc.Magic[1].WriteOnly)
}

func TestParseMagicMethod(t *testing.T) {
	doc := Parse("/** @method static Builder query() */")
	require.Len(t, doc.Magic, 1)
	require.True(t, doc.Magic[0].IsMethod)
	require.True(t, doc.Magic[0].Static)
	require.Equal(t, "query", doc.Magic[0].Name)
	require.Equal(t, "Builder", doc.Magic[0].Type)
}

func TestParseMagicMethodWithParams(t *testing.T) {
	doc := Parse("/** @method void setName(string $name) */")
	require.Len(t, doc.Magic, 1)
	require.Len(t, doc.Magic[0].Params, 1)
	require.Equal(t, "name", doc.Magic[0].Params[0].Name)
	require.Equal(t, "string", doc.Magic[0].Params[0].Type)
}

func TestResolveTypesExpandsAliases(t *testing.T) {
	r := resolve.New()
	r.SetNamespace("App")
	r.AddUseRule(resolve.UseRule{Alias: "Builder", Target: `Illuminate\Builder`, Kind: "class"})

	doc := Parse("/** @property Builder $query */")
	doc.ResolveTypes(r)
	require.Equal(t, `Illuminate\Builder`, doc.Magic[0].Type)
}

func TestParamByName(t *testing.T) {
	doc := Parse("/** @param int $x */")
	p, ok := doc.ParamByName("$x")
	require.True(t, ok)
	require.Equal(t, "int", p.Type)

	_, ok = doc.ParamByName("$missing")
	require.False(t, ok)
}

func TestMalformedTagDropped(t *testing.T) {
	doc := Parse("/**\n * @param\n * normal description text\n */")
	require.Empty(t, doc.Params)
}
