package phpindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

const greeterSource = `<?php
namespace App;

use App\Contracts\Greets;

/**
 * Greets a visitor by name.
 */
class Greeter implements Greets
{
    public const DEFAULT_GREETING = "Hello";

    private string $greeting;

    /**
     * @param string $greeting
     */
    public function __construct(string $greeting = "Hello")
    {
        $this->greeting = $greeting;
    }

    /**
     * @param string $name
     * @return string
     */
    public function greet(string $name): string
    {
        return $this->greeting . ", " . $name;
    }
}
`

func findChild(sym *phpsymbol.Symbol, name string) *phpsymbol.Symbol {
	for _, c := range sym.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAnalyzeDocumentBuildsClassSymbolTree(t *testing.T) {
	a := NewAnalyzer()
	a.Workers = 1

	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/Greeter.php", []byte(greeterSource))
	require.NoError(t, err)
	require.Equal(t, "file:///app/Greeter.php", analysis.URI)

	ns := findChild(analysis.File, "App")
	require.NotNil(t, ns)
	require.Equal(t, phpsymbol.KindNamespace, ns.Kind)

	class := findChild(ns, `App\Greeter`)
	require.NotNil(t, class)
	require.Equal(t, phpsymbol.KindClass, class.Kind)
	require.Equal(t, "Greets a visitor by name.", class.Doc.Description)

	ctor := findChild(class, "__construct")
	require.NotNil(t, ctor)
	require.Len(t, ctor.Children, 1)
	require.Equal(t, "$greeting", ctor.Children[0].Name)
	require.Equal(t, "string", ctor.Children[0].Type)
	require.Equal(t, `App\Greeter`, ctor.Scope)
	require.Equal(t, "App", class.Scope)

	greet := findChild(class, "greet")
	require.NotNil(t, greet)
	require.Equal(t, "string", greet.Type)

	prop := findChild(class, "$greeting")
	require.NotNil(t, prop)
	require.Equal(t, phpsymbol.KindProperty, prop.Kind)
	require.True(t, prop.Modifiers.Has(phpsymbol.Private))

	constant := findChild(class, "DEFAULT_GREETING")
	require.NotNil(t, constant)
	require.Equal(t, phpsymbol.KindClassConstant, constant.Kind)
}

func TestAnalyzeDocumentRecordsImplementsReference(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/Greeter.php", []byte(greeterSource))
	require.NoError(t, err)

	var found bool
	for _, ref := range analysis.References {
		if ref.Name == `App\Contracts\Greets` {
			found = true
		}
	}
	require.True(t, found, "expected a resolved reference to App\\Contracts\\Greets via the use-import alias")

	ns := findChild(analysis.File, "App")
	require.NotNil(t, ns)
	class := findChild(ns, `App\Greeter`)
	require.NotNil(t, class)
	require.Len(t, class.Associated, 1)
	require.Equal(t, `App\Contracts\Greets`, class.Associated[0].Name)
}

func TestAnalyzeDocumentContextCancellation(t *testing.T) {
	a := NewAnalyzer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.AnalyzeDocument(ctx, "file:///app/Greeter.php", []byte(greeterSource))
	require.Error(t, err)
}

func TestAnalyzeDocumentUseSymbolCarriesAliasAndReference(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/Greeter.php", []byte(greeterSource))
	require.NoError(t, err)

	ns := findChild(analysis.File, "App")
	require.NotNil(t, ns)

	use := findChild(ns, "Greets")
	require.NotNil(t, use)
	require.Equal(t, phpsymbol.KindUse, use.Kind)
	require.True(t, use.Modifiers.Has(phpsymbol.Use))
	require.Len(t, use.Associated, 1)
	require.Equal(t, `App\Contracts\Greets`, use.Associated[0].Name)
}

const variableBubblingSource = `<?php
namespace App;

function scan()
{
    $a = 1;
    if ($a) {
        $a = 2;
        $b = 3;
    }
}
`

func TestAnalyzeDocumentDedupsVariablesBubbledThroughAggregator(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/scan.php", []byte(variableBubblingSource))
	require.NoError(t, err)

	ns := findChild(analysis.File, "App")
	require.NotNil(t, ns)
	fn := findChild(ns, "App\\scan")
	require.NotNil(t, fn)

	var names []string
	for _, c := range fn.Children {
		if c.Kind == phpsymbol.KindVariable {
			names = append(names, c.Name)
		}
	}
	require.ElementsMatch(t, []string{"$a", "$b"}, names,
		"expected the $a inside the if-block to dedup against the outer $a, both bubbled up through the aggregator fallback")
}

const anonymousAndDefineSource = `<?php
namespace App;

define('MAX_RETRIES', 3);

function makeGreeter()
{
    $name = 'World';
    $greeter = new class {
        public function greet(): string
        {
            return "Hello";
        }
    };
    $fn = function () use ($greeter) {
        return $greeter;
    };
    return $fn;
}
`

func TestAnalyzeDocumentHandlesDefineAnonymousClassAndClosure(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/make.php", []byte(anonymousAndDefineSource))
	require.NoError(t, err)

	ns := findChild(analysis.File, "App")
	require.NotNil(t, ns)

	constant := findChild(ns, "MAX_RETRIES")
	require.NotNil(t, constant)
	require.Equal(t, phpsymbol.KindConstant, constant.Kind)
	require.Equal(t, "3", constant.Value)
	require.Equal(t, "int", constant.Type)

	fn := findChild(ns, `App\makeGreeter`)
	require.NotNil(t, fn)

	var sawAnonymousClass, sawClosure bool
	for _, c := range fn.Children {
		switch {
		case c.Kind == phpsymbol.KindClass && c.Modifiers.Has(phpsymbol.Anonymous):
			sawAnonymousClass = true
		case c.Kind == phpsymbol.KindFunction && c.Modifiers.Has(phpsymbol.Anonymous):
			sawClosure = true
			var sawUseVar bool
			for _, cc := range c.Children {
				if cc.Name == "$greeter" && cc.Modifiers.Has(phpsymbol.Use) {
					sawUseVar = true
				}
			}
			require.True(t, sawUseVar, "expected the closure's use($greeter) clause to contribute a Use-modifier Variable child")
		}
	}
	require.True(t, sawAnonymousClass, "expected `new class {...}` to contribute an Anonymous Class child")
	require.True(t, sawClosure, "expected the closure expression to contribute an Anonymous Function child")
}

const memberAccessSource = `<?php
namespace App;

function touch(Greeter $o)
{
    $o->greeting;
    $o->greet();
    Greeter::DEFAULT_GREETING;
    Greeter::make();
}
`

func TestAnalyzeDocumentRecordsMemberAndStaticAccessReferences(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/touch.php", []byte(memberAccessSource))
	require.NoError(t, err)

	has := func(kind phpsymbol.Kind, name string) bool {
		for _, ref := range analysis.References {
			if ref.Kind == kind && ref.Name == name {
				return true
			}
		}
		return false
	}

	require.True(t, has(phpsymbol.KindProperty, "$greeting"))
	require.True(t, has(phpsymbol.KindMethod, "greet"))
	require.True(t, has(phpsymbol.KindClassConstant, "DEFAULT_GREETING"))
	require.True(t, has(phpsymbol.KindMethod, "make"))
	require.True(t, has(phpsymbol.KindClass, `App\Greeter`),
		"expected the static-access receiver Greeter to resolve within namespace App and record a Class reference")
}

const classConstantAndTopConstSource = `<?php
namespace App;

const VERSION = '1.0';

class Config
{
    const TIMEOUT = 30;
}
`

func TestAnalyzeDocumentClassConstantIsStaticAndTopConstIsNamespaced(t *testing.T) {
	a := NewAnalyzer()
	analysis, err := a.AnalyzeDocument(context.Background(), "file:///app/config.php", []byte(classConstantAndTopConstSource))
	require.NoError(t, err)

	ns := findChild(analysis.File, "App")
	require.NotNil(t, ns)

	version := findChild(ns, `App\VERSION`)
	require.NotNil(t, version)
	require.Equal(t, phpsymbol.KindConstant, version.Kind)
	require.Equal(t, "'1.0'", version.Value)

	class := findChild(ns, `App\Config`)
	require.NotNil(t, class)
	timeout := findChild(class, "TIMEOUT")
	require.NotNil(t, timeout)
	require.Equal(t, phpsymbol.KindClassConstant, timeout.Kind)
	require.True(t, timeout.Modifiers.Has(phpsymbol.Static), "class constants are always accessed through the class, never an instance")
}

func TestAnalyzePathsWalksDirectoryAndSkipsVendor(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Greeter.php"), []byte(greeterSource), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vendor", "pkg", "Ignored.php"), []byte(greeterSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("not php"), 0o644))

	a := NewAnalyzer()
	a.Workers = 2

	results, err := a.AnalyzePaths(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, filepath.Join(dir, "Greeter.php"), results[0].URI)
}
