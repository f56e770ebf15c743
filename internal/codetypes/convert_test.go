package codetypes

import (
	"testing"

	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

func TestClassFromSymbolCollectsFieldsAndMethods(t *testing.T) {
	class := &phpsymbol.Symbol{
		Kind: phpsymbol.KindClass,
		Name: `App\Greeter`,
		Doc:  phpsymbol.Doc{Description: "Greets a visitor."},
		Associated: []phpsymbol.Reference{
			{Kind: phpsymbol.KindInterface, Name: `App\Contracts\Greets`},
		},
		Children: []*phpsymbol.Symbol{
			{
				Kind:      phpsymbol.KindProperty,
				Name:      "$greeting",
				Type:      "string",
				Modifiers: phpsymbol.Private,
			},
			{
				Kind:      phpsymbol.KindMethod,
				Name:      "greet",
				Type:      "string",
				Modifiers: phpsymbol.Public,
				Children: []*phpsymbol.Symbol{
					{Kind: phpsymbol.KindParameter, Name: "$name", Type: "string"},
				},
			},
		},
	}

	cd := ClassFromSymbol(class)
	if cd.Name != "Greeter" {
		t.Errorf("Name = %q, want %q", cd.Name, "Greeter")
	}
	if cd.FullName != `App\Greeter` {
		t.Errorf("FullName = %q, want %q", cd.FullName, `App\Greeter`)
	}
	if len(cd.Fields) != 1 || cd.Fields[0].Name != "$greeting" {
		t.Fatalf("Fields = %#v", cd.Fields)
	}
	if cd.Fields[0].Visibility != "private" {
		t.Errorf("Fields[0].Visibility = %q, want %q", cd.Fields[0].Visibility, "private")
	}
	if len(cd.Methods) != 1 || cd.Methods[0].Name != "greet" {
		t.Fatalf("Methods = %#v", cd.Methods)
	}
	if len(cd.Methods[0].Parameters) != 1 || cd.Methods[0].Parameters[0].Name != "$name" {
		t.Fatalf("Methods[0].Parameters = %#v", cd.Methods[0].Parameters)
	}
	if len(cd.Relations) != 1 || cd.Relations[0].RelationKind != "implements" {
		t.Fatalf("Relations = %#v", cd.Relations)
	}
}

func TestFunctionFromSymbolReturnsSourceHint(t *testing.T) {
	fn := &phpsymbol.Symbol{
		Kind: phpsymbol.KindFunction,
		Name: "greet",
		Doc:  phpsymbol.Doc{Type: "string"},
	}
	fd := FunctionFromSymbol(fn)
	if len(fd.Returns) != 1 {
		t.Fatalf("Returns = %#v", fd.Returns)
	}
	if fd.Returns[0].SourceHint != "phpdoc" {
		t.Errorf("SourceHint = %q, want %q", fd.Returns[0].SourceHint, "phpdoc")
	}

	fn.Type = "string"
	fd = FunctionFromSymbol(fn)
	if fd.Returns[0].SourceHint != "type_hint" {
		t.Errorf("SourceHint = %q, want %q", fd.Returns[0].SourceHint, "type_hint")
	}
}
