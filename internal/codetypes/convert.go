package codetypes

import (
	"github.com/doITmagic/phpindex/internal/phpsymbol"
)

// FromSymbol renders a phpsymbol.Symbol as the canonical JSON descriptor
// schema the MCP tool layer reports, the same way the teacher's analyzers
// all fed a shared Descriptor shape regardless of source language — here
// there is only one source language, so Language is always "php".
func FromSymbol(sym *phpsymbol.Symbol) SymbolDescriptor {
	return SymbolDescriptor{
		Language:    "php",
		Kind:        string(sym.Kind),
		Name:        sym.Name,
		Namespace:   sym.Scope,
		Signature:   signatureOf(sym),
		Description: sym.Doc.Description,
		Location:    locationOf(sym.Location),
	}
}

// ClassFromSymbol expands a class/interface/trait Symbol into the richer
// ClassDescriptor, including its fields and methods.
func ClassFromSymbol(sym *phpsymbol.Symbol) ClassDescriptor {
	cd := ClassDescriptor{
		Language:    "php",
		Kind:        string(sym.Kind),
		Name:        symbolLeafName(sym.Name),
		Namespace:   sym.Scope,
		FullName:    sym.Name,
		Description: sym.Doc.Description,
		Location:    locationOf(sym.Location),
	}
	for _, child := range sym.Children {
		switch child.Kind {
		case phpsymbol.KindProperty:
			cd.Fields = append(cd.Fields, FieldFromSymbol(child))
		case phpsymbol.KindMethod:
			cd.Methods = append(cd.Methods, FunctionFromSymbol(child))
		}
	}
	for _, ref := range sym.Associated {
		cd.Relations = append(cd.Relations, RelationDescriptor{
			Name:          ref.Name,
			RelationKind:  relationKindOf(ref.Kind),
			RelatedSymbol: ref.Name,
		})
	}
	return cd
}

// FunctionFromSymbol expands a function/method Symbol, including its
// aggregated parameters.
func FunctionFromSymbol(sym *phpsymbol.Symbol) FunctionDescriptor {
	fd := FunctionDescriptor{
		Language:    "php",
		Kind:        string(sym.Kind),
		Name:        sym.Name,
		Namespace:   sym.Scope,
		Signature:   signatureOf(sym),
		Description: sym.Doc.Description,
		Location:    locationOf(sym.Location),
		Visibility:  sym.Modifiers.Visibility().String(),
		IsStatic:    sym.Modifiers.Has(phpsymbol.Static),
		IsAbstract:  sym.Modifiers.Has(phpsymbol.Abstract),
		IsFinal:     sym.Modifiers.Has(phpsymbol.Final),
	}
	for _, p := range sym.Children {
		if p.Kind != phpsymbol.KindParameter {
			continue
		}
		fd.Parameters = append(fd.Parameters, ParamDescriptor{Name: p.Name, Type: p.Type})
	}
	if sym.Doc.Type != "" || sym.Type != "" {
		fd.Returns = []ReturnDescriptor{{Type: returnType(sym), SourceHint: returnSourceHint(sym)}}
	}
	return fd
}

// FieldFromSymbol renders a property Symbol as a FieldDescriptor.
func FieldFromSymbol(sym *phpsymbol.Symbol) FieldDescriptor {
	return FieldDescriptor{
		Name:        sym.Name,
		Type:        sym.Type,
		Visibility:  sym.Modifiers.Visibility().String(),
		Description: sym.Doc.Description,
	}
}

func locationOf(r phpsymbol.Range) SymbolLocation {
	return SymbolLocation{
		URI:       r.URI,
		StartLine: r.StartLine,
		EndLine:   r.EndLine,
	}
}

func signatureOf(sym *phpsymbol.Symbol) string {
	if sym.Type != "" {
		return sym.Name + ": " + sym.Type
	}
	return sym.Name
}

func returnType(sym *phpsymbol.Symbol) string {
	if sym.Type != "" {
		return sym.Type
	}
	return sym.Doc.Type
}

func returnSourceHint(sym *phpsymbol.Symbol) string {
	if sym.Type != "" {
		return "type_hint"
	}
	if sym.Doc.Type != "" {
		return "phpdoc"
	}
	return "unknown"
}

func relationKindOf(k phpsymbol.Kind) string {
	switch k {
	case phpsymbol.KindInterface:
		return "implements"
	case phpsymbol.KindTrait:
		return "uses"
	default:
		return "extends"
	}
}

// symbolLeafName strips a namespace prefix from a fully qualified symbol
// name, e.g. "App\Greeter" -> "Greeter".
func symbolLeafName(fqn string) string {
	last := 0
	for i := 0; i < len(fqn); i++ {
		if fqn[i] == '\\' {
			last = i + 1
		}
	}
	return fqn[last:]
}
