// Package phpdoc parses PHPDoc comments into the tags the symbol-extraction
// pass merges onto declarations (spec.md §4.5). It is grounded on the
// doc-comment parser in the teacher's internal/ragcode/analyzers/php, with
// the @property*/@method tag handling and type-string resolution spec.md
// §4.5 additionally requires.
package phpdoc

import (
	"regexp"
	"strings"

	"github.com/doITmagic/phpindex/internal/phpsymbol/resolve"
)

// Param is one @param tag.
type Param struct {
	Name        string
	Type        string
	Description string
}

// Return is one @return tag.
type Return struct {
	Type        string
	Description string
}

// Magic is one @property*/@method tag: spec.md §4.5 says these synthesise
// additional child symbols on the owning class/interface/trait.
type Magic struct {
	IsMethod    bool
	Name        string
	Type        string // property type, or method return type
	Description string
	Static      bool   // @method static ...
	ReadOnly    bool   // @property-read
	WriteOnly   bool   // @property-write
	Params      []Param // for @method
}

// Doc is the parsed form of one `/** ... */` comment.
type Doc struct {
	Description string
	Params      []Param
	Returns     []Return
	VarType     string
	VarName     string
	Deprecated  string
	Throws      []string
	See         []string
	Magic       []Magic
}

var (
	paramRe         = regexp.MustCompile(`^@param\s+(\S+)\s+\$(\S+)(?:\s+(.*))?$`)
	returnRe        = regexp.MustCompile(`^@return\s+(\S+)(?:\s+(.*))?$`)
	varRe           = regexp.MustCompile(`^@var\s+(\S+)(?:\s+\$?(\S+))?(?:\s+(.*))?$`)
	throwsRe        = regexp.MustCompile(`^@throws\s+(\S+)(?:\s+(.*))?$`)
	seeRe           = regexp.MustCompile(`^@see\s+(.*)$`)
	propertyRe      = regexp.MustCompile(`^@property(-read|-write)?\s+(\S+)\s+\$(\S+)(?:\s+(.*))?$`)
	methodRe        = regexp.MustCompile(`^@method\s+(?:(static)\s+)?(?:(\S+)\s+)?(\w+)\s*\(([^)]*)\)(?:\s+(.*))?$`)
	methodParamPart = regexp.MustCompile(`(\S+)\s+\$(\w+)`)
)

// Parse parses the raw text of a doc comment (including its "/**"/"*/"
// delimiters and leading "*" continuation markers).
func Parse(raw string) *Doc {
	doc := &Doc{}
	if raw == "" {
		return doc
	}

	var descLines, tagLines []string
	inDescription := true
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "/**")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") {
			inDescription = false
			tagLines = append(tagLines, line)
			continue
		}
		if inDescription {
			descLines = append(descLines, line)
		}
	}
	doc.Description = strings.Join(descLines, " ")

	for _, line := range tagLines {
		parseTag(line, doc)
	}
	return doc
}

func parseTag(line string, doc *Doc) {
	if m := paramRe.FindStringSubmatch(line); m != nil {
		doc.Params = append(doc.Params, Param{Type: m[1], Name: m[2], Description: strings.TrimSpace(m[3])})
		return
	}
	if m := returnRe.FindStringSubmatch(line); m != nil {
		doc.Returns = append(doc.Returns, Return{Type: m[1], Description: strings.TrimSpace(m[2])})
		return
	}
	if m := propertyRe.FindStringSubmatch(line); m != nil {
		doc.Magic = append(doc.Magic, Magic{
			Name:        "$" + m[3],
			Type:        m[2],
			Description: strings.TrimSpace(m[4]),
			ReadOnly:    m[1] == "-read",
			WriteOnly:   m[1] == "-write",
		})
		return
	}
	if m := methodRe.FindStringSubmatch(line); m != nil {
		magic := Magic{
			IsMethod: true,
			Static:   m[1] == "static",
			Type:     m[2],
			Name:     m[3],
		}
		for _, p := range methodParamPart.FindAllStringSubmatch(m[4], -1) {
			magic.Params = append(magic.Params, Param{Type: p[1], Name: p[2]})
		}
		magic.Description = strings.TrimSpace(m[5])
		doc.Magic = append(doc.Magic, magic)
		return
	}
	if m := varRe.FindStringSubmatch(line); m != nil {
		doc.VarType = m[1]
		doc.VarName = m[2]
		return
	}
	if m := throwsRe.FindStringSubmatch(line); m != nil {
		throw := m[1]
		if m[2] != "" {
			throw += " - " + strings.TrimSpace(m[2])
		}
		doc.Throws = append(doc.Throws, throw)
		return
	}
	if m := seeRe.FindStringSubmatch(line); m != nil {
		doc.See = append(doc.See, strings.TrimSpace(m[1]))
		return
	}
	if strings.HasPrefix(line, "@deprecated") {
		doc.Deprecated = strings.TrimSpace(strings.TrimPrefix(line, "@deprecated"))
	}
	// Any other/malformed tag is silently dropped (spec.md §7: "PHPDoc
	// parse failures: the tag is dropped; no symbol corruption").
}

// ResolveTypes rewrites every type string this Doc carries (param types,
// return types, @var type, magic member types) through r, so each component
// of a union/intersection type is FQN-expanded per spec.md §4.5's closing
// sentence.
func (d *Doc) ResolveTypes(r *resolve.Resolver) {
	for i := range d.Params {
		d.Params[i].Type = r.ResolveTypeString(d.Params[i].Type)
	}
	for i := range d.Returns {
		d.Returns[i].Type = r.ResolveTypeString(d.Returns[i].Type)
	}
	if d.VarType != "" {
		d.VarType = r.ResolveTypeString(d.VarType)
	}
	for i := range d.Magic {
		d.Magic[i].Type = r.ResolveTypeString(d.Magic[i].Type)
		for j := range d.Magic[i].Params {
			d.Magic[i].Params[j].Type = r.ResolveTypeString(d.Magic[i].Params[j].Type)
		}
	}
}

// ParamByName finds a @param tag for the given parameter name (without the
// leading "$"), used by the Parameter transformer to claim its doc entry.
func (d *Doc) ParamByName(name string) (Param, bool) {
	name = strings.TrimPrefix(name, "$")
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}
