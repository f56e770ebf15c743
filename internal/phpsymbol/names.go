package phpsymbol

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCaser does locale-independent case folding for acronym/suffix-key
// generation. strings.ToLower maps rune by rune; cases.Lower applies the
// full Unicode casing rules, including context-dependent mappings.
var lowerCaser = cases.Lower(language.Und)

// stripSigil removes a single leading "$" or "_" from a name, the way
// spec.md §4.6 describes for acronym computation.
func stripSigil(name string) string {
	if name == "" {
		return name
	}
	if name[0] == '$' || name[0] == '_' {
		return name[1:]
	}
	return name
}

// Acronym computes the acronym law from spec.md §4.6 / §8 property 1: strip
// a leading sigil, then for camelCase take each uppercase letter (and the
// first letter); for snake_case / SCREAMING_CASE take the first letter of
// each underscore-delimited part. The result is always lowercase.
func Acronym(name string) string {
	base := stripSigil(name)
	if base == "" {
		return ""
	}

	if strings.Contains(base, "_") {
		var out strings.Builder
		for _, part := range strings.Split(base, "_") {
			if part == "" {
				continue
			}
			r := []rune(part)[0]
			out.WriteRune(unicode.ToLower(r))
		}
		return out.String()
	}

	runes := []rune(base)
	var out strings.Builder
	out.WriteRune(unicode.ToLower(runes[0]))
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			out.WriteRune(unicode.ToLower(r))
		}
	}
	return out.String()
}

// SuffixKeys computes the suffix-keys law from spec.md §4.6 / §8 property 2.
// The first key is the lowercased full name. Every subsequent key is the
// strict right-suffix of the previous one, cut at the next word boundary:
// right after a leading "$"/"_" sigil, right after a namespace separator,
// right after an underscore, or right at a lower-to-upper case transition
// (camelCase). Boundaries are found once over the whole name and walked in
// increasing order so namespaced, camelCase, and snake_case names all
// terminate with the final word, as spec.md's examples show.
func SuffixKeys(name string) []string {
	if name == "" {
		return nil
	}

	runes := []rune(name)
	n := len(runes)

	boundarySet := make(map[int]bool)
	if n > 1 && (runes[0] == '$' || runes[0] == '_') {
		boundarySet[1] = true
	}
	for i := 0; i < n; i++ {
		switch runes[i] {
		case '\\', '_':
			if i+1 < n {
				boundarySet[i+1] = true
			}
		default:
			if i > 0 && unicode.IsUpper(runes[i]) && unicode.IsLower(runes[i-1]) {
				boundarySet[i] = true
			}
		}
	}

	boundaries := make([]int, 0, len(boundarySet))
	for b := range boundarySet {
		if b > 0 && b < n {
			boundaries = append(boundaries, b)
		}
	}
	sort.Ints(boundaries)

	keys := make([]string, 0, len(boundaries)+1)
	keys = append(keys, lowerCaser.String(name))
	for _, b := range boundaries {
		keys = append(keys, lowerCaser.String(string(runes[b:])))
	}
	return keys
}

// SplitFQN splits a fully-qualified name into its namespace prefix (without
// a trailing separator, "" for the global namespace) and its short name.
func SplitFQN(fqn string) (namespace, short string) {
	fqn = strings.TrimPrefix(fqn, "\\")
	idx := strings.LastIndex(fqn, "\\")
	if idx < 0 {
		return "", fqn
	}
	return fqn[:idx], fqn[idx+1:]
}

// JoinFQN joins a namespace (possibly empty) and a short name.
func JoinFQN(namespace, short string) string {
	if namespace == "" {
		return short
	}
	return namespace + "\\" + short
}
