package phpsymbol

// superglobals are the PHP variable names that UniqueSymbolCollection never
// emits, per spec.md §4.4.
var superglobals = map[string]bool{
	"$GLOBALS":              true,
	"$_SERVER":              true,
	"$_GET":                 true,
	"$_POST":                true,
	"$_FILES":               true,
	"$_REQUEST":             true,
	"$_SESSION":             true,
	"$_ENV":                 true,
	"$_COOKIE":              true,
	"$php_errormsg":         true,
	"$HTTP_RAW_POST_DATA":   true,
	"$http_response_header": true,
	"$argc":                 true,
	"$argv":                 true,
	"$this":                 true,
}

// UniqueSymbolCollection preserves insertion order while de-duplicating
// Variable and Parameter symbols by name (first occurrence wins) and
// unconditionally dropping PHP superglobals. Every other kind is always
// appended. See spec.md §4.4 and §8 property 5.
type UniqueSymbolCollection struct {
	symbols []*Symbol
	seen    map[string]bool
}

// NewUniqueSymbolCollection returns an empty collection.
func NewUniqueSymbolCollection() *UniqueSymbolCollection {
	return &UniqueSymbolCollection{seen: make(map[string]bool)}
}

// Append adds one symbol, applying the dedup/superglobal rule.
func (c *UniqueSymbolCollection) Append(s *Symbol) {
	if s == nil {
		return
	}
	if s.Kind != KindVariable && s.Kind != KindParameter {
		c.symbols = append(c.symbols, s)
		return
	}
	if superglobals[s.Name] {
		return
	}
	if c.seen[s.Name] {
		return
	}
	c.seen[s.Name] = true
	c.symbols = append(c.symbols, s)
}

// AppendAll adds every symbol in order.
func (c *UniqueSymbolCollection) AppendAll(symbols []*Symbol) {
	for _, s := range symbols {
		c.Append(s)
	}
}

// Snapshot returns the accumulated symbols in insertion order. The returned
// slice is owned by the caller; mutating it does not affect the collection.
func (c *UniqueSymbolCollection) Snapshot() []*Symbol {
	out := make([]*Symbol, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Len returns the number of symbols currently held.
func (c *UniqueSymbolCollection) Len() int {
	return len(c.symbols)
}

// IsSuperglobal reports whether name is one of the PHP superglobals that
// UniqueSymbolCollection always excludes.
func IsSuperglobal(name string) bool {
	return superglobals[name]
}
