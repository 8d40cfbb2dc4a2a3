package spec

// Document is a parsed spec document. The tree is read-only after Parse;
// rewrites are computed as byte patches against Raw, never by mutating or
// re-serializing the tree.
type Document struct {
	Path     string
	Raw      string
	Meta     map[string]any // YAML frontmatter, nil if absent
	Sections []*Section
}

// SectionKind classifies a section by its heading.
type SectionKind int

const (
	// KindPlain is any section that is neither a background nor an example.
	// Entering one expires backgrounds at its level and deeper.
	KindPlain SectionKind = iota
	// KindBackground is a section whose heading starts with "Background".
	KindBackground
	// KindExample is a section whose heading starts with "Example:".
	KindExample
)

// Section is a heading plus everything up to the next heading of the same
// or shallower level. Children always have a strictly greater level.
type Section struct {
	Title    string
	Level    int // 1..6
	Kind     SectionKind
	Bindings []Binding // Given bindings declared directly under it
	Example  *Example  // set when the section holds When/Then blocks
	Children []*Section

	off int // byte offset of the heading in Document.Raw
}

// Binding is a named fenced block. Start and End delimit the fence content
// in Document.Raw (End points at the closing fence line), so the value
// includes its trailing newline.
type Binding struct {
	Name  string
	Value string
	Tag   string // fence info string, informational only
	Start int
	End   int
}

// Example is one input/expected-output scenario. The "(ignored)" title
// suffix is stripped during parsing and recorded in Ignored.
type Example struct {
	Title   string
	Ignored bool
	When    []Binding
	Then    []Binding
}

// ExampleSections returns the sections holding examples, in document order.
func (d *Document) ExampleSections() []*Section {
	var out []*Section
	d.walk(func(s *Section) {
		if s.Example != nil {
			out = append(out, s)
		}
	})
	return out
}

// walk visits every section in document order.
func (d *Document) walk(fn func(*Section)) {
	var rec func([]*Section)
	rec = func(sections []*Section) {
		for _, s := range sections {
			fn(s)
			rec(s.Children)
		}
	}
	rec(d.Sections)
}

// Lookup returns the binding with the given name, latest declaration wins.
func lookup(bindings []Binding, name string) (Binding, bool) {
	for i := len(bindings) - 1; i >= 0; i-- {
		if bindings[i].Name == name {
			return bindings[i], true
		}
	}
	return Binding{}, false
}

// WhenValue returns the value of the named When binding.
func (e *Example) WhenValue(name string) (string, bool) {
	b, ok := lookup(e.When, name)
	return b.Value, ok
}

// ThenValue returns the value of the named Then binding.
func (e *Example) ThenValue(name string) (string, bool) {
	b, ok := lookup(e.Then, name)
	return b.Value, ok
}
