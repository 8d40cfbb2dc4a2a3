package spec

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ignoredSuffix marks an example that must be skipped by execution and
// rewrite. It is stripped from the stored example title.
const ignoredSuffix = "(ignored)"

var (
	headingPattern = regexp.MustCompile(`^(#{1,6}) +(.*?)\s*$`)
	markerPattern  = regexp.MustCompile("^(Given|When|Then|And) `([^`]+)` (as|is):$")
)

type markerKind int

const (
	markerNone markerKind = iota
	markerGiven
	markerWhen
	markerThen
)

// Parse parses a spec document and returns its tree plus any parse errors.
// The tree may be partial when errors are present.
func Parse(path string, content []byte) (*Document, []ParseError) {
	raw := string(content)
	doc := &Document{Path: path, Raw: raw}
	var errs []ParseError

	lines := strings.Split(raw, "\n")
	offs := make([]int, len(lines)+1)
	for i, l := range lines {
		offs[i+1] = offs[i] + len(l) + 1
	}

	errAt := func(off int, msg string) {
		line, col := position(raw, off)
		errs = append(errs, ParseError{Path: path, Line: line, Column: col, Message: msg})
	}

	i := skipFrontmatter(doc, lines)

	var stack []*Section
	var cur *Section
	last := markerNone

	for i < len(lines) {
		t := strings.TrimSpace(lines[i])

		// Comment regions are excluded entirely: nothing inside them is
		// parsed, executed, or rewritten.
		if strings.HasPrefix(t, "<!--") {
			for i < len(lines) && !strings.Contains(lines[i], "-->") {
				i++
			}
			if i < len(lines) {
				i++
			}
			continue
		}

		if m := headingPattern.FindStringSubmatch(t); m != nil {
			level := len(m[1])
			sec := &Section{
				Title: m[2],
				Level: level,
				Kind:  sectionKind(m[2]),
				off:   offs[i],
			}
			for len(stack) > 0 && stack[len(stack)-1].Level >= level {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				doc.Sections = append(doc.Sections, sec)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, sec)
			}
			stack = append(stack, sec)
			cur = sec
			last = markerNone
			i++
			continue
		}

		if cur != nil && looksLikeMarker(t) {
			kind, name, perr := matchMarker(t, last)
			if perr != "" {
				errAt(offs[i], perr)
				i++
				continue
			}

			binding, next, perr := consumeFence(raw, lines, offs, i)
			if perr != "" {
				errAt(offs[i], perr)
				i = next
				last = kind
				continue
			}
			binding.Name = name
			attachBinding(cur, kind, binding)
			last = kind
			i = next
			continue
		}

		// A fence outside a marker is opaque content: skip it whole so
		// headings or markers inside it are never interpreted.
		if strings.HasPrefix(t, "```") {
			i++
			for i < len(lines) && strings.TrimSpace(lines[i]) != "```" {
				i++
			}
			if i < len(lines) {
				i++
			}
			continue
		}

		// Plain prose, preserved verbatim in Raw and otherwise ignored.
		i++
	}

	doc.walk(func(s *Section) {
		validate(s, raw, path, &errs)
	})

	return doc, errs
}

func skipFrontmatter(doc *Document, lines []string) int {
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != "---" {
		return 0
	}
	for j := 1; j < len(lines); j++ {
		t := strings.TrimRight(lines[j], "\r")
		if t == "---" || t == "..." {
			var meta map[string]any
			body := strings.Join(lines[1:j], "\n")
			if err := yaml.Unmarshal([]byte(body), &meta); err != nil {
				return 0
			}
			doc.Meta = meta
			return j + 1
		}
	}
	return 0
}

func sectionKind(title string) SectionKind {
	switch {
	case strings.HasPrefix(title, "Background"):
		return KindBackground
	case strings.HasPrefix(title, "Example:"):
		return KindExample
	default:
		return KindPlain
	}
}

// looksLikeMarker reports whether a line is shaped like a spec marker
// closely enough that a mismatch should be reported rather than treated
// as prose.
func looksLikeMarker(t string) bool {
	if !strings.HasPrefix(t, "Given ") && !strings.HasPrefix(t, "When ") &&
		!strings.HasPrefix(t, "Then ") && !strings.HasPrefix(t, "And ") {
		return false
	}
	return strings.HasSuffix(t, " as:") || strings.HasSuffix(t, " is:")
}

// matchMarker parses a marker line into its kind and binding name. The
// returned string is an error message for malformed or misplaced markers.
func matchMarker(t string, last markerKind) (markerKind, string, string) {
	m := markerPattern.FindStringSubmatch(t)
	if m == nil {
		return markerNone, "", "expected marker paragraph of the form `Given `<name>` as:`, `When `<name>` is:` or `Then `<name>` is:`"
	}
	verb, name, suffix := m[1], m[2], m[3]

	switch verb {
	case "Given":
		if suffix != "as" {
			return markerNone, "", "`Given` marker must end with `as:`"
		}
		return markerGiven, name, ""
	case "When":
		if suffix != "is" {
			return markerNone, "", "`When` marker must end with `is:`"
		}
		return markerWhen, name, ""
	case "Then":
		if suffix != "is" {
			return markerNone, "", "`Then` marker must end with `is:`"
		}
		return markerThen, name, ""
	default: // And
		if last == markerNone {
			return markerNone, "", "`And` marker without a preceding `Given`, `When`, or `Then`"
		}
		if last == markerGiven && suffix != "as" {
			return markerNone, "", "`And` marker continuing a `Given` must end with `as:`"
		}
		if last != markerGiven && suffix != "is" {
			return markerNone, "", "`And` marker continuing a `When` or `Then` must end with `is:`"
		}
		return last, name, ""
	}
}

// consumeFence reads the fenced block that must follow a marker at line i.
// It returns the binding (without name), the next line index, and an error
// message when the block is missing or unterminated.
func consumeFence(raw string, lines []string, offs []int, i int) (Binding, int, string) {
	j := i + 1
	for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
		j++
	}
	if j >= len(lines) || !strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
		return Binding{}, j, "expected fenced code block after marker"
	}

	tag := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[j]), "```"))

	k := j + 1
	for k < len(lines) && strings.TrimSpace(lines[k]) != "```" {
		k++
	}
	if k >= len(lines) {
		return Binding{}, len(lines), "unterminated code fence"
	}

	start, end := offs[j+1], offs[k]
	return Binding{
		Value: raw[start:end],
		Tag:   tag,
		Start: start,
		End:   end,
	}, k + 1, ""
}

func attachBinding(sec *Section, kind markerKind, b Binding) {
	switch kind {
	case markerGiven:
		sec.Bindings = append(sec.Bindings, b)
	case markerWhen, markerThen:
		if sec.Example == nil {
			title, ignored := exampleTitle(sec.Title)
			sec.Example = &Example{Title: title, Ignored: ignored}
		}
		if kind == markerWhen {
			sec.Example.When = append(sec.Example.When, b)
		} else {
			sec.Example.Then = append(sec.Example.Then, b)
		}
	}
}

// exampleTitle derives an example title from its section heading, dropping
// the "Example:" prefix and the ignored marker.
func exampleTitle(heading string) (string, bool) {
	title := strings.TrimSpace(strings.TrimPrefix(heading, "Example:"))
	if strings.HasSuffix(title, ignoredSuffix) {
		return strings.TrimSpace(strings.TrimSuffix(title, ignoredSuffix)), true
	}
	return title, false
}

func validate(s *Section, raw, path string, errs *[]ParseError) {
	fail := func(msg string) {
		line, col := position(raw, s.off)
		*errs = append(*errs, ParseError{Path: path, Line: line, Column: col, Message: msg})
	}

	if s.Kind == KindBackground && len(s.Bindings) == 0 {
		fail("background section needs at least one `Given` binding")
	}
	if s.Kind == KindExample && s.Example == nil {
		fail("example section needs at least one `When` input")
		return
	}
	if s.Example != nil {
		if len(s.Example.When) == 0 {
			fail("example section needs at least one `When` input")
		}
		if len(s.Example.Then) == 0 {
			fail("example section needs at least one `Then` output")
		}
	}
}
