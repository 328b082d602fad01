package pager

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
)

// voidElements never have children or a closing tag.
var voidElements = map[string]bool{
	"input": true,
	"br":    true,
	"hr":    true,
	"img":   true,
	"meta":  true,
	"link":  true,
}

type attr struct {
	key, value string
}

// node is a child of an Element: another element, escaped text, or trusted
// markup.
type node struct {
	el   *Element
	text string
	raw  bool
}

// Element is a small HTML element tree. It keeps attribute order stable so
// output is deterministic, and merges its class list with tailwind-merge when
// rendered so later utility classes override earlier conflicting ones.
//
// Element implements templ.Component.
type Element struct {
	Tag      string
	attrs    []attr
	classes  []string
	children []node
}

// NewElement returns an empty element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// SetAttr sets an attribute, replacing any previous value. Use AddClass for
// the class attribute.
func (e *Element) SetAttr(key, value string) *Element {
	for i := range e.attrs {
		if e.attrs[i].key == key {
			e.attrs[i].value = value
			return e
		}
	}
	e.attrs = append(e.attrs, attr{key: key, value: value})
	return e
}

// Attr returns the value of an attribute and whether it is present.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.attrs {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(key string) *Element {
	e.attrs = slices.DeleteFunc(e.attrs, func(a attr) bool { return a.key == key })
	return e
}

// AddClass appends one or more space-separated class lists. Blank entries are
// ignored.
func (e *Element) AddClass(classes ...string) *Element {
	for _, c := range classes {
		e.classes = append(e.classes, strings.Fields(c)...)
	}
	return e
}

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.classes, c)
}

// Classes returns the merged class attribute value.
func (e *Element) Classes() string {
	if len(e.classes) == 0 {
		return ""
	}
	return twmerge.Merge(strings.Join(e.classes, " "))
}

// AppendChild adds child elements.
func (e *Element) AppendChild(children ...*Element) *Element {
	for _, c := range children {
		if c != nil {
			e.children = append(e.children, node{el: c})
		}
	}
	return e
}

// AppendText adds text that is escaped on output.
func (e *Element) AppendText(s string) *Element {
	e.children = append(e.children, node{text: s})
	return e
}

// AppendHTML adds trusted markup that is written verbatim.
func (e *Element) AppendHTML(s string) *Element {
	e.children = append(e.children, node{text: s, raw: true})
	return e
}

// Children returns the child elements, skipping text nodes.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, n := range e.children {
		if n.el != nil {
			out = append(out, n.el)
		}
	}
	return out
}

// InnerHTML renders the element's children only.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	_ = e.writeChildren(&buf)
	return buf.String()
}

// Render writes the element as HTML.
func (e *Element) Render(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.write(w)
}

// String renders the element to a string.
func (e *Element) String() string {
	var buf bytes.Buffer
	_ = e.write(&buf)
	return buf.String()
}

func (e *Element) write(w io.Writer) error {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.Tag)
	if classes := e.Classes(); classes != "" {
		writeAttr(&b, "class", classes)
	}
	for _, a := range e.attrs {
		writeAttr(&b, a.key, a.value)
	}
	b.WriteByte('>')
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if voidElements[e.Tag] {
		return nil
	}
	if err := e.writeChildren(w); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</"+e.Tag+">")
	return err
}

func (e *Element) writeChildren(w io.Writer) error {
	for _, n := range e.children {
		var err error
		switch {
		case n.el != nil:
			err = n.el.write(w)
		case n.raw:
			_, err = io.WriteString(w, n.text)
		default:
			_, err = io.WriteString(w, templ.EscapeString(n.text))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteByte(' ')
	b.WriteString(templ.EscapeString(key))
	b.WriteString(`="`)
	b.WriteString(templ.EscapeString(value))
	b.WriteByte('"')
}

var _ templ.Component = (*Element)(nil)
