// Package dom provides detached element trees for the Flutterer client:
// construction helpers, click dispatch with bubbling, and HTML rendering.
// Trees are built fresh from a state snapshot and swapped in wholesale;
// nothing in this package mutates an existing tree.
package dom

import "strings"

// Node represents a single element in a detached tree fragment.
type Node struct {
	Tag      string
	Attrs    map[string]string
	Children []*Node
	Text     string // text content, rendered before children

	// Value holds the current content of a form control. Handlers read
	// it at click time, the way a browser handler reads an input field.
	Value string

	// OnClick is invoked when a click on this node or one of its
	// descendants bubbles up to it.
	OnClick func(*Event)
}

// New creates a node with the given tag, attributes and children.
func New(tag string, attrs map[string]string, children ...*Node) *Node {
	return &Node{
		Tag:      tag,
		Attrs:    attrs,
		Children: children,
	}
}

// Div creates a <div> node with the given class and children.
func Div(class string, children ...*Node) *Node {
	return New("div", map[string]string{"class": class}, children...)
}

// Span creates a <span> node with the given class and text content.
func Span(class, text string) *Node {
	n := New("span", map[string]string{"class": class})
	n.Text = text
	return n
}

// Button creates a <button> node with the given class and label.
func Button(class, label string) *Node {
	n := New("button", map[string]string{"class": class})
	n.Text = label
	return n
}

// Img creates an <img> node with the given class and source path.
func Img(class, src string) *Node {
	return New("img", map[string]string{"class": class, "src": src})
}

// Input creates an <input type="text"> node.
func Input(class, placeholder string) *Node {
	return New("input", map[string]string{
		"class":       class,
		"type":        "text",
		"placeholder": placeholder,
	})
}

// TextArea creates a <textarea> node.
func TextArea(class, placeholder string) *Node {
	return New("textarea", map[string]string{
		"class":       class,
		"placeholder": placeholder,
	})
}

// Append adds children to the node and returns it.
func (n *Node) Append(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// HasClass reports whether the node's class attribute contains name.
func (n *Node) HasClass(name string) bool {
	for _, c := range strings.Fields(n.Attrs["class"]) {
		if c == name {
			return true
		}
	}
	return false
}

// Find returns the first node in depth-first order matching pred, or nil.
func (n *Node) Find(pred func(*Node) bool) *Node {
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(pred); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in depth-first order matching pred.
func (n *Node) FindAll(pred func(*Node) bool) []*Node {
	var out []*Node
	if pred(n) {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, c.FindAll(pred)...)
	}
	return out
}

// ByClass matches nodes carrying the given class.
func ByClass(name string) func(*Node) bool {
	return func(n *Node) bool { return n.HasClass(name) }
}

// ByTag matches nodes with the given tag.
func ByTag(tag string) func(*Node) bool {
	return func(n *Node) bool { return n.Tag == tag }
}
