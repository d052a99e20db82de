package dom

import (
	"html"
	"sort"
	"strings"
)

// voidElements have no closing tag.
var voidElements = map[string]bool{
	"br":    true,
	"hr":    true,
	"img":   true,
	"input": true,
}

// RenderHTML renders the tree as an HTML fragment. Attributes are emitted in
// sorted order so output is deterministic.
func RenderHTML(n *Node) string {
	var sb strings.Builder
	renderTo(&sb, n)
	return sb.String()
}

func renderTo(sb *strings.Builder, n *Node) {
	if n == nil {
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteByte(' ')
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(n.Attrs[k]))
		sb.WriteByte('"')
	}

	if n.Tag == "input" && n.Value != "" {
		sb.WriteString(` value="`)
		sb.WriteString(html.EscapeString(n.Value))
		sb.WriteByte('"')
	}

	if voidElements[n.Tag] {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')

	if n.Tag == "textarea" {
		sb.WriteString(html.EscapeString(n.Value))
	}
	sb.WriteString(html.EscapeString(n.Text))
	for _, c := range n.Children {
		renderTo(sb, c)
	}

	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}
