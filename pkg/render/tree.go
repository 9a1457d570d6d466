package render

import (
	"sort"
	"strings"
)

// treeNode is one directory or file in the rendered tree.
type treeNode struct {
	name     string
	children map[string]*treeNode
	isDir    bool
}

// Tree renders the selected paths as a box-drawing tree rooted at rootLabel,
// wrapped in a <tree> block. It is derived from the selected set rather than
// a second filesystem walk, so the header always agrees with the rendered
// blocks. Empty input yields an empty string.
func Tree(rootLabel string, relPaths []string) string {
	if len(relPaths) == 0 {
		return ""
	}

	root := &treeNode{name: rootLabel, children: map[string]*treeNode{}, isDir: true}
	for _, rel := range relPaths {
		insertPath(root, strings.Split(rel, "/"))
	}

	var sb strings.Builder
	sb.WriteString("<tree>\n")
	sb.WriteString(rootLabel)
	sb.WriteString("/\n")
	writeChildren(&sb, root, "")
	sb.WriteString("</tree>")
	return sb.String()
}

func insertPath(node *treeNode, parts []string) {
	if len(parts) == 0 {
		return
	}
	child, ok := node.children[parts[0]]
	if !ok {
		child = &treeNode{name: parts[0], children: map[string]*treeNode{}}
		node.children[parts[0]] = child
	}
	if len(parts) > 1 {
		child.isDir = true
		insertPath(child, parts[1:])
	}
}

// writeChildren emits node's children sorted by name, matching the walker's
// traversal order.
func writeChildren(sb *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		child := node.children[name]
		connector := "├── "
		extension := "│   "
		if i == len(names)-1 {
			connector = "└── "
			extension = "    "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(child.name)
		if child.isDir {
			sb.WriteString("/")
		}
		sb.WriteString("\n")
		writeChildren(sb, child, prefix+extension)
	}
}
