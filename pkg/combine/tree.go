// File: pkg/combine/tree.go
package combine

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NodeKind tags a TreeNode as a directory or a file.
type NodeKind int

const (
	KindDirectory NodeKind = iota
	KindFile
)

// TreeNode is one entry of the structure diagram.
type TreeNode struct {
	Name     string
	Kind     NodeKind
	Children map[string]*TreeNode // Only set for directories.
}

// NewTree returns an empty root directory node.
func NewTree() *TreeNode {
	return &TreeNode{Kind: KindDirectory, Children: make(map[string]*TreeNode)}
}

// Insert adds a slash-separated path below n. Empty segments are dropped and
// intermediate directories are shared. The last segment becomes a file.
func (n *TreeNode) Insert(path string) {
	parts := splitSegments(path)
	if len(parts) == 0 {
		return
	}
	current := n
	for i, part := range parts {
		if i == len(parts)-1 {
			if _, exists := current.Children[part]; !exists {
				current.Children[part] = &TreeNode{Name: part, Kind: KindFile}
			}
			return
		}
		child, exists := current.Children[part]
		if !exists || child.Kind != KindDirectory {
			child = &TreeNode{Name: part, Kind: KindDirectory, Children: make(map[string]*TreeNode)}
			current.Children[part] = child
		}
		current = child
	}
}

// BuildTree inserts every path into a fresh tree.
func BuildTree(paths []string) *TreeNode {
	root := NewTree()
	for _, p := range paths {
		root.Insert(p)
	}
	return root
}

// Render draws the children of n as a box-drawing diagram, one entry per line.
func (n *TreeNode) Render() string {
	var sb strings.Builder
	n.render(&sb, "")
	return sb.String()
}

func (n *TreeNode) render(sb *strings.Builder, indent string) {
	children := n.sortedChildren()
	for i, child := range children {
		isLast := i == len(children)-1
		connector := "├── "
		extension := "│   "
		if isLast {
			connector = "└── "
			extension = "    "
		}
		sb.WriteString(indent)
		sb.WriteString(connector)
		sb.WriteString(child.Name)
		sb.WriteString("\n")
		if child.Kind == KindDirectory {
			child.render(sb, indent+extension)
		}
	}
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und)
)

// sortedChildren orders entries by root-locale collation with byte order
// breaking ties. Directories and files are interleaved.
func (n *TreeNode) sortedChildren() []*TreeNode {
	children := make([]*TreeNode, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child)
	}

	collatorMu.Lock()
	defer collatorMu.Unlock()
	sort.Slice(children, func(i, j int) bool {
		if c := collator.CompareString(children[i].Name, children[j].Name); c != 0 {
			return c < 0
		}
		return children[i].Name < children[j].Name
	})
	return children
}

func splitSegments(path string) []string {
	raw := strings.Split(path, "/")
	parts := raw[:0]
	for _, part := range raw {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// renderStructure produces the structure section heading the document.
func renderStructure(label string, displayPaths []string) string {
	return "Project Structure: " + label + "\n" + BuildTree(displayPaths).Render() + "\n---\n\n"
}

// renderSelectedFile produces the heading used in single-file mode.
func renderSelectedFile(evalPath string) string {
	return "Selected File: " + evalPath + "\n\n---\n\n"
}
