package combine

import "testing"

func TestRenderTree(t *testing.T) {
	t.Parallel()

	tree := BuildTree([]string{"src/main.go", "README.md", "src/util/str.go", "src/app.go"})
	want := "" +
		"├── README.md\n" +
		"└── src\n" +
		"    ├── app.go\n" +
		"    ├── main.go\n" +
		"    └── util\n" +
		"        └── str.go\n"
	if got := tree.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTreeContinuationIndent(t *testing.T) {
	t.Parallel()

	tree := BuildTree([]string{"a/x.go", "b.go"})
	want := "" +
		"├── a\n" +
		"│   └── x.go\n" +
		"└── b.go\n"
	if got := tree.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderTreeIsOrderIndependent(t *testing.T) {
	t.Parallel()

	a := BuildTree([]string{"z.go", "m/n.go", "a.go"}).Render()
	b := BuildTree([]string{"a.go", "z.go", "m/n.go"}).Render()
	if a != b {
		t.Errorf("render depends on insertion order:\n%s\nvs\n%s", a, b)
	}
}

func TestRenderTreeCollation(t *testing.T) {
	t.Parallel()

	got := BuildTree([]string{"Zeta.md", "beta.md", "alpha.md"}).Render()
	want := "" +
		"├── alpha.md\n" +
		"├── beta.md\n" +
		"└── Zeta.md\n"
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestInsertDropsEmptySegmentsAndSharesDirectories(t *testing.T) {
	t.Parallel()

	tree := NewTree()
	tree.Insert("src//a.go")
	tree.Insert("/src/b.go")
	tree.Insert("")

	if len(tree.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(tree.Children))
	}
	src := tree.Children["src"]
	if src == nil || src.Kind != KindDirectory {
		t.Fatalf("src = %+v, want directory", src)
	}
	if len(src.Children) != 2 {
		t.Errorf("src has %d children, want 2", len(src.Children))
	}
	if src.Children["a.go"].Kind != KindFile {
		t.Error("a.go should be a file node")
	}
}

func TestRenderStructureHeader(t *testing.T) {
	t.Parallel()

	got := renderStructure(".", []string{"a.go"})
	want := "Project Structure: .\n└── a.go\n\n---\n\n"
	if got != want {
		t.Errorf("renderStructure() = %q, want %q", got, want)
	}

	if got := renderSelectedFile("src/util.ts"); got != "Selected File: src/util.ts\n\n---\n\n" {
		t.Errorf("renderSelectedFile() = %q", got)
	}
}
