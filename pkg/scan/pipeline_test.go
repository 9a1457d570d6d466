package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcepack/pkg/gitdiff"
)

func TestPipelineScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "print('hi')\n")
	writeFile(t, root, "b.txt", "notes\n")
	writeFile(t, root, "node_modules/x.py", "ignored\n")

	report, err := New(nil).Run(context.Background(), Config{
		Roots:             []string{root},
		IncludeExtensions: []string{"py"},
	})
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, "a.py", report.Files[0].RelPath)
	assert.Contains(t, report.Document, `<file path="a.py" language="python">`)
	assert.NotContains(t, report.Document, "b.txt")
	assert.NotContains(t, report.Document, "node_modules")
}

func TestPipelineDeterminism(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main\n")
	writeFile(t, root, "src/util.go", "package main\n\nvar x = 1\n")
	writeFile(t, root, "README.md", "# readme\n")

	cfg := Config{Roots: []string{root}, WithTree: true}
	first, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := New(nil).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Document, second.Document)
	assert.Equal(t, first.Files, second.Files)
}

func TestPipelineGitignorePrecedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "*.md\n")
	writeFile(t, root, "main.py", "x\n")
	writeFile(t, root, "note.md", "# note\n")

	// The discovered .gitignore excludes markdown.
	report, err := New(nil).Run(context.Background(), Config{
		Roots:        []string{root},
		UseGitignore: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py"}, reportPaths(report))

	// Explicit user patterns come later in the list and win.
	report, err = New(nil).Run(context.Background(), Config{
		Roots:          []string{root},
		UseGitignore:   true,
		IgnorePatterns: []string{"!note.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.py", "note.md"}, reportPaths(report))
}

func TestPipelineIgnoreOverridesIncludedExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "wanted.py", "x\n")
	writeFile(t, root, "ignored.py", "y\n")

	report, err := New(nil).Run(context.Background(), Config{
		Roots:             []string{root},
		IncludeExtensions: []string{".py"},
		IgnorePatterns:    []string{"ignored.py"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"wanted.py"}, reportPaths(report))
}

func TestPipelineInvalidRoot(t *testing.T) {
	_, err := New(nil).Run(context.Background(), Config{
		Roots: []string{filepath.Join(t.TempDir(), "missing")},
	})
	var invalidRoot *InvalidRootError
	require.True(t, errors.As(err, &invalidRoot))
}

func TestPipelineMalformedPattern(t *testing.T) {
	_, err := New(nil).Run(context.Background(), Config{
		Roots:          []string{t.TempDir()},
		IgnorePatterns: []string{"[broken"},
	})
	var patternErr *PatternError
	require.True(t, errors.As(err, &patternErr))
}

func TestPipelineEmptyResult(t *testing.T) {
	report, err := New(nil).Run(context.Background(), Config{Roots: []string{t.TempDir()}})
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Empty(t, report.Document)
}

func TestPipelineSizeSkipReported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.py", strings.Repeat("a", 300))
	writeFile(t, root, "small.py", "ok\n")

	report, err := New(nil).Run(context.Background(), Config{
		Roots:        []string{root},
		MaxFileBytes: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.py"}, reportPaths(report))
	assert.NotContains(t, report.Document, "big.py")
	assert.Contains(t, report.Skipped, Skip{Path: "big.py", Reason: SkipTooLarge})
}

func TestPipelineRoundTrip(t *testing.T) {
	root := t.TempDir()
	content := "def f():\n    return \"quoted\" + 'single'\n"
	writeFile(t, root, "f.py", content)

	report, err := New(nil).Run(context.Background(), Config{Roots: []string{root}})
	require.NoError(t, err)

	opening := `<file path="f.py" language="python">` + "\n"
	start := strings.Index(report.Document, opening)
	require.GreaterOrEqual(t, start, 0)
	rest := report.Document[start+len(opening):]
	end := strings.Index(rest, "</file>")
	require.GreaterOrEqual(t, end, 0)
	assert.Equal(t, content, rest[:end])
}

func TestPipelineOverlappingRootsDeduplicate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "once.py", "x\n")

	report, err := New(nil).Run(context.Background(), Config{Roots: []string{root, root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"once.py"}, reportPaths(report))
	assert.Equal(t, 1, strings.Count(report.Document, "<file "))
}

func TestPipelineTreeHeader(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main\n")

	report, err := New(nil).Run(context.Background(), Config{
		Roots:    []string{root},
		WithTree: true,
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(report.Document, "<tree>\n"))
	assert.Contains(t, report.Document, "└── src/\n    └── main.go\n")
	// Exactly one blank line between the tree and the first block.
	assert.Contains(t, report.Document, "</tree>\n\n<file ")
}

func TestPipelineChangedOnlyModeOutsideGit(t *testing.T) {
	// With no repository every file has an empty diff, so the changed-only
	// modes drop everything instead of failing.
	root := t.TempDir()
	writeFile(t, root, "a.py", "x\n")

	report, err := New(nil).Run(context.Background(), Config{
		Roots:    []string{root},
		DiffMode: gitdiff.ModeChangedWithDiff,
	})
	require.NoError(t, err)
	assert.Empty(t, report.Files)
	assert.Empty(t, report.Document)
}

func TestPipelineVanishedFileBecomesSkip(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "stay.py", "x\n")
	goner := writeFile(t, root, "gone.py", "y\n")

	// Simulate the listing/reading race by removing read permission after
	// the walk would have accepted the file.
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	require.NoError(t, os.Chmod(goner, 0o000))
	t.Cleanup(func() { _ = os.Chmod(goner, 0o644) })

	report, err := New(nil).Run(context.Background(), Config{Roots: []string{root}})
	require.NoError(t, err)
	assert.Equal(t, []string{"stay.py"}, reportPaths(report))
	assert.Contains(t, report.Skipped, Skip{Path: "gone.py", Reason: SkipUnreadable})
}

func reportPaths(report *Report) []string {
	paths := make([]string, 0, len(report.Files))
	for _, f := range report.Files {
		paths = append(paths, f.RelPath)
	}
	return paths
}
