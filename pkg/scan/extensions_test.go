package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtensionFilterDefaults(t *testing.T) {
	filter := NewExtensionFilter(nil, nil)

	assert.True(t, filter.Allows("main.py"))
	assert.True(t, filter.Allows("src/app.ts"))
	assert.True(t, filter.Allows("README.md"))
	assert.False(t, filter.Allows("prog.exe"))
	assert.False(t, filter.Allows("image.png"))
}

func TestExtensionFilterSpellings(t *testing.T) {
	filter := NewExtensionFilter([]string{"py", ".js", "*.ts"}, nil)

	assert.True(t, filter.Allows("a.py"))
	assert.True(t, filter.Allows("b.js"))
	assert.True(t, filter.Allows("c.ts"))
	assert.False(t, filter.Allows("d.go"))
}

func TestExtensionFilterDenyOverridesAllow(t *testing.T) {
	filter := NewExtensionFilter([]string{".py"}, []string{".py"})
	assert.False(t, filter.Allows("x.py"))
}

func TestExtensionFilterCaseInsensitive(t *testing.T) {
	filter := NewExtensionFilter([]string{"py"}, nil)
	assert.True(t, filter.Allows("MAIN.PY"))
}

func TestExtensionFilterExtensionlessFiles(t *testing.T) {
	filter := NewExtensionFilter(nil, nil)
	assert.False(t, filter.Allows("Makefile"))
	assert.False(t, filter.Allows(".gitignore"))
}

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".py", FileExtension("a.py"))
	assert.Equal(t, ".py", FileExtension("dir/A.PY"))
	assert.Equal(t, ".tar.gz", FileExtension("bundle.tar.gz"))
	assert.Equal(t, ".d.ts", FileExtension("types.d.ts"))
	assert.Equal(t, "", FileExtension("Makefile"))
	assert.Equal(t, "", FileExtension(".gitignore"))
}

func TestExtensionFilterCompoundDefaults(t *testing.T) {
	filter := NewExtensionFilter(nil, nil)
	assert.True(t, filter.Allows("types.d.ts"))
	assert.False(t, filter.Allows("bundle.tar.gz"))
}
