package scan

import (
	"path"
	"path/filepath"
	"strings"
)

// defaultIncludeExtensions is the built-in allow-list applied when the caller
// supplies no include list. It covers the common source, config, and
// documentation formats worth pasting into a model conversation.
var defaultIncludeExtensions = []string{
	".c", ".cc", ".cfg", ".clj", ".conf", ".cpp", ".cs", ".css", ".d.ts",
	".dart", ".dockerfile", ".erl", ".ex", ".exs", ".go", ".graphql",
	".groovy", ".h", ".hcl", ".hpp", ".hs", ".html", ".ini", ".java", ".js",
	".json", ".jsx", ".kt", ".less", ".lua", ".md", ".ml", ".php", ".pl",
	".proto", ".py", ".r", ".rb", ".rs", ".rst", ".sass", ".scala", ".scss",
	".sh", ".sql", ".svelte", ".swift", ".tf", ".toml", ".ts", ".tsx", ".txt",
	".vue", ".xml", ".yaml", ".yml", ".zig", ".zsh",
}

// compoundSuffixes are multi-part extensions recognized before the plain
// filepath extension, so "bundle.d.ts" filters as ".d.ts" rather than ".ts".
var compoundSuffixes = []string{
	".d.ts", ".tar.bz2", ".tar.gz", ".tar.xz",
}

// ExtensionFilter is the simple allow/deny predicate over file extensions.
// The deny list always wins over the allow list.
type ExtensionFilter struct {
	include map[string]struct{}
	exclude map[string]struct{}
}

// NewExtensionFilter builds a filter from include and exclude extension
// lists. Entries are case-insensitive and accepted as "py", ".py", or
// "*.py". An empty include list falls back to the built-in defaults.
func NewExtensionFilter(include, exclude []string) *ExtensionFilter {
	if len(include) == 0 {
		include = defaultIncludeExtensions
	}
	return &ExtensionFilter{
		include: extensionSet(include),
		exclude: extensionSet(exclude),
	}
}

// Allows reports whether the file at relPath passes the extension filter.
// Files without an extension are not selected.
func (f *ExtensionFilter) Allows(relPath string) bool {
	ext := FileExtension(relPath)
	if ext == "" {
		return false
	}
	if _, denied := f.exclude[ext]; denied {
		return false
	}
	_, ok := f.include[ext]
	return ok
}

// FileExtension returns the lower-cased extension of relPath, preferring
// compound suffixes like ".tar.gz" over the final component alone. Returns
// "" for extensionless names.
func FileExtension(relPath string) string {
	base := strings.ToLower(path.Base(filepath.ToSlash(relPath)))
	for _, suffix := range compoundSuffixes {
		if strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			return suffix
		}
	}
	ext := path.Ext(base)
	if ext == base {
		// Dotfiles like ".gitignore" have no extension of their own.
		return ""
	}
	return ext
}

// extensionSet normalizes a list of extension spellings into a lookup set.
func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		ext = strings.TrimPrefix(ext, "*")
		ext = strings.TrimLeft(ext, ".")
		ext = strings.ToLower(ext)
		if ext == "" {
			continue
		}
		set["."+ext] = struct{}{}
	}
	return set
}
