// Package language maps file extensions to display labels used in rendered
// output annotations. The mapping is a static table with an explicit
// fallback, so behavior for unknown extensions is a documented contract
// rather than emergent.
package language

import (
	"path"
	"strings"
)

// FallbackLabel is returned for extensions the table does not know.
const FallbackLabel = "text"

// labels is the extension → label table. Keys are lower-case and include the
// leading dot; compound extensions are matched before single ones.
var labels = map[string]string{
	".bash":       "bash",
	".c":          "c",
	".cc":         "cpp",
	".cfg":        "ini",
	".clj":        "clojure",
	".conf":       "ini",
	".cpp":        "cpp",
	".cs":         "csharp",
	".css":        "css",
	".csv":        "csv",
	".d.ts":       "typescript",
	".dart":       "dart",
	".dockerfile": "dockerfile",
	".erl":        "erlang",
	".ex":         "elixir",
	".exs":        "elixir",
	".fish":       "fish",
	".go":         "go",
	".graphql":    "graphql",
	".groovy":     "groovy",
	".h":          "c",
	".hcl":        "hcl",
	".hpp":        "cpp",
	".hs":         "haskell",
	".htm":        "html",
	".html":       "html",
	".ini":        "ini",
	".java":       "java",
	".js":         "javascript",
	".json":       "json",
	".jsx":        "jsx",
	".kt":         "kotlin",
	".kts":        "kotlin",
	".less":       "less",
	".lua":        "lua",
	".markdown":   "markdown",
	".md":         "markdown",
	".ml":         "ocaml",
	".php":        "php",
	".pl":         "perl",
	".proto":      "protobuf",
	".py":         "python",
	".r":          "r",
	".rb":         "ruby",
	".rs":         "rust",
	".rst":        "rst",
	".sass":       "sass",
	".scala":      "scala",
	".scss":       "scss",
	".sh":         "bash",
	".sql":        "sql",
	".svelte":     "svelte",
	".swift":      "swift",
	".tf":         "terraform",
	".toml":       "toml",
	".ts":         "typescript",
	".tsx":        "tsx",
	".txt":        "text",
	".vue":        "vue",
	".xml":        "xml",
	".yaml":       "yaml",
	".yml":        "yaml",
	".zig":        "zig",
	".zsh":        "zsh",
}

// filenames labels well-known extensionless files by their base name.
var filenames = map[string]string{
	"dockerfile": "dockerfile",
	"makefile":   "makefile",
}

// Tag returns the display label for the file at relPath. It is total: every
// input yields a label, unknown extensions yield FallbackLabel.
func Tag(relPath string) string {
	base := strings.ToLower(path.Base(strings.ReplaceAll(relPath, "\\", "/")))
	if label, ok := filenames[base]; ok {
		return label
	}
	// Prefer the longest matching dotted suffix so ".d.ts" beats ".ts".
	for idx := strings.IndexByte(base, '.'); idx >= 0 && idx < len(base)-1; idx = nextDot(base, idx) {
		if label, ok := labels[base[idx:]]; ok {
			return label
		}
	}
	return FallbackLabel
}

// TagExtension returns the label for one extension spelled with its leading
// dot, e.g. ".py".
func TagExtension(ext string) string {
	if label, ok := labels[strings.ToLower(ext)]; ok {
		return label
	}
	return FallbackLabel
}

func nextDot(s string, after int) int {
	idx := strings.IndexByte(s[after+1:], '.')
	if idx < 0 {
		return -1
	}
	return after + 1 + idx
}
