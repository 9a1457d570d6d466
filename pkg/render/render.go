// Package render formats selected files into annotated content blocks and
// assembles them into the final document.
package render

import "strings"

// Block is the annotated representation of one file: its root-relative path,
// the language label, and the raw content.
type Block struct {
	Path     string
	Language string
	Content  string
}

// NewBlock builds a block for one file.
func NewBlock(path, language, content string) Block {
	return Block{Path: path, Language: language, Content: content}
}

// String renders the block: an opening marker carrying the path and language,
// the content verbatim, and a closing marker. Only the path attribute is
// escaped; the content is never touched beyond guaranteeing that the closing
// marker starts on its own line.
func (b Block) String() string {
	var sb strings.Builder
	sb.Grow(len(b.Content) + len(b.Path) + len(b.Language) + 64)
	sb.WriteString(`<file path="`)
	sb.WriteString(escapeAttr(b.Path))
	sb.WriteString(`" language="`)
	sb.WriteString(escapeAttr(b.Language))
	sb.WriteString("\">\n")
	sb.WriteString(b.Content)
	if b.Content != "" && !strings.HasSuffix(b.Content, "\n") {
		sb.WriteByte('\n')
	}
	sb.WriteString("</file>")
	return sb.String()
}

// Assemble concatenates blocks in order, separated by exactly one blank line,
// ending in a single newline. No blocks yield an empty document.
func Assemble(blocks []Block) string {
	if len(blocks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(blocks))
	for _, block := range blocks {
		parts = append(parts, block.String())
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// AssembleWithHeader prepends a header section (such as the directory tree)
// to the assembled document, separated from the first block by one blank
// line. An empty header degrades to Assemble.
func AssembleWithHeader(header string, blocks []Block) string {
	body := Assemble(blocks)
	if header == "" {
		return body
	}
	header = strings.TrimRight(header, "\n")
	if body == "" {
		return header + "\n"
	}
	return header + "\n\n" + body
}

// escapeAttr escapes a marker attribute value for embedded quote characters.
func escapeAttr(value string) string {
	value = strings.ReplaceAll(value, "&", "&amp;")
	value = strings.ReplaceAll(value, `"`, "&quot;")
	return value
}
