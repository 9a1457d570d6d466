package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBinaryContent(t *testing.T) {
	assert.False(t, isBinaryContent(nil))
	assert.False(t, isBinaryContent([]byte("package main\n\nfunc main() {}\n")))
	assert.False(t, isBinaryContent([]byte("héllo wörld\n")))

	assert.True(t, isBinaryContent([]byte("abc\x00def")))
	assert.True(t, isBinaryContent([]byte{0xff, 0xfe, 'a', 'b'}))
	assert.True(t, isBinaryContent(bytes.Repeat([]byte{0x01}, 64)))
}

func TestIsBinaryContentTruncatedRune(t *testing.T) {
	// A multibyte rune cut off at the sniff boundary is not binary.
	data := append([]byte("valid text "), 0xc3)
	assert.False(t, isBinaryContent(data))
}

func TestIsBinaryFile(t *testing.T) {
	dir := t.TempDir()

	textPath := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("hello\n"), 0o644))
	binPath := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(binPath, []byte{'P', 'K', 0x00, 0x01}, 0o644))

	binary, err := isBinaryFile(textPath)
	require.NoError(t, err)
	assert.False(t, binary)

	binary, err = isBinaryFile(binPath)
	require.NoError(t, err)
	assert.True(t, binary)

	_, err = isBinaryFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
