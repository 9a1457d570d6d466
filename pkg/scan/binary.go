package scan

import (
	"bytes"
	"errors"
	"io"
	"os"
	"unicode/utf8"
)

// sniffLength bounds the number of bytes read when deciding whether a file is
// text.
const sniffLength = 512

// nonPrintableThreshold is the fraction of control bytes in the sniff window
// above which content is treated as binary.
const nonPrintableThreshold = 0.3

// isBinaryFile reads the first sniffLength bytes of the file and reports
// whether the content looks binary rather than text.
func isBinaryFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, sniffLength)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return isBinaryContent(buffer[:n]), nil
}

// isBinaryContent applies the binary heuristics to a sniffed prefix: a NUL
// byte, invalid UTF-8, or a high ratio of control characters all mark the
// content as binary. Empty content is text.
func isBinaryContent(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return true
	}

	// The sniff window may cut a multibyte rune in half; drop up to three
	// undecodable trailing bytes before validating.
	trimmed := data
	for i := 0; i < utf8.UTFMax-1 && len(trimmed) > 0; i++ {
		r, size := utf8.DecodeLastRune(trimmed)
		if r != utf8.RuneError || size > 1 {
			break
		}
		trimmed = trimmed[:len(trimmed)-1]
	}
	if !utf8.Valid(trimmed) {
		return true
	}

	nonPrintable := 0
	for _, b := range data {
		if b < 32 && b != '\n' && b != '\r' && b != '\t' && b != '\f' {
			nonPrintable++
		}
	}
	return float64(nonPrintable)/float64(len(data)) > nonPrintableThreshold
}
