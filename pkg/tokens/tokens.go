// Package tokens estimates how many model tokens a document costs, for the
// copy summary shown after a scan.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the OpenAI encoding used for estimates.
const encodingName = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// Estimate returns the approximate token count of text. It uses the
// cl100k_base encoding when available and falls back to a character
// heuristic when the encoding cannot be loaded (for example, offline on
// first use).
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(encodingName)
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return Approximate(text)
	}
	return len(encoding.Encode(text, nil, nil))
}

// Approximate is the fallback estimate: roughly one token per four bytes,
// never zero for non-empty input.
func Approximate(text string) int {
	if text == "" {
		return 0
	}
	estimate := len(text) / 4
	if estimate == 0 {
		return 1
	}
	return estimate
}
