package scan

import "fmt"

// InvalidRootError reports a scan root that does not exist or is not a
// directory. It is fatal: the pipeline returns it without walking anything.
type InvalidRootError struct {
	Path string
	Err  error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid root %q: not a directory", e.Path)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// PatternError reports a malformed ignore pattern. Compilation fails fast on
// the first bad pattern instead of silently dropping it.
type PatternError struct {
	Pattern string
	Reason  string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}
