package scan

import (
	"os"
	"path/filepath"
	"strings"
)

// FindGitignore searches startDir and its parents for the nearest .gitignore
// file. It returns the file path and true, or "" and false when none exists.
func FindGitignore(startDir string) (string, bool) {
	current, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(current, ".gitignore")
		if info, statErr := os.Stat(candidate); statErr == nil && info.Mode().IsRegular() {
			return candidate, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LoadGitignorePatterns reads the pattern lines of the nearest .gitignore
// above startDir. A missing file yields no patterns and no error; lines are
// returned raw and interpreted later by CompilePatterns.
func LoadGitignorePatterns(startDir string) ([]string, error) {
	path, found := FindGitignore(startDir)
	if !found {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(content), "\n"), nil
}
