// Package gitdiff decorates selected file contents with git diff output.
// Diffs are advisory: any git failure (no repository, untracked file, git not
// installed) degrades to "no diff" and never aborts a scan.
package gitdiff

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Mode selects how diffs are combined with file contents.
type Mode string

const (
	// ModeFull renders every file as-is.
	ModeFull Mode = "full"
	// ModeFullWithDiff renders every file, appending the diff when the file
	// has uncommitted changes.
	ModeFullWithDiff Mode = "full-with-diff"
	// ModeChangedWithDiff renders only files with uncommitted changes,
	// appending their diff.
	ModeChangedWithDiff Mode = "changed-with-diff"
	// ModeDiffOnly renders just the diff text of changed files.
	ModeDiffOnly Mode = "diff-only"
)

// diffHeader separates file content from its appended diff.
const diffHeader = "\n\n# Git Diff:\n"

// ParseMode validates a mode string. The empty string means ModeFull.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeFullWithDiff, ModeChangedWithDiff, ModeDiffOnly:
		return Mode(value), nil
	}
	return "", fmt.Errorf("unknown diff mode %q (want %s, %s, %s, or %s)",
		value, ModeFull, ModeFullWithDiff, ModeChangedWithDiff, ModeDiffOnly)
}

// Differ computes per-file diffs relative to one scan root.
type Differ struct {
	root   string
	logger *zap.Logger

	// runGit is swappable for tests.
	runGit func(dir string, args ...string) (string, int, error)
}

// NewDiffer builds a differ for files under root. A nil logger is replaced
// with a no-op one.
func NewDiffer(root string, logger *zap.Logger) *Differ {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Differ{root: root, logger: logger, runGit: runGitCommand}
}

// Decorate applies mode to one file's content. The boolean result reports
// whether the file should still be rendered; in the changed-only modes an
// unchanged file is dropped.
func (d *Differ) Decorate(mode Mode, absPath, content string) (string, bool) {
	if mode == ModeFull || mode == "" {
		return content, true
	}

	diff := d.diff(absPath)
	switch mode {
	case ModeFullWithDiff:
		if diff == "" {
			return content, true
		}
		return content + diffHeader + diff, true
	case ModeChangedWithDiff:
		if diff == "" {
			return "", false
		}
		return content + diffHeader + diff, true
	case ModeDiffOnly:
		if diff == "" {
			return "", false
		}
		return diff, true
	}
	return content, true
}

// diff returns the uncommitted diff for one tracked file, or "" when the file
// is untracked, unchanged, or git is unavailable.
func (d *Differ) diff(absPath string) string {
	// Untracked files have no diff.
	if _, code, err := d.runGit(d.root, "ls-files", "--error-unmatch", absPath); err != nil || code != 0 {
		return ""
	}
	out, code, err := d.runGit(d.root, "diff", "--exit-code", absPath)
	if err != nil {
		d.logger.Debug("git diff failed", zap.String("path", absPath), zap.Error(err))
		return ""
	}
	// Exit code 1 means the file differs from the index.
	if code != 1 {
		return ""
	}
	return out
}

func runGitCommand(dir string, args ...string) (string, int, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil
	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), exitErr.ExitCode(), nil
		}
		return "", -1, err
	}
	return stdout.String(), 0, nil
}
