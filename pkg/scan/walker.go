package scan

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// Walker enumerates candidate files under a root, consulting the pattern
// matcher and the per-file limits. Traversal is depth-first with directory
// entries in name order, so the resulting file list is identical across runs
// and platforms.
type Walker struct {
	matcher      *Matcher
	extensions   *ExtensionFilter
	maxFileBytes int64
	logger       *zap.Logger
}

// NewWalker builds a walker. maxFileBytes <= 0 disables the size limit; a nil
// logger is replaced with a no-op one.
func NewWalker(matcher *Matcher, extensions *ExtensionFilter, maxFileBytes int64, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		matcher:      matcher,
		extensions:   extensions,
		maxFileBytes: maxFileBytes,
		logger:       logger,
	}
}

// Walk traverses root and returns the ordered scan result. Ignored
// directories are pruned without being opened. Per-file problems (too large,
// binary, unreadable) are recorded as skips and never abort the walk; the
// only errors returned are an invalid root and context cancellation.
func (w *Walker) Walk(ctx context.Context, root string) (*ScanResult, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &InvalidRootError{Path: root, Err: err}
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &InvalidRootError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidRootError{Path: root}
	}

	result := &ScanResult{Root: absRoot}
	if err := w.walkDir(ctx, absRoot, "", result); err != nil {
		return nil, err
	}
	w.logger.Debug("walk finished",
		zap.String("root", absRoot),
		zap.Int("files", len(result.Files)),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// walkDir processes one directory level. rel is the slash-separated path of
// dir relative to the root, "" for the root itself.
func (w *Walker) walkDir(ctx context.Context, dir, rel string, result *ScanResult) error {
	// Cancellation is honored between directories, never mid-file.
	if err := ctx.Err(); err != nil {
		return err
	}

	// os.ReadDir returns entries sorted by filename, which is what pins the
	// traversal order down.
	entries, err := os.ReadDir(dir)
	if err != nil {
		skipPath := rel
		if skipPath == "" {
			skipPath = filepath.Base(dir)
		}
		w.logger.Warn("cannot read directory", zap.String("dir", dir), zap.Error(err))
		result.Skipped = append(result.Skipped, Skip{Path: skipPath, Reason: SkipUnreadable})
		return nil
	}

	for _, entry := range entries {
		entryRel := joinRel(rel, entry.Name())
		entryAbs := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if w.matcher.Excluded(entryRel, true) {
				w.logger.Debug("pruned directory", zap.String("dir", entryRel))
				continue
			}
			if err := w.walkDir(ctx, entryAbs, entryRel, result); err != nil {
				return err
			}
			continue
		}

		info, ok := w.resolveEntry(entry, entryAbs, entryRel, result)
		if !ok {
			continue
		}
		w.visitFile(entryAbs, entryRel, info, result)
	}
	return nil
}

// resolveEntry turns a directory entry into file info, following symlinks to
// regular files but never into directories. The boolean result is false when
// the entry is not a candidate.
func (w *Walker) resolveEntry(entry fs.DirEntry, abs, rel string, result *ScanResult) (fs.FileInfo, bool) {
	if entry.Type()&fs.ModeSymlink != 0 {
		target, err := os.Stat(abs)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: SkipUnreadable})
			return nil, false
		}
		if target.IsDir() {
			// Following symlinked directories risks cycles; treat them as
			// opaque.
			w.logger.Debug("ignoring symlinked directory", zap.String("path", rel))
			return nil, false
		}
		return target, true
	}
	if !entry.Type().IsRegular() {
		return nil, false
	}
	info, err := entry.Info()
	if err != nil {
		result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: SkipUnreadable})
		return nil, false
	}
	return info, true
}

// visitFile applies the per-file filters in precedence order: ignore rules
// first (an ignored file stays out even when its extension is explicitly
// included), then the extension filter, then size and binary checks.
func (w *Walker) visitFile(abs, rel string, info fs.FileInfo, result *ScanResult) {
	if w.matcher.Excluded(rel, false) {
		return
	}
	if !w.extensions.Allows(rel) {
		return
	}
	if w.maxFileBytes > 0 && info.Size() > w.maxFileBytes {
		w.logger.Debug("file over size limit", zap.String("path", rel), zap.Int64("size", info.Size()))
		result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: SkipTooLarge})
		return
	}
	binary, err := isBinaryFile(abs)
	if err != nil {
		result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: SkipUnreadable})
		return
	}
	if binary {
		result.Skipped = append(result.Skipped, Skip{Path: rel, Reason: SkipBinary})
		return
	}

	result.Files = append(result.Files, CandidateFile{
		RelPath:   rel,
		AbsPath:   abs,
		Size:      info.Size(),
		Extension: FileExtension(rel),
	})
}

// joinRel joins slash-separated relative path components.
func joinRel(rel, name string) string {
	if rel == "" {
		return name
	}
	return path.Join(rel, name)
}
