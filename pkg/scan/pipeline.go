package scan

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"sourcepack/pkg/gitdiff"
	"sourcepack/pkg/language"
	"sourcepack/pkg/render"
)

// defaultIgnorePatterns are always active, ahead of gitignore and user
// patterns so later entries can re-include anything here with "!".
var defaultIgnorePatterns = []string{
	".git/",
	".hg/",
	".svn/",
	"node_modules/",
	"__pycache__/",
	".venv/",
	"venv/",
	"dist/",
	"build/",
	"target/",
	"vendor/",
	".idea/",
	".vscode/",
	".DS_Store",
	"*.pyc",
	"*.min.js",
	"*.min.css",
	"*.map",
	"*.lock",
	"package-lock.json",
	".env",
	".env.*",
}

// Config carries one run's settings. It is an explicit value rather than
// process-wide state so the engine is testable without environment setup.
type Config struct {
	// Roots are the directories to scan, in order.
	Roots []string
	// IncludeExtensions is the extension allow-list; empty means the
	// built-in defaults.
	IncludeExtensions []string
	// ExcludeExtensions always wins over IncludeExtensions.
	ExcludeExtensions []string
	// IgnorePatterns are gitignore-style patterns appended after the
	// defaults and any discovered .gitignore, so they take precedence.
	IgnorePatterns []string
	// UseGitignore merges the nearest .gitignore above each root into the
	// pattern list.
	UseGitignore bool
	// MaxFileBytes skips larger files; <= 0 disables the limit.
	MaxFileBytes int64
	// DiffMode selects git diff decoration; empty means full content.
	DiffMode gitdiff.Mode
	// WithTree prepends a directory tree header to the document.
	WithTree bool
}

// Report is the outcome of one pipeline run.
type Report struct {
	// Document is the assembled output, "" when nothing matched.
	Document string
	// Files lists the rendered files in document order.
	Files []CandidateFile
	// Skipped lists per-file problems in traversal order.
	Skipped []Skip
}

// Pipeline orchestrates walking, filtering, reading, tagging, and rendering.
type Pipeline struct {
	logger *zap.Logger
}

// New builds a pipeline. A nil logger is replaced with a no-op one.
func New(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger}
}

// Run scans every configured root and assembles the final document. Fatal
// errors (invalid root, malformed pattern, cancellation) are returned
// immediately; per-file problems end up in the report's Skipped list. Rule
// sets are compiled once per root before any walking starts.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Report, error) {
	roots := cfg.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}

	extensions := NewExtensionFilter(cfg.IncludeExtensions, cfg.ExcludeExtensions)

	report := &Report{}
	var blocks []render.Block
	var headers []string
	seen := map[string]struct{}{}

	for _, root := range roots {
		matcher, err := p.compileRules(root, cfg)
		if err != nil {
			return nil, err
		}

		walker := NewWalker(matcher, extensions, cfg.MaxFileBytes, p.logger)
		result, err := walker.Walk(ctx, root)
		if err != nil {
			return nil, err
		}
		report.Skipped = append(report.Skipped, result.Skipped...)

		differ := gitdiff.NewDiffer(result.Root, p.logger)
		var rendered []string
		for _, file := range result.Files {
			// Overlapping roots render each file once, first root wins.
			if _, dup := seen[file.AbsPath]; dup {
				continue
			}
			seen[file.AbsPath] = struct{}{}

			content, err := os.ReadFile(file.AbsPath)
			if err != nil {
				// Vanished or lost permission between listing and reading.
				p.logger.Warn("cannot read selected file", zap.String("path", file.RelPath), zap.Error(err))
				report.Skipped = append(report.Skipped, Skip{Path: file.RelPath, Reason: SkipUnreadable})
				continue
			}

			text, keep := differ.Decorate(cfg.DiffMode, file.AbsPath, string(content))
			if !keep {
				continue
			}

			blocks = append(blocks, render.NewBlock(file.RelPath, language.Tag(file.RelPath), text))
			report.Files = append(report.Files, file)
			rendered = append(rendered, file.RelPath)
		}

		if cfg.WithTree && len(rendered) > 0 {
			headers = append(headers, render.Tree(filepath.Base(result.Root), rendered))
		}
	}

	report.Document = render.AssembleWithHeader(joinHeaders(headers), blocks)
	p.logger.Debug("pipeline finished",
		zap.Int("files", len(report.Files)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("documentBytes", len(report.Document)))
	return report, nil
}

// compileRules builds the full pattern list for one root: built-in defaults,
// then the nearest .gitignore, then explicit user patterns. Later entries win
// under last-match semantics.
func (p *Pipeline) compileRules(root string, cfg Config) (*Matcher, error) {
	patterns := make([]string, 0, len(defaultIgnorePatterns)+len(cfg.IgnorePatterns))
	patterns = append(patterns, defaultIgnorePatterns...)

	if cfg.UseGitignore {
		lines, err := LoadGitignorePatterns(root)
		if err != nil {
			p.logger.Warn("cannot read .gitignore", zap.String("root", root), zap.Error(err))
		}
		patterns = append(patterns, lines...)
	}

	patterns = append(patterns, cfg.IgnorePatterns...)

	matcher, err := CompilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("compiled ignore rules", zap.String("root", root), zap.Int("patterns", matcher.Len()))
	return matcher, nil
}

func joinHeaders(headers []string) string {
	switch len(headers) {
	case 0:
		return ""
	case 1:
		return headers[0]
	}
	joined := headers[0]
	for _, h := range headers[1:] {
		joined += "\n\n" + h
	}
	return joined
}
