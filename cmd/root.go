package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"sourcepack/pkg/clipboard"
	"sourcepack/pkg/gitdiff"
	"sourcepack/pkg/logging"
	"sourcepack/pkg/scan"
	"sourcepack/pkg/tokens"
	"sourcepack/pkg/version"
)

// rootLogger is the logger handed in by main; runRoot swaps it for a
// development logger when --verbose is set.
var rootLogger *zap.Logger

type rootFlags struct {
	outFile       string
	printOutput   bool
	include       string
	excludeExts   string
	exclude       []string
	diffMode      string
	maxFileSizeKB int
	withTree      bool
	forceCopy     bool
	noGitignore   bool
	verbose       bool
}

var flags rootFlags

// RootCmd is the base command: scan the given directories and emit the
// rendered document.
var RootCmd = &cobra.Command{
	Use:   "sourcepack [paths...]",
	Short: "Render source files into a single document for LLM context",
	Long: `sourcepack scans one or more directory trees, selects text and code files
by extension filters and gitignore-style ignore patterns, and renders their
contents into one annotated document.

The document goes to the system clipboard by default; use --out to write a
file or --print to write stdout.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the CLI with the provided logger. The context bounds the scan;
// canceling it aborts the walk between directories.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.ExecuteContext(ctx)
}

func init() {
	RootCmd.Flags().StringVarP(&flags.outFile, "out", "o", "", "Write the document to a file")
	RootCmd.Flags().BoolVarP(&flags.printOutput, "print", "p", false, "Print the document to stdout")
	RootCmd.Flags().StringVarP(&flags.include, "include", "i", "", "Extensions to include (comma-separated, e.g. 'py,js,ts')")
	RootCmd.Flags().StringArrayVarP(&flags.exclude, "exclude", "x", nil, "Gitignore-style pattern to exclude (repeatable)")
	RootCmd.Flags().StringVar(&flags.excludeExts, "exclude-ext", "", "Extensions to exclude even when included (comma-separated)")
	RootCmd.Flags().StringVarP(&flags.diffMode, "diff-mode", "d", string(gitdiff.ModeFull), "How to handle git diffs: full, full-with-diff, changed-with-diff, diff-only")
	RootCmd.Flags().IntVar(&flags.maxFileSizeKB, "max-file-size", 256, "Maximum size of files to include, in KB")
	RootCmd.Flags().BoolVar(&flags.withTree, "tree", false, "Prepend a directory tree of the selected files")
	RootCmd.Flags().BoolVar(&flags.forceCopy, "copy", false, "Copy to the clipboard even when --out or --print is set")
	RootCmd.Flags().BoolVar(&flags.noGitignore, "no-gitignore", false, "Do not merge patterns from the nearest .gitignore")
	RootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
}

func runRoot(cmd *cobra.Command, args []string) error {
	logger := rootLogger
	if logger == nil {
		logger = zap.NewNop()
	}
	if flags.verbose {
		if verboseLogger, err := logging.Setup(true, "sourcepack", version.Get().Version); err == nil {
			logger = verboseLogger
			defer logger.Sync() //nolint:errcheck
		}
	}

	mode, err := gitdiff.ParseMode(flags.diffMode)
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}

	cfg := scan.Config{
		Roots:             roots,
		IncludeExtensions: splitExtensions(flags.include),
		ExcludeExtensions: splitExtensions(flags.excludeExts),
		IgnorePatterns:    flags.exclude,
		UseGitignore:      !flags.noGitignore,
		MaxFileBytes:      int64(flags.maxFileSizeKB) * 1024,
		DiffMode:          mode,
		WithTree:          flags.withTree,
	}

	report, err := scan.New(logger).Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	printSkipSummary(cmd, report.Skipped)

	if len(report.Files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no matching files found")
		return nil
	}

	return emit(cmd, report)
}

// emit routes the document to the configured sinks: file, stdout, clipboard.
// The clipboard is the default sink and is suppressed when another sink is
// chosen, unless --copy insists.
func emit(cmd *cobra.Command, report *scan.Report) error {
	document := report.Document

	printOutput := flags.printOutput
	if flags.outFile == "" && !printOutput && !stdoutIsTerminal() {
		// Piped with no explicit sink: behave like --print so shell
		// pipelines work without touching the clipboard.
		printOutput = true
	}

	if flags.outFile != "" {
		if err := os.WriteFile(flags.outFile, []byte(document), 0o644); err != nil {
			return fmt.Errorf("write output file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "output written to %s\n", flags.outFile)
	}

	if printOutput {
		fmt.Fprint(cmd.OutOrStdout(), document)
	}

	useClipboard := flags.forceCopy || (flags.outFile == "" && !printOutput)
	if useClipboard {
		if err := clipboard.NewService().Copy(document); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "copied %d files to clipboard (%d chars, ~%d tokens)\n",
			len(report.Files), len(document), tokens.Estimate(document))
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "rendered %d files (%d chars, ~%d tokens)\n",
			len(report.Files), len(document), tokens.Estimate(document))
	}
	return nil
}

// printSkipSummary reports skipped files on stderr: a per-reason count, plus
// every path when --verbose is set.
func printSkipSummary(cmd *cobra.Command, skipped []scan.Skip) {
	if len(skipped) == 0 {
		return
	}

	counts := map[scan.SkipReason]int{}
	for _, skip := range skipped {
		counts[skip.Reason]++
	}
	parts := make([]string, 0, len(counts))
	for _, reason := range []scan.SkipReason{scan.SkipTooLarge, scan.SkipBinary, scan.SkipUnreadable} {
		if counts[reason] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[reason], reason))
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "skipped %d files (%s)\n", len(skipped), strings.Join(parts, ", "))

	if flags.verbose {
		for _, skip := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", skip.Reason, skip.Path)
		}
	}
}

// splitExtensions parses the comma-separated --include value.
func splitExtensions(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	exts := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			exts = append(exts, part)
		}
	}
	return exts
}

// stdoutIsTerminal reports whether stdout is attached to a terminal. Piped
// output with no explicit sink behaves like --print so shell pipelines work.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
