package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/PeterSK-bit/dups-scanner/pkg/config"
	"github.com/PeterSK-bit/dups-scanner/pkg/engine"
	"github.com/PeterSK-bit/dups-scanner/pkg/fingerprint"
	"github.com/PeterSK-bit/dups-scanner/pkg/logging"
	"github.com/PeterSK-bit/dups-scanner/pkg/models"
	"github.com/PeterSK-bit/dups-scanner/pkg/output"
	"github.com/PeterSK-bit/dups-scanner/pkg/ratelimit"
	"github.com/PeterSK-bit/dups-scanner/pkg/resolve"
	"github.com/PeterSK-bit/dups-scanner/pkg/scanner"
)

// ScanFlags holds scan command flags
type ScanFlags struct {
	Source       string
	Target       string
	Algorithm    string
	Mode         string
	Delete       bool
	DryRun       bool
	Recursive    bool
	Workers      int
	ReadLimit    string
	Exclude      []string
	Output       string
	Report       string
	ReportFormat string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var scanFlags ScanFlags

// NewScanCommand creates the scan command
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find files in target that duplicate files in source",
		Long: `Scan two directory trees and report every file in the target tree whose
content is identical to a file in the source tree. Matching is directional:
only source-to-target pairs are reported. With --delete the target-side
duplicates are removed automatically; in an interactive session without
--delete each removal is confirmed on the terminal.

Exit codes:
  0  scan completed (unreadable files are skipped and reported, not fatal)
  2  source or target path does not exist
  3  unexpected error while scanning or fingerprinting
  4  catalog population or duplicate lookup failed`,
		RunE: runScan,
	}

	// Required flags
	cmd.Flags().StringVarP(&scanFlags.Source, "source", "s", "", "source directory path (required)")
	cmd.Flags().StringVarP(&scanFlags.Target, "target", "t", "", "target directory path (required)")
	cmd.MarkFlagRequired("source")
	cmd.MarkFlagRequired("target")

	// Optional flags
	cmd.Flags().StringVarP(&scanFlags.Algorithm, "hashing_algo", "a", "md5", "fingerprint algorithm: md5, sha1, sha256")
	cmd.Flags().StringVarP(&scanFlags.Mode, "hashing_mode", "m", "quick", "fingerprint mode: quick (first chunk only), full")
	cmd.Flags().BoolVarP(&scanFlags.Delete, "delete", "d", false, "delete target-side duplicates without asking")
	cmd.Flags().BoolVar(&scanFlags.DryRun, "dry-run", false, "report what would be deleted without deleting")
	cmd.Flags().BoolVar(&scanFlags.Recursive, "recursive", true, "descend into subdirectories")
	cmd.Flags().IntVarP(&scanFlags.Workers, "workers", "w", 0, "number of parallel fingerprint workers (default: 5)")
	cmd.Flags().StringVar(&scanFlags.ReadLimit, "read-limit", "", "disk read rate limit per second (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringSliceVar(&scanFlags.Exclude, "exclude", []string{}, "glob patterns to exclude")
	cmd.Flags().StringVarP(&scanFlags.Output, "output", "o", "human", "output format: human, json")
	cmd.Flags().StringVar(&scanFlags.Report, "report", "", "write run report to file")
	cmd.Flags().StringVar(&scanFlags.ReportFormat, "report-format", "json", "run report format: human, json")

	// Logging flags
	cmd.Flags().StringVar(&scanFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&scanFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&scanFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Validate flags
	if err := validateScanFlags(); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cfg); err != nil {
		return err
	}

	// Create logger
	logger, err := createLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	// Create scan operation
	operation, err := createScanOperation(cfg)
	if err != nil {
		return fmt.Errorf("failed to create scan operation: %w", err)
	}

	// Create fingerprinter; an unknown algorithm is downgraded to md5
	// with a warning rather than rejected
	fp := fingerprint.New(operation.Algorithm, operation.ChunkSize, logger)
	if operation.ReadLimit > 0 {
		limiter := ratelimit.NewLimiter(operation.ReadLimit)
		fp.SetReaderWrapper(func(r io.Reader) io.Reader {
			return ratelimit.NewReader(r, limiter)
		})
	}

	// Choose how target-side duplicates are resolved
	decider := chooseDecider(operation, cfg)

	var remover resolve.Remover
	if operation.DryRun {
		remover = resolve.NewNopRemover()
	} else {
		remover = resolve.NewOSRemover()
	}

	// Create output formatter. Interactive prompting and a live
	// progress bar don't mix, so prompting forces the plain formatter.
	var formatter output.Formatter
	switch {
	case cfg.Output.Format == "json":
		formatter = output.NewJSONFormatter()
	case cfg.Output.Progress && decider.Name() != "prompt":
		formatter = output.NewProgressFormatter()
	default:
		formatter = output.NewHumanFormatter()
	}

	// Create scan engine
	eng := engine.New(scanner.New(operation.ExcludePatterns), fp, decider, remover, formatter, logger, operation)
	if cfg.Output.Quiet {
		eng.SetOutput(io.Discard)
	}

	// Run the scan. The report is produced even when the run fails so
	// its status can drive the exit code.
	report, runErr := eng.Run(ctx)

	if scanFlags.Report != "" && report != nil {
		if err := output.WriteReport(report, scanFlags.Report, scanFlags.ReportFormat); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}

	os.Exit(report.Status.ExitCode())
	return nil
}

// chooseDecider picks the removal policy for the run. --delete removes
// without asking; otherwise an interactive session is prompted per pair
// and a non-interactive one keeps everything.
func chooseDecider(operation *models.ScanOperation, cfg *config.Config) resolve.Decider {
	if operation.AutoDelete || operation.DryRun {
		return resolve.NewAutoDecider()
	}
	if cfg.Output.Quiet {
		return resolve.NewKeepDecider()
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return resolve.NewPromptDecider(os.Stdin, os.Stderr)
	}
	return resolve.NewKeepDecider()
}

// createLogger creates a logger based on configuration
func createLogger(cfg *config.Config) (logging.Logger, error) {
	if cfg.Logging.File != "" {
		var format logging.Format
		switch cfg.Logging.Format {
		case "json":
			format = logging.FormatJSON
		default:
			format = logging.FormatText
		}

		return logging.NewFileLogger(logging.FileLoggerConfig{
			Path:       cfg.Logging.File,
			Format:     format,
			Level:      logging.ParseLevel(cfg.Logging.Level),
			MaxSize:    10 * 1024 * 1024, // 10 MB
			MaxBackups: 5,
		})
	}

	if globalFlags.Verbose {
		return logging.NewConsoleLogger(os.Stderr, logging.DebugLevel), nil
	}

	return logging.NewNullLogger(), nil
}
