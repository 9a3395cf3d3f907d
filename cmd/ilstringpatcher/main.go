package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LasCondes/ilstringpatcher/ilerrors"
	"github.com/LasCondes/ilstringpatcher/pipeline"
)

var (
	inputPath   string
	outputPath  string
	dryRun      bool
	scanOnly    bool
	backup      bool
	verbose     bool
	noColor     bool
	interactive bool
)

var rootCmd = &cobra.Command{
	Use:   "ilstringpatcher",
	Short: "Recover and inline obfuscated string literals in a managed module",
	Long: `ilstringpatcher locates the encrypted-string decoder type in a managed
module, recovers every string it can reach from the decoder's payload, and
rewrites call sites back to plain literal loads.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the input module (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path to write the patched module")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the pipeline and report statistics without writing output")
	rootCmd.Flags().BoolVar(&scanOnly, "scan", false, "run the read-only decoder and accessor diagnostic (no rewrite, no output), then exit")
	rootCmd.Flags().BoolVar(&backup, "backup", true, "copy the input to <input>.backup before writing")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include underlying diagnostics on fatal errors")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored report output")
	rootCmd.Flags().BoolVar(&interactive, "interactive", false, "browse recovered literals in an interactive TUI (requires --verbose)")
	rootCmd.MarkFlagRequired("input")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if noColor {
		color.NoColor = true
	}
	if inputPath == "" {
		return fmt.Errorf("--input is required")
	}
	if outputPath == "" && !dryRun && !scanOnly {
		return fmt.Errorf("--output is required unless --dry-run or --scan is set")
	}

	if verbose {
		logger, _ := zap.NewDevelopment()
		pipeline.SetLogger(logger)
	}

	ctx := context.Background()

	if scanOnly {
		return runScan(ctx)
	}
	return runPatch(ctx)
}

func runScan(ctx context.Context) error {
	report, err := pipeline.Scan(ctx, inputPath)
	if err != nil {
		return exitError(err)
	}
	printScanReport(report)
	return nil
}

func runPatch(ctx context.Context) error {
	report, err := pipeline.Run(ctx, pipeline.Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		DryRun:     dryRun,
		Backup:     backup,
	})
	if err != nil {
		return exitError(err)
	}
	printRunReport(report)

	if interactive && verbose {
		return runInteractive(report)
	}
	return nil
}

// exitError surfaces a fatal pipeline error as a single-line phase/kind
// summary, plus the underlying cause when --verbose is set.
func exitError(err error) error {
	ilErr, ok := err.(*ilerrors.Error)
	if !ok {
		return err
	}
	if verbose {
		return fmt.Errorf("%s", ilErr.Error())
	}
	return fmt.Errorf("[%s] %s", ilErr.Phase, ilErr.Kind)
}

func printRunReport(r pipeline.Report) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Println("ilstringpatcher report")
	if !r.DecoderFound {
		if r.Written {
			yellow.Println("  no decoder type found — module written back unchanged")
		} else {
			yellow.Println("  no decoder type found")
		}
		return
	}

	green.Printf("  decoder type:      %s\n", r.DecoderType)
	green.Printf("  payload length:    %d bytes\n", r.PayloadLength)
	green.Printf("  accessors decoded: %d\n", r.AccessorCount)
	green.Printf("  methods patched:   %d\n", r.MethodsPatched)
	green.Printf("  calls replaced:    %d\n", r.CallsReplaced)

	if r.ResidualCalls > 0 {
		yellow.Printf("  residual calls:    %d (some accessors could not be recovered)\n", r.ResidualCalls)
	}
	if len(r.ErrorsByKind) > 0 {
		yellow.Println("  non-fatal errors:")
		for _, kind := range sortedKinds(r.ErrorsByKind) {
			yellow.Printf("    %-20s %d\n", kind, r.ErrorsByKind[kind])
		}
		if verbose {
			if cause := r.NonFatalCause(); cause != nil {
				yellow.Printf("  details:\n%s\n", cause)
			}
		}
	}
	if r.Written {
		green.Printf("  output written to:  %s\n", outputPath)
	}
	if r.BackupPath != "" {
		green.Printf("  backup written to:  %s\n", r.BackupPath)
	}
}

func printScanReport(r pipeline.ScanReport) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Println("ilstringpatcher scan")
	if !r.DecoderFound {
		yellow.Println("  no decoder type found")
		return
	}

	green.Printf("  decoder type:       %s\n", r.DecoderType)
	green.Printf("  payload length:     %d bytes\n", r.PayloadLength)
	green.Printf("  accessor candidates: %d (predicate pass)\n", r.AccessorCandidates)
	green.Printf("  non-accessor methods: %d (predicate fail)\n", r.NotAccessorMethods)
	green.Printf("  recoverable literals: %d\n", r.RecoveredCount)
	if r.NonFatalErrorCount > 0 {
		yellow.Printf("  candidates that failed decode: %d\n", r.NonFatalErrorCount)
	}
}

func sortedKinds(m map[ilerrors.Kind]int) []ilerrors.Kind {
	kinds := make([]ilerrors.Kind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
