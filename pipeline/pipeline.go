package pipeline

import (
	"context"
	"os"

	"go.uber.org/multierr"

	"github.com/LasCondes/ilstringpatcher/decoder"
	"github.com/LasCondes/ilstringpatcher/ilerrors"
	"github.com/LasCondes/ilstringpatcher/metadata"
	"github.com/LasCondes/ilstringpatcher/rewrite"
)

// Options configures one pipeline run.
type Options struct {
	InputPath  string
	OutputPath string
	DryRun     bool
	Backup     bool
}

// Report summarizes one completed run: the rewrite counters,
// the recovered-accessor tallies, and the non-fatal errors encountered
// along the way, bucketed by kind for the CLI's summary table.
type Report struct {
	DecoderFound   bool
	DecoderType    string
	PayloadLength  int
	AccessorCount  int
	MethodsPatched int
	CallsReplaced  int
	ResidualCalls  int
	NonFatalErrors []*ilerrors.Error
	ErrorsByKind   map[ilerrors.Kind]int
	Literals       decoder.AccessorMap
	BackupPath     string
	Written        bool
}

// Run executes the seven components in order and returns a Report. Only
// input-not-found, load-failed, extraction-failed, and write-failed are
// fatal; everything else — no-decoder-found, per-accessor
// pattern/bounds/UTF-8 failures, malformed lookup-table records, residual
// decoder calls — is folded into the Report.
func Run(ctx context.Context, opts Options) (Report, error) {
	report := Report{ErrorsByKind: map[ilerrors.Kind]int{}}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	module, err := loadModule(opts.InputPath)
	if err != nil {
		return report, err
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	binding, ok := decoder.Locate(module)
	if !ok {
		Logger().Sugar().Infow("no decoder type found", "input", opts.InputPath)
		if !opts.DryRun {
			if err := writeModule(module, opts, &report); err != nil {
				return report, err
			}
		}
		return report, nil
	}
	report.DecoderFound = true
	report.DecoderType = binding.Type.FullName

	if err := ctx.Err(); err != nil {
		return report, err
	}

	payload, err := decoder.ExtractPayload(binding)
	if err != nil {
		return report, err
	}
	decoder.Decrypt(payload)
	binding.Payload = payload
	report.PayloadLength = len(payload)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	analysis := decoder.Analyze(binding)
	report.AccessorCount = len(analysis.Map)
	report.Literals = analysis.Map
	tallyNonFatal(&report, analysis.Errors)

	if err := ctx.Err(); err != nil {
		return report, err
	}

	rewriteResult := rewrite.Rewrite(module, binding.Type, analysis.Map)
	report.MethodsPatched = rewriteResult.MethodsPatched
	report.CallsReplaced = rewriteResult.CallsReplaced

	report.ResidualCalls = rewrite.Verify(module, binding.Type)

	if !opts.DryRun {
		if err := writeModule(module, opts, &report); err != nil {
			return report, err
		}
	}

	Logger().Sugar().Infow("pipeline run complete",
		"decoderType", report.DecoderType,
		"accessors", report.AccessorCount,
		"methodsPatched", report.MethodsPatched,
		"callsReplaced", report.CallsReplaced,
		"residual", report.ResidualCalls,
	)
	return report, nil
}

func loadModule(path string) (*metadata.Module, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, ilerrors.NotFound(path)
	}
	m, err := metadata.Load(path)
	if err != nil {
		return nil, ilerrors.LoadFailed(err)
	}
	return m, nil
}

// writeModule optionally backs up the input before writing the rewritten
// module to opts.OutputPath (the CLI's `--backup` flag).
func writeModule(m *metadata.Module, opts Options, report *Report) error {
	if opts.Backup {
		backupPath := opts.InputPath + ".backup"
		data, err := os.ReadFile(opts.InputPath)
		if err != nil {
			return ilerrors.WriteFailed(backupPath, err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return ilerrors.WriteFailed(backupPath, err)
		}
		report.BackupPath = backupPath
	}

	if err := metadata.Write(m, opts.OutputPath); err != nil {
		return ilerrors.WriteFailed(opts.OutputPath, err)
	}
	report.Written = true
	return nil
}

func tallyNonFatal(report *Report, errs []*ilerrors.Error) {
	report.NonFatalErrors = append(report.NonFatalErrors, errs...)
	for _, e := range errs {
		report.ErrorsByKind[e.Kind]++
	}
}

// NonFatalCause combines every non-fatal per-accessor/per-record error into
// a single multi-error value for --verbose diagnostics, without discarding
// any individual cause. Returns nil when the run recovered every accessor
// cleanly.
func (r Report) NonFatalCause() error {
	var combined error
	for _, e := range r.NonFatalErrors {
		combined = multierr.Append(combined, e)
	}
	return combined
}
