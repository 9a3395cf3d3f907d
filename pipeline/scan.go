package pipeline

import (
	"context"

	"github.com/LasCondes/ilstringpatcher/decoder"
)

// ScanReport is the read-only diagnostic produced by Scan: whether a
// decoder type was found, its name, its payload length, and the
// accessor-predicate pass/fail counts from the Accessor Analyzer — never a
// mutation of any type's instruction stream.
type ScanReport struct {
	DecoderFound        bool
	DecoderType         string
	PayloadLength       int
	AccessorCandidates  int
	NotAccessorMethods  int
	RecoveredCount      int
	NonFatalErrorCount  int
}

// Scan runs the Decoder Locator, Payload Extractor/Decryptor, and Accessor
// Analyzer only — it never
// invokes the Call-site Rewriter or writes anything. This backs the CLI's
// `--scan` flag (SPEC_FULL.md § SUPPLEMENTED FEATURES).
func Scan(ctx context.Context, inputPath string) (ScanReport, error) {
	var report ScanReport

	if err := ctx.Err(); err != nil {
		return report, err
	}

	module, err := loadModule(inputPath)
	if err != nil {
		return report, err
	}

	binding, ok := decoder.Locate(module)
	if !ok {
		return report, nil
	}
	report.DecoderFound = true
	report.DecoderType = binding.Type.FullName

	payload, err := decoder.ExtractPayload(binding)
	if err != nil {
		return report, err
	}
	decoder.Decrypt(payload)
	binding.Payload = payload
	report.PayloadLength = len(payload)

	analysis := decoder.Analyze(binding)
	report.AccessorCandidates = analysis.CandidatesSeen
	report.NotAccessorMethods = analysis.NotAccessorCount
	report.RecoveredCount = len(analysis.Map)
	report.NonFatalErrorCount = len(analysis.Errors)

	return report, nil
}
