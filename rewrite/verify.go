package rewrite

import "github.com/LasCondes/ilstringpatcher/metadata"

// Verify re-walks every non-decoder-type method body counting residual
// call/virtual-call instructions still targeting the decoder type. A
// nonzero count means the Accessor Analyzer could not recover every
// accessor; it is a warning, never a fatal error.
func Verify(m *metadata.Module, decoderType *metadata.TypeRef) int {
	residual := 0

	for _, t := range m.EnumerateTypes() {
		if t == decoderType {
			continue
		}
		for _, method := range t.Methods {
			if !method.HasBody() {
				continue
			}
			for _, ins := range method.Body {
				target, ok := ins.CallTarget()
				if ok && target.DeclaringType == decoderType.FullName {
					residual++
				}
			}
		}
	}

	if residual > 0 {
		Logger().Sugar().Warnw("residual decoder calls after rewrite", "count", residual)
	}
	return residual
}
