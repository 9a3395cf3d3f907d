package rewrite

import (
	"github.com/LasCondes/ilstringpatcher/decoder"
	"github.com/LasCondes/ilstringpatcher/metadata"
)

// Result reports how much of the module the Call-site Rewriter touched.
type Result struct {
	MethodsPatched int
	CallsReplaced  int
}

// Rewrite mutates every call/virtual-call instruction outside decoderType
// whose target's declaring type is decoderType and whose target's name has
// an entry in accessors: opcode becomes the literal-text-load opcode,
// operand becomes the mapped text. Misses are left alone — dropped
// accessors stay callable. No instruction is inserted, removed, or
// reordered.
func Rewrite(m *metadata.Module, decoderType *metadata.TypeRef, accessors decoder.AccessorMap) Result {
	var result Result

	for _, t := range m.EnumerateTypes() {
		if t == decoderType {
			continue
		}

		for _, method := range t.Methods {
			if !method.HasBody() {
				continue
			}
			methodPatched := false

			for i, ins := range method.Body {
				target, ok := ins.CallTarget()
				if !ok || target.DeclaringType != decoderType.FullName {
					continue
				}
				text, hit := accessors[target.MethodName]
				if !hit {
					continue
				}

				method.Body.Mutate(i, metadata.OpLdstr, metadata.OperandText, text)

				result.CallsReplaced++
				methodPatched = true
			}

			if methodPatched {
				result.MethodsPatched++
			}
		}
	}

	Logger().Sugar().Infow("rewrite complete",
		"methodsPatched", result.MethodsPatched, "callsReplaced", result.CallsReplaced)
	return result
}
