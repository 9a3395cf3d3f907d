package decoder

import "github.com/LasCondes/ilstringpatcher/metadata"

// SMin is the minimum byte length a candidate payload field's initial
// bytes must exceed for its declaring type to be considered the decoder
// type.
const SMin = 50000

// staticInitializerName is the conventional name of a type's static
// constructor, the only method the locator ever reads bytes-by-pattern
// from.
const staticInitializerName = ".cctor"

// Locate scans every type in enumeration order and returns the first one
// satisfying both decoder-type predicates: a static byte-sequence field
// whose initial bytes exceed SMin, and a non-empty method list. Returns
// ok=false when no type matches — "no-decoder-found" is a successful,
// non-fatal outcome, never an error.
func Locate(m *metadata.Module) (binding *Binding, ok bool) {
	for _, t := range m.EnumerateTypes() {
		if len(t.Methods) == 0 {
			continue
		}
		for _, f := range t.Fields {
			if !f.IsStatic || f.Semantic != metadata.SemanticByteSequence {
				continue
			}
			payload := resolveInitialBytes(m, t, f)
			if len(payload) <= SMin {
				continue
			}

			Logger().Sugar().Debugw("decoder type located",
				"type", t.FullName, "field", f.Name, "payloadLen", len(payload))

			return &Binding{
				Type:         t,
				PayloadField: f,
				TableField:   findTableField(t, f),
				rawPayload:   payload,
			}, true
		}
	}
	return nil, false
}

// findTableField returns the optional lookup-table field (text-sequence or
// text-sequence-array) on the decoder type, if any, other than the payload
// field itself.
func findTableField(t *metadata.TypeRef, payloadField *metadata.FieldRef) *metadata.FieldRef {
	for _, f := range t.Fields {
		if f == payloadField {
			continue
		}
		if f.Semantic == metadata.SemanticTextSequence || f.Semantic == metadata.SemanticTextSequenceArray {
			return f
		}
	}
	return nil
}

// resolveInitialBytes returns the candidate field's initial bytes. When the
// metadata format stores them directly on the field, that's the answer.
// Otherwise the byte-sequence field's value is assigned from a data blob in
// the type's static initializer, and the locator must scan for the
// "load-token <data_field>; ...; store-static <candidate_field>" pattern
// and follow it to the data field's own initial
// bytes — the authoritative payload.
func resolveInitialBytes(m *metadata.Module, t *metadata.TypeRef, f *metadata.FieldRef) []byte {
	if f.InitialBytes != nil {
		return f.InitialBytes
	}

	cctor := t.FindMethod(staticInitializerName)
	if cctor == nil || !cctor.HasBody() {
		return nil
	}

	var pendingDataField *metadata.FieldRef
	for _, ins := range cctor.Body {
		switch ins.Opcode {
		case metadata.OpLdtoken:
			if fr, isFieldRef := ins.Operand.(metadata.FieldRefOperand); isFieldRef {
				pendingDataField = resolveFieldRef(m, fr)
			}
		case metadata.OpStsfld:
			fr, isFieldRef := ins.Operand.(metadata.FieldRefOperand)
			if !isFieldRef || pendingDataField == nil {
				continue
			}
			if fr.DeclaringType == t.FullName && fr.FieldName == f.Name {
				return pendingDataField.InitialBytes
			}
		}
	}
	return nil
}

// resolveFieldRef looks up the field a FieldRefOperand names, searching
// every type in the module — the data field backing a token-load
// frequently lives in a different (often compiler-generated) type than the
// candidate field it initializes.
func resolveFieldRef(m *metadata.Module, ref metadata.FieldRefOperand) *metadata.FieldRef {
	for _, t := range m.EnumerateTypes() {
		if t.FullName != ref.DeclaringType {
			continue
		}
		return t.FindField(ref.FieldName)
	}
	return nil
}
