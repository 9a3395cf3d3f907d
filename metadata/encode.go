package metadata

import "bytes"

// Encode serializes the module back to the container format, preserving
// every token unchanged — the write-side half of the "preserve all
// metadata tokens" invariant.
func (m *Module) Encode() []byte {
	var w bytes.Buffer
	w.Write(magic[:])
	writeVarint(&w, formatVersion)
	writeVarint(&w, uint32(len(m.Types)))
	for _, t := range m.Types {
		encodeType(&w, t)
	}
	return w.Bytes()
}

func encodeType(w *bytes.Buffer, t *TypeRef) {
	writeVarint(w, t.Token)
	writeString(w, t.FullName)
	writeBool(w, t.IsNested)

	writeVarint(w, uint32(len(t.Fields)))
	for _, f := range t.Fields {
		encodeField(w, f)
	}

	writeVarint(w, uint32(len(t.Methods)))
	for _, meth := range t.Methods {
		encodeMethod(w, meth)
	}
}

func encodeField(w *bytes.Buffer, f *FieldRef) {
	writeVarint(w, f.Token)
	writeString(w, f.Name)
	writeBool(w, f.IsStatic)
	w.WriteByte(byte(f.Semantic))
	writeBool(w, f.InitialBytes != nil)
	if f.InitialBytes != nil {
		writeBytes(w, f.InitialBytes)
	}
}

func encodeMethod(w *bytes.Buffer, meth *MethodRef) {
	writeVarint(w, meth.Token)
	writeString(w, meth.Name)
	writeVarint(w, uint32(meth.ParamCount))
	writeBool(w, meth.ReturnsText)
	writeBool(w, meth.HasBody())
	if meth.HasBody() {
		writeVarint(w, uint32(len(meth.Body)))
		for _, ins := range meth.Body {
			encodeInstruction(w, ins)
		}
	}
}

func encodeInstruction(w *bytes.Buffer, ins Instruction) {
	w.WriteByte(byte(ins.Opcode))
	w.WriteByte(byte(ins.OperandKind))

	switch ins.OperandKind {
	case OperandNone:
		// no operand bytes
	case OperandInt32:
		writeVarintSigned(w, ins.Operand.(int32))
	case OperandMethodRef:
		mr := ins.Operand.(MethodRefOperand)
		writeString(w, mr.DeclaringType)
		writeString(w, mr.MethodName)
		writeVarint(w, mr.Token)
	case OperandFieldRef:
		fr := ins.Operand.(FieldRefOperand)
		writeString(w, fr.DeclaringType)
		writeString(w, fr.FieldName)
		writeVarint(w, fr.Token)
	case OperandText:
		writeString(w, ins.Operand.(string))
	case OperandOther:
		writeVarint(w, ins.Operand.(uint32))
	}
}

func writeBool(w *bytes.Buffer, b bool) {
	if b {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}
