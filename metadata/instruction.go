package metadata

// Opcode identifies the operation an Instruction performs. The set here is
// the minimal CIL-like instruction subset the pipeline needs to recognize:
// calls, the literal-text load the rewriter emits, the handful of
// integer-constant shorthand encodings the accessor analyzer must decode,
// and the load-token/store-static pair the decoder locator follows to
// reach a static field's backing data blob.
type Opcode byte

const (
	OpNop Opcode = iota

	// Control / invocation.
	OpCall        // call <MethodRef>
	OpCallVirt    // callvirt <MethodRef> (virtual-call)
	OpRet         // ret
	OpBranch      // br <int32 offset>, preserved verbatim by the rewriter
	OpBranchTrue  // brtrue <int32 offset>
	OpBranchFalse // brfalse <int32 offset>

	// Literal loads.
	OpLdstr // ldstr <text>  (the literal-text-load opcode)

	// Field / token access (used by the decoder locator's static
	// initializer scan).
	OpLdtoken // ldtoken <FieldRef>
	OpStsfld  // stsfld <FieldRef>
	OpLdsfld  // ldsfld <FieldRef>
	OpLdfld   // ldfld <FieldRef>

	// Integer-constant shorthand encodings: dedicated zero-through-eight
	// opcodes, the minus-one opcode, the short (single-byte) form, and the
	// full 32-bit form.
	OpLdcI4_0
	OpLdcI4_1
	OpLdcI4_2
	OpLdcI4_3
	OpLdcI4_4
	OpLdcI4_5
	OpLdcI4_6
	OpLdcI4_7
	OpLdcI4_8
	OpLdcI4M1 // ldc.i4.m1, value -1
	OpLdcI4S  // ldc.i4.s <int8>, short form
	OpLdcI4   // ldc.i4 <int32>, full form

	// Anything else (locals, arithmetic, etc.) the pipeline never
	// needs to interpret, only to preserve.
	OpOther
)

// OperandKind classifies the value carried by Instruction.Operand.
type OperandKind byte

const (
	OperandNone OperandKind = iota
	OperandInt32
	OperandMethodRef
	OperandFieldRef
	OperandText
	OperandOther
)

// MethodRefOperand identifies the method a call/callvirt targets, by token
// and by the fully-qualified name of its declaring type — the rewriter
// compares declaring-type identity by name.
type MethodRefOperand struct {
	DeclaringType string
	MethodName    string
	Token         uint32
}

// FieldRefOperand identifies a field a ldtoken/stsfld/ldsfld/ldfld targets.
type FieldRefOperand struct {
	DeclaringType string
	FieldName     string
	Token         uint32
}

// Instruction is one (opcode, operand) pair inside a method body.
// InstructionStream.Mutate is the only sanctioned way to change one in
// place; Opcode and Operand are exported so tests can assert directly on
// them, but pipeline code always mutates through the stream, never through
// a copy re-inserted into the slice under a different index.
type Instruction struct {
	Operand     any // nil, int32, MethodRefOperand, FieldRefOperand, string, or uint32 (OperandOther)
	Opcode      Opcode
	OperandKind OperandKind
}

// InstructionStream is the ordered, mutable sequence of instructions that
// makes up one method body. It is exactly the backing slice of
// MethodRef.Body — callers are expected to index into it in place.
type InstructionStream []Instruction

// Mutate replaces the instruction at i with a new opcode, operand kind, and
// operand, in place. No instruction is inserted, removed, or reordered.
func (s InstructionStream) Mutate(i int, opcode Opcode, kind OperandKind, operand any) {
	s[i].Opcode = opcode
	s[i].OperandKind = kind
	s[i].Operand = operand
}

// IsCall reports whether the instruction invokes another method.
func (i Instruction) IsCall() bool {
	return i.Opcode == OpCall || i.Opcode == OpCallVirt
}

// CallTarget returns the MethodRefOperand of a call/callvirt instruction.
func (i Instruction) CallTarget() (MethodRefOperand, bool) {
	if !i.IsCall() {
		return MethodRefOperand{}, false
	}
	m, ok := i.Operand.(MethodRefOperand)
	return m, ok
}

// IsIntConst reports whether the opcode is one of the integer-constant
// shorthand or full-width encodings.
func (i Instruction) IsIntConst() bool {
	switch i.Opcode {
	case OpLdcI4_0, OpLdcI4_1, OpLdcI4_2, OpLdcI4_3, OpLdcI4_4,
		OpLdcI4_5, OpLdcI4_6, OpLdcI4_7, OpLdcI4_8,
		OpLdcI4M1, OpLdcI4S, OpLdcI4:
		return true
	default:
		return false
	}
}

// IntConst decodes the constant value carried by an integer-constant
// instruction. ok is false for any other opcode — any other opcode in the
// three-instruction window invalidates the accessor pattern match.
func (i Instruction) IntConst() (value int32, ok bool) {
	switch i.Opcode {
	case OpLdcI4_0:
		return 0, true
	case OpLdcI4_1:
		return 1, true
	case OpLdcI4_2:
		return 2, true
	case OpLdcI4_3:
		return 3, true
	case OpLdcI4_4:
		return 4, true
	case OpLdcI4_5:
		return 5, true
	case OpLdcI4_6:
		return 6, true
	case OpLdcI4_7:
		return 7, true
	case OpLdcI4_8:
		return 8, true
	case OpLdcI4M1:
		return -1, true
	case OpLdcI4S:
		v, ok := i.Operand.(int32)
		return v, ok
	case OpLdcI4:
		v, ok := i.Operand.(int32)
		return v, ok
	default:
		return 0, false
	}
}

// LdcI4 builds the most compact integer-constant instruction encoding a
// given value, mirroring how a real CIL assembler would pick between the
// shorthand forms and the full 32-bit form. Used by tests to build fixture
// accessor bodies.
func LdcI4(v int32) Instruction {
	switch {
	case v >= 0 && v <= 8:
		return Instruction{Opcode: Opcode(int(OpLdcI4_0) + int(v))}
	case v == -1:
		return Instruction{Opcode: OpLdcI4M1}
	case v >= -128 && v <= 127:
		return Instruction{Opcode: OpLdcI4S, Operand: v, OperandKind: OperandInt32}
	default:
		return Instruction{Opcode: OpLdcI4, Operand: v, OperandKind: OperandInt32}
	}
}
