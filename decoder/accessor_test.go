package decoder_test

import (
	"testing"

	"github.com/LasCondes/ilstringpatcher/decoder"
	"github.com/LasCondes/ilstringpatcher/metadata"
)

func callInstruction(virt bool, target string) metadata.Instruction {
	op := metadata.OpCall
	if virt {
		op = metadata.OpCallVirt
	}
	return metadata.Instruction{
		Opcode:      op,
		OperandKind: metadata.OperandMethodRef,
		Operand: metadata.MethodRefOperand{
			DeclaringType: "Obfuscated.Strings",
			MethodName:    target,
		},
	}
}

func accessorMethod(name string, offset, length int32, virt bool) *metadata.MethodRef {
	return &metadata.MethodRef{
		Name:        name,
		ParamCount:  0,
		ReturnsText: true,
		Body: metadata.InstructionStream{
			metadata.LdcI4(0),
			metadata.LdcI4(offset),
			metadata.LdcI4(length),
			callInstruction(virt, "helper"),
			{Opcode: metadata.OpRet},
		},
	}
}

func bindingWithPayload(payload []byte, methods ...*metadata.MethodRef) *decoder.Binding {
	return &decoder.Binding{
		Type: &metadata.TypeRef{
			FullName: "Obfuscated.Strings",
			Methods:  methods,
		},
		Payload: payload,
	}
}

func TestAnalyze_InstructionPath_Success(t *testing.T) {
	payload := []byte("hello, world")
	b := bindingWithPayload(payload, accessorMethod("get_A", 0, 5, false))

	result := decoder.Analyze(b)
	if result.Map["get_A"] != "hello" {
		t.Fatalf("get_A = %q, want %q", result.Map["get_A"], "hello")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestAnalyze_InstructionPath_VirtualCallRecognized(t *testing.T) {
	payload := []byte("hello, world")
	b := bindingWithPayload(payload, accessorMethod("get_B", 7, 5, true))

	result := decoder.Analyze(b)
	if result.Map["get_B"] != "world" {
		t.Fatalf("get_B = %q, want %q", result.Map["get_B"], "world")
	}
}

func TestAnalyze_InstructionPath_ExactBoundaryAccepted(t *testing.T) {
	payload := []byte("abc")
	b := bindingWithPayload(payload, accessorMethod("get_C", 0, 3, false))

	result := decoder.Analyze(b)
	if result.Map["get_C"] != "abc" {
		t.Fatalf("get_C = %q, want %q", result.Map["get_C"], "abc")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
}

func TestAnalyze_InstructionPath_OneByteOverrunRejected(t *testing.T) {
	payload := []byte("abc")
	b := bindingWithPayload(payload, accessorMethod("get_D", 0, 4, false))

	result := decoder.Analyze(b)
	if _, ok := result.Map["get_D"]; ok {
		t.Fatal("get_D should not be recovered when offset+length exceeds payload")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one out-of-bounds error, got %d", len(result.Errors))
	}
}

func TestAnalyze_InstructionPath_FewerThanThreePrecedingSkipped(t *testing.T) {
	m := &metadata.MethodRef{
		Name:        "get_E",
		ParamCount:  0,
		ReturnsText: true,
		Body: metadata.InstructionStream{
			metadata.LdcI4(0),
			metadata.LdcI4(1),
			callInstruction(false, "helper"),
			{Opcode: metadata.OpRet},
		},
	}
	b := bindingWithPayload([]byte("abc"), m)

	result := decoder.Analyze(b)
	if len(result.Map) != 0 {
		t.Fatalf("expected no recovered entries, got %v", result.Map)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one pattern-mismatch error, got %d", len(result.Errors))
	}
}

func TestAnalyze_InstructionPath_NonIntConstInWindowSkipped(t *testing.T) {
	m := &metadata.MethodRef{
		Name:        "get_F",
		ParamCount:  0,
		ReturnsText: true,
		Body: metadata.InstructionStream{
			{Opcode: metadata.OpNop},
			metadata.LdcI4(0),
			metadata.LdcI4(3),
			callInstruction(false, "helper"),
			{Opcode: metadata.OpRet},
		},
	}
	b := bindingWithPayload([]byte("abc"), m)

	result := decoder.Analyze(b)
	if len(result.Map) != 0 {
		t.Fatalf("expected no recovered entries, got %v", result.Map)
	}
}

func TestAnalyze_InstructionPath_InvalidUTF8Skipped(t *testing.T) {
	payload := []byte{0xff, 0xfe, 0xfd}
	b := bindingWithPayload(payload, accessorMethod("get_G", 0, 3, false))

	result := decoder.Analyze(b)
	if _, ok := result.Map["get_G"]; ok {
		t.Fatal("get_G should not be recovered from invalid UTF-8")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one invalid-utf8 error, got %d", len(result.Errors))
	}
}

func TestAnalyze_InstructionPath_PredicateFiltersNonAccessors(t *testing.T) {
	ctor := &metadata.MethodRef{Name: ".ctor", ParamCount: 0, ReturnsText: true, Body: metadata.InstructionStream{{Opcode: metadata.OpRet}}}
	withParams := &metadata.MethodRef{Name: "get_H", ParamCount: 1, ReturnsText: true, Body: metadata.InstructionStream{{Opcode: metadata.OpRet}}}
	notText := &metadata.MethodRef{Name: "get_I", ParamCount: 0, ReturnsText: false, Body: metadata.InstructionStream{{Opcode: metadata.OpRet}}}
	noBody := &metadata.MethodRef{Name: "get_J", ParamCount: 0, ReturnsText: true}

	b := bindingWithPayload([]byte("abc"), ctor, withParams, notText, noBody)

	result := decoder.Analyze(b)
	if len(result.Map) != 0 {
		t.Fatalf("expected no recovered entries, got %v", result.Map)
	}
	if result.NotAccessorCount != 4 {
		t.Fatalf("NotAccessorCount = %d, want 4", result.NotAccessorCount)
	}
	if result.CandidatesSeen != 0 {
		t.Fatalf("CandidatesSeen = %d, want 0", result.CandidatesSeen)
	}
}

func TestAnalyze_LookupTablePath(t *testing.T) {
	payload := []byte("hello, world")
	table := "StringID,_,_,offset,length\n" +
		"a1,x,y,0,5\n" +
		"a2,x,y,7,5\n"

	b := &decoder.Binding{
		Type: &metadata.TypeRef{FullName: "Obfuscated.Strings"},
		TableField: &metadata.FieldRef{
			Name:         "table",
			InitialBytes: []byte(table),
			Semantic:     metadata.SemanticTextSequence,
		},
		Payload: payload,
	}

	result := decoder.Analyze(b)
	if result.Map["_String_a1"] != "hello" {
		t.Errorf("_String_a1 = %q, want %q", result.Map["_String_a1"], "hello")
	}
	if result.Map["_String_a2"] != "world" {
		t.Errorf("_String_a2 = %q, want %q", result.Map["_String_a2"], "world")
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.CandidatesSeen != 2 {
		t.Fatalf("CandidatesSeen = %d, want 2", result.CandidatesSeen)
	}
}

func TestAnalyze_LookupTablePath_MalformedRecordCountedNotFatal(t *testing.T) {
	payload := []byte("hello, world")
	table := "StringID,_,_,offset,length\n" +
		"a1,x,y,0,5\n" +
		"a2,x,not-a-number\n" + // wrong field count
		"a3,x,y,notanumber,5\n" + // unparsable offset
		"a4,x,y,7,5\n"

	b := &decoder.Binding{
		Type: &metadata.TypeRef{FullName: "Obfuscated.Strings"},
		TableField: &metadata.FieldRef{
			Name:         "table",
			InitialBytes: []byte(table),
			Semantic:     metadata.SemanticTextSequence,
		},
		Payload: payload,
	}

	result := decoder.Analyze(b)
	if len(result.Map) != 2 {
		t.Fatalf("expected 2 recovered entries, got %d: %v", len(result.Map), result.Map)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 malformed-record errors, got %d", len(result.Errors))
	}
}
