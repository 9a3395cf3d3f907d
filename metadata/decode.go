package metadata

import (
	"bytes"
	"fmt"
)

// magic identifies the container format this package reads and writes.
var magic = [4]byte{'I', 'L', 'S', 'P'}

// formatVersion is bumped whenever the section layout changes in a way
// that isn't backward compatible.
const formatVersion = 1

// decodeModule parses the container format produced by Module.Encode.
func decodeModule(data []byte) (*Module, error) {
	r := bytes.NewReader(data)

	var hdr [4]byte
	if _, err := r.Read(hdr[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if hdr != magic {
		return nil, fmt.Errorf("not an ilstringpatcher module (bad magic %x)", hdr)
	}

	version, err := readVarint(r)
	if err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unsupported module format version %d", version)
	}

	typeCount, err := readVarint(r)
	if err != nil {
		return nil, fmt.Errorf("read type count: %w", err)
	}

	m := &Module{Types: make([]*TypeRef, 0, typeCount)}
	for i := uint32(0); i < typeCount; i++ {
		t, err := decodeType(r)
		if err != nil {
			return nil, fmt.Errorf("decode type %d: %w", i, err)
		}
		m.Types = append(m.Types, t)
	}
	return m, nil
}

func decodeType(r *bytes.Reader) (*TypeRef, error) {
	token, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	nestedByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	t := &TypeRef{Token: token, FullName: name, IsNested: nestedByte != 0}

	fieldCount, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	t.Fields = make([]*FieldRef, 0, fieldCount)
	for i := uint32(0); i < fieldCount; i++ {
		f, err := decodeField(r)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		t.Fields = append(t.Fields, f)
	}

	methodCount, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	t.Methods = make([]*MethodRef, 0, methodCount)
	for i := uint32(0); i < methodCount; i++ {
		meth, err := decodeMethod(r)
		if err != nil {
			return nil, fmt.Errorf("method %d: %w", i, err)
		}
		t.Methods = append(t.Methods, meth)
	}

	return t, nil
}

func decodeField(r *bytes.Reader) (*FieldRef, error) {
	token, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	isStatic, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	semantic, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	hasBytes, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	f := &FieldRef{
		Token:    token,
		Name:     name,
		IsStatic: isStatic != 0,
		Semantic: SemanticType(semantic),
	}
	if hasBytes != 0 {
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		f.InitialBytes = b
	}
	return f, nil
}

func decodeMethod(r *bytes.Reader) (*MethodRef, error) {
	token, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	paramCount, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	returnsText, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	hasBody, err := r.ReadByte()
	if err != nil {
		return nil, err
	}

	meth := &MethodRef{
		Token:       token,
		Name:        name,
		ParamCount:  int(paramCount),
		ReturnsText: returnsText != 0,
	}
	if hasBody != 0 {
		instrCount, err := readVarint(r)
		if err != nil {
			return nil, err
		}
		meth.Body = make(InstructionStream, instrCount)
		for i := uint32(0); i < instrCount; i++ {
			ins, err := decodeInstruction(r)
			if err != nil {
				return nil, fmt.Errorf("instruction %d: %w", i, err)
			}
			meth.Body[i] = ins
		}
	}
	return meth, nil
}

func decodeInstruction(r *bytes.Reader) (Instruction, error) {
	opByte, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}
	kindByte, err := r.ReadByte()
	if err != nil {
		return Instruction{}, err
	}

	ins := Instruction{Opcode: Opcode(opByte), OperandKind: OperandKind(kindByte)}

	switch ins.OperandKind {
	case OperandNone:
		// no operand bytes
	case OperandInt32:
		v, err := readVarintSigned(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Operand = v
	case OperandMethodRef:
		declType, err := readString(r)
		if err != nil {
			return Instruction{}, err
		}
		methName, err := readString(r)
		if err != nil {
			return Instruction{}, err
		}
		token, err := readVarint(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Operand = MethodRefOperand{DeclaringType: declType, MethodName: methName, Token: token}
	case OperandFieldRef:
		declType, err := readString(r)
		if err != nil {
			return Instruction{}, err
		}
		fieldName, err := readString(r)
		if err != nil {
			return Instruction{}, err
		}
		token, err := readVarint(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Operand = FieldRefOperand{DeclaringType: declType, FieldName: fieldName, Token: token}
	case OperandText:
		s, err := readString(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Operand = s
	case OperandOther:
		v, err := readVarint(r)
		if err != nil {
			return Instruction{}, err
		}
		ins.Operand = v
	default:
		return Instruction{}, fmt.Errorf("unknown operand kind %d", kindByte)
	}

	return ins, nil
}
