package metadata

// SemanticType classifies a field's payload for the purposes of the
// Decoder Locator and Accessor Analyzer.
type SemanticType byte

const (
	SemanticOther SemanticType = iota
	SemanticByteSequence
	SemanticTextSequence
	SemanticTextSequenceArray
)

// Module is the in-memory representation of one loaded managed binary. It
// owns every TypeRef, and through them every FieldRef, MethodRef, and
// InstructionStream.
type Module struct {
	Types []*TypeRef
}

// TypeRef is a reference into Module identifying one declared type.
type TypeRef struct {
	FullName string
	Fields   []*FieldRef
	Methods  []*MethodRef
	Token    uint32
	IsNested bool
}

// FieldRef identifies a field inside a TypeRef.
type FieldRef struct {
	Name string
	// InitialBytes holds the field's embedded initial value when it is
	// present in metadata directly, and is nil otherwise. Bytes reached
	// through a data-token field via the "load-token; ...; store-static"
	// pattern are resolved by the decoder locator and are not stored here.
	InitialBytes []byte
	Semantic     SemanticType
	Token        uint32
	IsStatic     bool
}

// MethodRef identifies a method inside a TypeRef.
type MethodRef struct {
	Name       string
	Body       InstructionStream // nil when the method has no body
	Token      uint32
	ParamCount int
	// ReturnsText reports whether the method's return-type descriptor is
	// text-sequence, one of the predicates the Accessor Analyzer checks.
	ReturnsText bool
}

// HasBody reports whether the method carries an instruction stream.
func (m *MethodRef) HasBody() bool {
	return m.Body != nil
}

// EnumerateTypes returns every declared type in declaration order, as the
// Module Facade's enumerate_types operation.
func (m *Module) EnumerateTypes() []*TypeRef {
	return m.Types
}

// FindField returns the named field of the type, or nil.
func (t *TypeRef) FindField(name string) *FieldRef {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FindMethod returns the named method of the type, or nil. Method names
// are unique within a type for the purposes of this pipeline: AccessorMap
// keys are accessor method names, unique within the decoder type.
func (t *TypeRef) FindMethod(name string) *MethodRef {
	for _, m := range t.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}
