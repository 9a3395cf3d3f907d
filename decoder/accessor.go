package decoder

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/LasCondes/ilstringpatcher/ilerrors"
	"github.com/LasCondes/ilstringpatcher/metadata"
)

// constructorNames are the method names the accessor predicate excludes by
// name ("not a constructor (by name)").
var constructorNames = map[string]bool{".ctor": true, ".cctor": true}

// lookupTableHeaderID is the literal first-field value that marks a lookup
// table header row, skipped without counting as an error.
const lookupTableHeaderID = "StringID"

// AnalyzeResult carries the recovered AccessorMap plus the bookkeeping the
// pipeline's report and --scan diagnostic need: qualifying candidates seen
// and the non-fatal per-entry failures encountered along the way.
type AnalyzeResult struct {
	Map              AccessorMap
	Errors           []*ilerrors.Error
	CandidatesSeen   int // accessor-shaped methods (path 1) or data records (path 2)
	NotAccessorCount int // methods that failed the predicate filter (path 1 only)
}

// Analyze recovers the AccessorMap from a decrypted Binding. It takes the
// lookup-table path when the decoder type carries a table field, and the
// per-method instruction-analysis path otherwise.
func Analyze(b *Binding) AnalyzeResult {
	if b.TableField != nil {
		return analyzeLookupTable(b)
	}
	return analyzeInstructions(b)
}

func analyzeInstructions(b *Binding) AnalyzeResult {
	result := AnalyzeResult{Map: AccessorMap{}}

	for _, m := range b.Type.Methods {
		if !isAccessorCandidate(m) {
			result.NotAccessorCount++
			continue
		}
		result.CandidatesSeen++

		text, err := analyzeAccessorBody(b.Type.FullName, m, b.Payload)
		if err != nil {
			result.Errors = append(result.Errors, err)
			Logger().Sugar().Debugw("accessor skipped", "method", m.Name, "reason", err.Error())
			continue
		}
		result.Map[m.Name] = text
	}
	return result
}

// isAccessorCandidate implements the accessor predicate: not a
// constructor by name, no parameters, text-sequence return, has a body.
func isAccessorCandidate(m *metadata.MethodRef) bool {
	if constructorNames[m.Name] {
		return false
	}
	if m.ParamCount != 0 {
		return false
	}
	if !m.ReturnsText {
		return false
	}
	return m.HasBody()
}

// analyzeAccessorBody recovers (offset, length) from the three
// instructions preceding the method's first call/virtual-call and decodes
// the matching payload slice.
func analyzeAccessorBody(typeName string, m *metadata.MethodRef, payload []byte) (string, *ilerrors.Error) {
	body := m.Body

	callIdx := -1
	for i, ins := range body {
		if ins.IsCall() {
			callIdx = i
			break
		}
	}
	if callIdx < 3 {
		return "", ilerrors.PatternMismatch(typeName, m.Name,
			"fewer than three instructions precede the first call")
	}

	var consts [3]int32
	for k := 0; k < 3; k++ {
		ins := body[callIdx-3+k]
		v, ok := ins.IntConst()
		if !ok {
			return "", ilerrors.PatternMismatch(typeName, m.Name,
				"an instruction in the three-instruction window is not an integer constant")
		}
		consts[k] = v
	}
	// consts = (index, offset, length); index confirms the pattern but is
	// otherwise unused.
	offset := int(consts[1])
	length := int(consts[2])

	return decodeLiteral(typeName, m.Name, payload, offset, length)
}

// decodeLiteral applies the bounds invariant and strict UTF-8 decode shared
// by both AccessorMap construction paths.
func decodeLiteral(typeName, entryName string, payload []byte, offset, length int) (string, *ilerrors.Error) {
	if offset < 0 || length < 0 || offset+length > len(payload) {
		return "", ilerrors.OutOfBounds(typeName, entryName, offset, length, len(payload))
	}
	slice := payload[offset : offset+length]
	if !utf8.Valid(slice) {
		return "", ilerrors.InvalidUTF8(typeName, entryName, slice)
	}
	return string(slice), nil
}

// analyzeLookupTable parses the table field as newline-delimited
// "id,_,_,offset,length" records, keying each recovered literal by
// "_String_" + id.
func analyzeLookupTable(b *Binding) AnalyzeResult {
	result := AnalyzeResult{Map: AccessorMap{}}

	raw := string(b.TableField.InitialBytes)
	lines := strings.Split(raw, "\n")

	for lineNo, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			result.Errors = append(result.Errors, ilerrors.MalformedRecord(lineNo+1, line, nil))
			continue
		}
		if fields[0] == lookupTableHeaderID {
			continue
		}

		result.CandidatesSeen++
		id := fields[0]

		offset, errOffset := strconv.Atoi(strings.TrimSpace(fields[3]))
		length, errLength := strconv.Atoi(strings.TrimSpace(fields[4]))
		if errOffset != nil {
			result.Errors = append(result.Errors, ilerrors.MalformedRecord(lineNo+1, line, errOffset))
			continue
		}
		if errLength != nil {
			result.Errors = append(result.Errors, ilerrors.MalformedRecord(lineNo+1, line, errLength))
			continue
		}

		key := "_String_" + id
		text, err := decodeLiteral(b.Type.FullName, key, b.Payload, offset, length)
		if err != nil {
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Map[key] = text
	}

	return result
}
