package metadata

import (
	"bytes"
	"errors"
	"io"
)

// LEB128 varint helpers used by decode.go/encode.go for every length,
// count, and token field in the container format.

// ErrOverflow is returned when a varint exceeds the maximum bit width.
var ErrOverflow = errors.New("metadata: varint overflow")

// readVarint reads an unsigned LEB128 value.
func readVarint(r io.ByteReader) (uint32, error) {
	var result uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, ErrOverflow
		}
	}
}

// readVarintSigned reads a signed LEB128 value (sign-extended, 32-bit).
func readVarintSigned(r io.ByteReader) (int32, error) {
	var result int32
	var shift uint
	var b byte
	var err error
	for {
		b, err = r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 35 {
			return 0, ErrOverflow
		}
	}
	if shift < 32 && b&0x40 != 0 {
		result |= ^int32(0) << shift
	}
	return result, nil
}

// writeVarint writes an unsigned LEB128 value.
func writeVarint(w *bytes.Buffer, v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// writeVarintSigned writes a signed LEB128 value.
func writeVarintSigned(w *bytes.Buffer, v int32) {
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		w.WriteByte(b)
	}
}

// readBytes reads a varint-length-prefixed byte slice.
func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readVarint(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// writeBytes writes a varint-length-prefixed byte slice.
func writeBytes(w *bytes.Buffer, b []byte) {
	writeVarint(w, uint32(len(b)))
	w.Write(b)
}

// readString reads a varint-length-prefixed UTF-8 string.
func readString(r *bytes.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeString writes a varint-length-prefixed UTF-8 string.
func writeString(w *bytes.Buffer, s string) {
	writeBytes(w, []byte(s))
}
