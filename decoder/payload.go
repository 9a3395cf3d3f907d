package decoder

import "github.com/LasCondes/ilstringpatcher/ilerrors"

// ExtractPayload acquires a mutable, owned copy of the payload blob the
// Decoder Locator resolved. The original metadata bytes are never touched;
// the decryptor mutates only this copy.
func ExtractPayload(b *Binding) ([]byte, error) {
	if len(b.rawPayload) == 0 {
		return nil, ilerrors.ExtractionFailed(b.Type.FullName, nil)
	}
	owned := make([]byte, len(b.rawPayload))
	copy(owned, b.rawPayload)
	return owned, nil
}

// decryptKey is the constant XOR mask applied on top of the byte-index
// keystream.
const decryptKey = 0xAA

// Decrypt inverts the stream cipher in place:
//
//	payload[i] = payload[i] XOR ((i mod 256) XOR 0xAA)
//
// The cipher is an involution (decrypt(decrypt(p)) == p) and total — every
// byte is covered regardless of len(payload) mod 256 — so this must run
// exactly once per payload.
func Decrypt(payload []byte) {
	for i := range payload {
		payload[i] ^= byte(i%256) ^ decryptKey
	}
}
