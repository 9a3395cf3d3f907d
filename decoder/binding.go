package decoder

import "github.com/LasCondes/ilstringpatcher/metadata"

// Binding is the result of locating the decoder type: a unique,
// thereafter-immutable (decoder_type, payload_field, optional table_field)
// triple plus the decrypted payload once the Payload Extractor and
// Payload Decryptor have run.
type Binding struct {
	Type         *metadata.TypeRef
	PayloadField *metadata.FieldRef
	TableField   *metadata.FieldRef // optional, nil when no lookup table is present
	Payload      []byte             // decrypted; set by the caller from ExtractPayload + Decrypt

	// rawPayload is the raw (still-encrypted) bytes the Decoder Locator
	// resolved reaching the payload field's backing data blob. The
	// Payload Extractor reads this; it is never exposed directly so that
	// callers cannot accidentally decrypt the locator's own view in place.
	rawPayload []byte
}

// AccessorMap maps an accessor method's exact name (as it appears in
// metadata) to the literal string recovered from the payload.
type AccessorMap map[string]string
