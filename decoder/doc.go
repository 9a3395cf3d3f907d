// Package decoder implements the Decoder Locator, Payload Extractor,
// Payload Decryptor, and Accessor Analyzer: everything needed to turn a
// loaded metadata.Module into an AccessorMap of recovered literal strings,
// without touching any type other than the decoder type itself.
package decoder
