// Package pipeline sequences the seven components — Module Facade, Decoder
// Locator, Payload Extractor, Payload Decryptor, Accessor Analyzer,
// Call-site Rewriter, Verifier — into one run, and is the single entry
// point both the CLI and the end-to-end tests call into.
package pipeline
