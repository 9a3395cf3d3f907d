// Package rewrite implements the Call-site Rewriter and the Verifier: the
// two components that consume a decoder.AccessorMap and turn it into a
// mutated metadata.Module, then check how much of the decoder's surface
// remains reachable afterward.
package rewrite
