// Package metadata provides the Module Facade: a compact in-memory
// representation of a managed module (types, fields, methods, and the
// mutable instruction stream inside each method body) plus a binary
// reader/writer for it.
//
// No third-party Go library exists for reading and mutating CLR/PE
// metadata in place, so this package hand-rolls a container format
// sufficient to carry every field the deobfuscation pipeline touches: a
// length-prefixed section layout decoded with a small LEB128 varint codec,
// no reflection-based marshalling.
//
// Load a module, walk its types, and write it back:
//
//	m, err := metadata.Load("input.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range m.EnumerateTypes() {
//	    fmt.Println(t.FullName)
//	}
//	if err := metadata.Write(m, "output.bin"); err != nil {
//	    log.Fatal(err)
//	}
//
// Metadata tokens assigned at load time are echoed back unchanged at
// encode time, so references held outside the module (tests, debug
// info) stay valid across a load/write round trip.
package metadata
