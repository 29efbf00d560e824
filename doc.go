// Package pushjson is an incremental, push-style JSON validator.
//
// A Parser is fed byte chunks as they arrive over the wire, from a
// file, or from any other source that produces JSON text in pieces.
// It reports whether the document fed so far is complete, needs more
// bytes, is invalid, or is followed by trailing garbage, and carries
// enough internal state to resume parsing at any grammatical position
// across chunk boundaries.
//
// The parser validates structure and decodes string literals into an
// internal scratch buffer; it does not build a parsed value tree and
// does not expose numbers, booleans, or null as typed values. Callers
// that need a document tree should use encoding/json once a document
// is known to be complete.
package pushjson
