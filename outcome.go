package pushjson

// Outcome is the result of feeding a chunk to a Parser: the sum type
// spec.md §9 recommends in place of integer return codes.
type Outcome string

const (
	// Success means the document is complete and the chunk was fully
	// consumed, modulo trailing whitespace.
	Success Outcome = "success"
	// NeedMore means the chunk was exhausted before the document (or
	// the current token) could be resolved; feed more bytes to resume.
	NeedMore Outcome = "needmore"
	// Invalid means a byte violated the grammar at the offset carried
	// by the returned error. The parser must be re-initialized before
	// further use.
	Invalid Outcome = "invalid"
	// ExtraByte means a complete document was followed by additional
	// non-whitespace bytes. The parser must be re-initialized before
	// further use.
	ExtraByte Outcome = "extrabyte"
)

func (o Outcome) String() string { return string(o) }
