package pushjson

// byteClass categorizes the lead byte of a position inside a string
// literal, per spec §4.3's UTF-8 classification table.
type byteClass int8

const (
	classControl     byteClass = iota // 0x00-0x1F: forbidden control characters
	classAscii                        // printable ASCII other than '"' and '\': copy verbatim
	classQuote                        // 0x22 '"': string end
	classBackslash                    // 0x5C '\': escape follows
	classInvalid                      // 0x80-0xC1, 0xF5-0xFF: stray continuation / overlong start / out of range
	class2Byte                        // 0xC2-0xDF: one trail byte, 0x80-0xBF
	class3ByteE0                      // 0xE0: trail1 in 0xA0-0xBF, trail2 in 0x80-0xBF
	class3ByteNormal                  // 0xE1-0xEF: two trail bytes, 0x80-0xBF
	class4ByteF0                      // 0xF0: trail1 in 0x90-0xBF, trail2-3 in 0x80-0xBF
	class4ByteNormal                  // 0xF1-0xF3: three trail bytes, 0x80-0xBF
	class4ByteF4                      // 0xF4: trail1 in 0x80-0x8F, trail2-3 in 0x80-0xBF
)

// leadClass maps every possible byte value to its classification.
// Built at init time rather than as a hand-typed 256-entry literal so
// each range in the table above is traceable to one loop bound.
var leadClass [256]byteClass

func init() {
	for b := 0x00; b <= 0x1F; b++ {
		leadClass[b] = classControl
	}
	leadClass[0x20] = classAscii
	leadClass[0x21] = classAscii
	leadClass[0x22] = classQuote
	for b := 0x23; b <= 0x5B; b++ {
		leadClass[b] = classAscii
	}
	leadClass[0x5C] = classBackslash
	for b := 0x5D; b <= 0x7F; b++ {
		leadClass[b] = classAscii
	}
	for b := 0x80; b <= 0xC1; b++ {
		leadClass[b] = classInvalid
	}
	for b := 0xC2; b <= 0xDF; b++ {
		leadClass[b] = class2Byte
	}
	leadClass[0xE0] = class3ByteE0
	for b := 0xE1; b <= 0xEF; b++ {
		leadClass[b] = class3ByteNormal
	}
	leadClass[0xF0] = class4ByteF0
	for b := 0xF1; b <= 0xF3; b++ {
		leadClass[b] = class4ByteNormal
	}
	leadClass[0xF4] = class4ByteF4
	for b := 0xF5; b <= 0xFF; b++ {
		leadClass[b] = classInvalid
	}
}

func isTrail(b byte) bool {
	return 0x80 <= b && b <= 0xBF
}

// utf8SeqLen reports the total byte length of a multi-byte sequence
// led by a byte of the given class.
func utf8SeqLen(class byteClass) int8 {
	switch class {
	case class2Byte:
		return 2
	case class3ByteE0, class3ByteNormal:
		return 3
	default: // class4ByteF0, class4ByteNormal, class4ByteF4
		return 4
	}
}

// validateUTF8Seq checks a complete lead-plus-trail byte sequence
// against the trailing-byte ranges from spec §4.3. badIdx is the
// index within seq of the first offending byte when ok is false.
func validateUTF8Seq(seq []byte) (ok bool, badIdx int) {
	switch leadClass[seq[0]] {
	case class2Byte:
		if !isTrail(seq[1]) {
			return false, 1
		}
	case class3ByteE0:
		if !(0xA0 <= seq[1] && seq[1] <= 0xBF) {
			return false, 1
		}
		if !isTrail(seq[2]) {
			return false, 2
		}
	case class3ByteNormal:
		if !isTrail(seq[1]) {
			return false, 1
		}
		if !isTrail(seq[2]) {
			return false, 2
		}
	case class4ByteF0:
		if !(0x90 <= seq[1] && seq[1] <= 0xBF) {
			return false, 1
		}
		if !isTrail(seq[2]) {
			return false, 2
		}
		if !isTrail(seq[3]) {
			return false, 3
		}
	case class4ByteNormal:
		if !isTrail(seq[1]) {
			return false, 1
		}
		if !isTrail(seq[2]) {
			return false, 2
		}
		if !isTrail(seq[3]) {
			return false, 3
		}
	case class4ByteF4:
		if !(0x80 <= seq[1] && seq[1] <= 0x8F) {
			return false, 1
		}
		if !isTrail(seq[2]) {
			return false, 2
		}
		if !isTrail(seq[3]) {
			return false, 3
		}
	}
	return true, -1
}

func hexVal(b byte) (int, bool) {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0'), true
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10, true
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}

// decodeHex4 decodes 4 hexadecimal digits into a code point in
// [0, 0xFFFF]. badAt reports the index (0-3) of the first invalid
// digit when ok is false.
func decodeHex4(digits []byte) (cp int, badAt int, ok bool) {
	for i, d := range digits[:4] {
		v, valid := hexVal(d)
		if !valid {
			return 0, i, false
		}
		cp = cp<<4 | v
	}
	return cp, -1, true
}

func isHighSurrogate(cp int) bool { return 0xD800 <= cp && cp <= 0xDBFF }
func isLowSurrogate(cp int) bool  { return 0xDC00 <= cp && cp <= 0xDFFF }

func combineSurrogates(hi, lo int) rune {
	return rune(0x10000 + ((hi & 0x3FF) << 10) + (lo & 0x3FF))
}

// simpleEscape maps the one-byte escapes (everything except \u) to
// their decoded byte. ok is false for any other selector byte.
func simpleEscape(sel byte) (b byte, ok bool) {
	switch sel {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return 0x08, true
	case 'f':
		return 0x0C, true
	case 'n':
		return 0x0A, true
	case 'r':
		return 0x0D, true
	case 't':
		return 0x09, true
	default:
		return 0, false
	}
}

// stepOutcome is the result of advancing the string-body scanner by
// some amount of input.
type stepOutcome int8

const (
	stepContinue stepOutcome = iota // keep scanning; i has advanced
	stepDone                        // closing quote consumed; i points past it
	stepNeedMore                    // chunk exhausted mid-token; i is the byte to resume at
	stepInvalid                     // the returned index is the offending byte's offset in this chunk
)

// scratchMode tags what a suspended stringScratch is in the middle of
// decoding.
type scratchMode int8

const (
	scratchNone scratchMode = iota
	scratchUTF8
	scratchEscape
)

// stringScratch is the "small fixed-size scratch area" spec.md §3
// describes: it holds a raw multi-byte UTF-8 sequence or a \u escape
// (including a surrogate pair) whose bytes span a chunk boundary.
// Every byte examined while filling it is treated as consumed from
// the caller's perspective — nothing needs to be re-fed.
//
// Layout when mode is scratchEscape: buf[0] is the backslash, buf[1]
// the selector byte; if the selector is 'u', buf[2:6] are the first
// group's hex digits, and if that group is a high surrogate, buf[6]
// and buf[7] must be "\u" and buf[8:12]... sized to 12, the longest
// possible escape (a full surrogate pair) from the leading backslash.
type stringScratch struct {
	active       bool
	mode         scratchMode
	buf          [12]byte
	len          int8
	need         int8
	crossedChunk bool
}

func (s *stringScratch) reset() { *s = stringScratch{} }

// fill copies bytes from chunk[i:] into s.buf[s.len:s.need], stopping
// when need is reached or the chunk runs out. Returns the new index.
func (s *stringScratch) fill(chunk []byte, i int) int {
	for s.len < s.need && i < len(chunk) {
		s.buf[s.len] = chunk[i]
		s.len++
		i++
	}
	return i
}

// scanString advances through string-literal content starting at
// chunk[i], which must be the first byte after the opening quote (or,
// on resumption, wherever the previous call suspended). It writes
// decoded content to p.buf as it goes, appending a zero terminator once
// the closing quote is reached. stepDone means the closing quote was
// consumed and the returned index is the next byte to process;
// stepNeedMore means the chunk is exhausted and the current marker
// should be left unchanged for the next call; stepInvalid means the
// returned index is the violating offset within this chunk, or 0 when
// the offending escape or UTF-8 sequence began in an earlier chunk (see
// scratchInvalid).
func (p *Parser) scanString(chunk []byte, i int) (int, stepOutcome) {
	if p.scratch.active {
		p.scratch.crossedChunk = true
		next, outcome := p.resumeScratch(chunk, i)
		if outcome != stepContinue {
			return next, outcome
		}
		i = next
	}

	for i < len(chunk) {
		b := chunk[i]
		switch leadClass[b] {
		case classQuote:
			p.buf.writeByte(0)
			return i + 1, stepDone
		case classBackslash:
			next, outcome := p.beginEscape(chunk, i)
			if outcome != stepContinue {
				return next, outcome
			}
			i = next
		case classControl, classInvalid:
			return i, stepInvalid
		case classAscii:
			p.buf.writeByte(b)
			i++
		default:
			next, outcome := p.beginUTF8Sequence(chunk, i, leadClass[b])
			if outcome != stepContinue {
				return next, outcome
			}
			i = next
		}
	}
	return i, stepNeedMore
}

// beginUTF8Sequence starts (and, if the whole sequence is already
// available, finishes) decoding a multi-byte UTF-8 sequence whose
// lead byte sits at chunk[i].
func (p *Parser) beginUTF8Sequence(chunk []byte, i int, class byteClass) (int, stepOutcome) {
	p.scratch = stringScratch{active: true, mode: scratchUTF8, need: utf8SeqLen(class)}
	return p.resumeScratch(chunk, i)
}

// beginEscape starts (and, if enough bytes are already available,
// finishes) decoding an escape sequence whose backslash sits at
// chunk[i].
func (p *Parser) beginEscape(chunk []byte, i int) (int, stepOutcome) {
	p.scratch = stringScratch{active: true, mode: scratchEscape, need: 2}
	return p.resumeScratch(chunk, i)
}

// resumeScratch tops up the active scratch buffer from chunk and, once
// it holds enough bytes to make progress, resolves it.
func (p *Parser) resumeScratch(chunk []byte, i int) (int, stepOutcome) {
	s := &p.scratch
	i = s.fill(chunk, i)
	if s.len < s.need {
		return i, stepNeedMore
	}
	switch s.mode {
	case scratchUTF8:
		return p.finishUTF8Scratch(i)
	case scratchEscape:
		return p.advanceEscapeScratch(chunk, i)
	default:
		return i, stepContinue
	}
}

func (p *Parser) finishUTF8Scratch(i int) (int, stepOutcome) {
	s := &p.scratch
	seq := append([]byte(nil), s.buf[:s.need]...)
	ok, badIdx := validateUTF8Seq(seq)
	if !ok {
		return p.scratchInvalid(i, badIdx)
	}
	p.buf.writeBytes(seq)
	s.reset()
	return i, stepContinue
}

// advanceEscapeScratch resolves an escape once its scratch buffer
// holds enough bytes for the current phase, growing s.need and
// pulling more bytes from chunk as a \u escape reveals it needs a
// surrogate pair.
func (p *Parser) advanceEscapeScratch(chunk []byte, i int) (int, stepOutcome) {
	s := &p.scratch
	for {
		switch s.need {
		case 2:
			sel := s.buf[1]
			if sel != 'u' {
				decoded, ok := simpleEscape(sel)
				if !ok {
					return p.scratchInvalid(i, 1)
				}
				p.buf.writeByte(decoded)
				s.reset()
				return i, stepContinue
			}
			s.need = 6
		case 6:
			cp, badAt, ok := decodeHex4(s.buf[2:6])
			if !ok {
				return p.scratchInvalid(i, 2+badAt)
			}
			if isLowSurrogate(cp) {
				return p.scratchInvalid(i, 2)
			}
			if !isHighSurrogate(cp) {
				p.buf.writeCodepoint(rune(cp))
				s.reset()
				return i, stepContinue
			}
			s.need = 12
		case 12:
			if s.buf[6] != '\\' || s.buf[7] != 'u' {
				return p.scratchInvalid(i, 6)
			}
			lo, badAt2, ok2 := decodeHex4(s.buf[8:12])
			if !ok2 {
				return p.scratchInvalid(i, 8+badAt2)
			}
			if !isLowSurrogate(lo) {
				return p.scratchInvalid(i, 8)
			}
			hi, _, _ := decodeHex4(s.buf[2:6])
			p.buf.writeCodepoint(combineSurrogates(hi, lo))
			s.reset()
			return i, stepContinue
		}
		i = s.fill(chunk, i)
		if s.len < s.need {
			return i, stepNeedMore
		}
	}
}

// scratchInvalid reports offset localIdx within the scratch buffer as
// the violating position. When the scratch buffer was resumed from a
// previous ParseChunk call, some of its bytes may not exist in this
// chunk at all, so the offset is reported as 0 rather than guessed;
// otherwise every byte in the buffer came from this chunk ending at i,
// so the exact position is recoverable.
func (p *Parser) scratchInvalid(i int, localIdx int) (int, stepOutcome) {
	s := &p.scratch
	offset := 0
	if !s.crossedChunk {
		offset = i - int(s.need) + localIdx
	}
	s.reset()
	return offset, stepInvalid
}
