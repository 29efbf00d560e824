package pushjson

// Parser is a resumable, push-style JSON grammar validator. Bytes are
// fed to it in arbitrarily sized chunks via ParseChunk; it reports
// whether the document so far is well-formed, incomplete, or invalid,
// without ever building a parse tree. String content is decoded (UTF-8
// validated, escapes resolved) into an internal scratch buffer rather
// than surfaced as values — see doc.go for the package's scope.
//
// A zero-value Parser is not usable; construct one with NewParser, or
// call Init before the first ParseChunk.
type Parser struct {
	stack   *stateStack
	buf     *decodeBuffer
	scratch stringScratch

	ready bool
}

// NewParser allocates and initializes a Parser ready to validate one
// document.
func NewParser() *Parser {
	p := &Parser{}
	p.Init()
	return p
}

// Init (re)initializes the parser to begin a new document, reusing any
// already-allocated stack and buffer capacity. Call this before
// reusing a Parser for a second document — the package does not
// support parsing a stream of concatenated documents in one run.
func (p *Parser) Init() {
	if p.stack == nil {
		p.stack = newStateStack()
	} else {
		p.stack.clear()
	}
	if p.buf == nil {
		p.buf = newDecodeBuffer()
	} else {
		p.buf.clear()
	}
	p.scratch.reset()
	p.ready = true
}

// Close releases no resources of its own; it exists so Parser can
// satisfy io.Closer for hosts that manage parsers alongside other
// closeable resources. It is always safe to call and always returns
// nil.
func (p *Parser) Close() error {
	return nil
}

// MemSize reports the parser's approximate owned heap footprint in
// bytes: the state stack's capacity plus the decode buffer's capacity.
// Hosts bounding memory per in-flight document can poll this between
// ParseChunk calls.
func (p *Parser) MemSize() int {
	if !p.ready {
		return 0
	}
	return p.stack.memSize() + p.buf.memSize()
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func skipWS(chunk []byte, i int) int {
	for i < len(chunk) && isSpace(chunk[i]) {
		i++
	}
	return i
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// ParseChunk feeds the next chunk of the document to the parser. It
// returns the number of leading bytes of chunk that were fully
// processed and folded into the parser's internal state; the caller
// never needs to re-supply those bytes (or any before them) on a
// subsequent call. An empty chunk is a valid call and always yields
// NeedMore on an otherwise-incomplete document.
//
// A number is only known to have ended once the byte after its last
// digit is seen, so a document that is a bare top-level number yields
// NeedMore until a following byte (such as whitespace) has been fed;
// feeding an empty chunk does not resolve it.
//
// Once ParseChunk returns Invalid or ExtraByte, the parser must not be
// fed further chunks until Init is called again; the grammar state is
// left exactly where the violation was discovered for diagnostic
// purposes, not advanced past it.
func (p *Parser) ParseChunk(chunk []byte) (int, Outcome, error) {
	if !p.ready {
		return 0, Invalid, ErrUninitialized
	}

	i := 0
	for {
		switch top := p.stack.peek(); top {
		case markerBug:
			panic("pushjson: state stack underflow")

		case markerInit:
			p.stack.set(markerFinish)
			p.stack.push(markerValue)

		case markerValue:
			next, outcome := p.stepValue(chunk, i)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerObjectFirstName:
			next, outcome := p.stepObjectOpenName(chunk, i, true)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerObjectName:
			next, outcome := p.stepObjectOpenName(chunk, i, false)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerObjectNameSep:
			next, outcome := p.stepSingleByte(chunk, i, ':', markerObjectValue)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerObjectValue:
			p.stack.set(markerObjectValueSep)
			p.stack.push(markerValue)

		case markerObjectValueSep:
			next, outcome := p.stepObjectValueSep(chunk, i)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerArrayFirstValue:
			next, outcome := p.stepArrayFirstValue(chunk, i)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerArrayValue:
			p.stack.set(markerArrayValueSep)
			p.stack.push(markerValue)

		case markerArrayValueSep:
			next, outcome := p.stepArrayValueSep(chunk, i)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerFinish:
			i = skipWS(chunk, i)
			if i >= len(chunk) {
				return i, Success, nil
			}
			return i, ExtraByte, ErrExtraByte

		case markerNumberSignNeedDigit, markerNumberZero, markerNumberIntDigits,
			markerNumberFracNeedDigit, markerNumberFracDigits,
			markerNumberExpSign, markerNumberExpNeedDigit, markerNumberExpDigits:
			next, outcome := p.stepNumber(chunk, i, top)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerTrueR, markerTrueU, markerTrueE,
			markerFalseA, markerFalseL, markerFalseS, markerFalseE,
			markerNullU, markerNullL1, markerNullL2:
			next, outcome := p.stepLiteral(chunk, i, top)
			if outcome == stepNeedMore {
				return next, NeedMore, nil
			}
			if outcome == stepInvalid {
				return next, Invalid, newParseError(chunk, next)
			}
			i = next

		case markerStringInValue:
			next, outcome := p.scanString(chunk, i)
			switch outcome {
			case stepNeedMore:
				return next, NeedMore, nil
			case stepInvalid:
				return next, Invalid, newParseError(chunk, next)
			case stepDone:
				p.stack.pop()
				i = next
			}

		case markerStringInObjectName:
			next, outcome := p.scanString(chunk, i)
			switch outcome {
			case stepNeedMore:
				return next, NeedMore, nil
			case stepInvalid:
				return next, Invalid, newParseError(chunk, next)
			case stepDone:
				p.stack.set(markerObjectNameSep)
				i = next
			}

		default:
			panic("pushjson: unhandled marker in ParseChunk")
		}
	}
}

// stepValue dispatches on the next significant byte to decide what
// kind of value is starting, replacing the top-of-stack VALUE marker
// with whatever sub-state that value requires.
func (p *Parser) stepValue(chunk []byte, i int) (int, stepOutcome) {
	i = skipWS(chunk, i)
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	switch b := chunk[i]; {
	case b == '{':
		p.stack.set(markerObjectFirstName)
		return i + 1, stepContinue
	case b == '[':
		p.stack.set(markerArrayFirstValue)
		return i + 1, stepContinue
	case b == '"':
		p.stack.set(markerStringInValue)
		return i + 1, stepContinue
	case b == '-':
		p.stack.set(markerNumberSignNeedDigit)
		return i + 1, stepContinue
	case b == '0':
		p.stack.set(markerNumberZero)
		return i + 1, stepContinue
	case isDigit(b):
		p.stack.set(markerNumberIntDigits)
		return i + 1, stepContinue
	case b == 't':
		p.stack.set(markerTrueR)
		return i + 1, stepContinue
	case b == 'f':
		p.stack.set(markerFalseA)
		return i + 1, stepContinue
	case b == 'n':
		p.stack.set(markerNullU)
		return i + 1, stepContinue
	default:
		return i, stepInvalid
	}
}

// stepObjectOpenName handles both OBJECT_FIRST_NAME (allowEmpty true,
// '}' closes an empty object) and OBJECT_NAME (allowEmpty false, a
// name is mandatory after a comma).
func (p *Parser) stepObjectOpenName(chunk []byte, i int, allowEmpty bool) (int, stepOutcome) {
	i = skipWS(chunk, i)
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	switch chunk[i] {
	case '"':
		p.stack.set(markerStringInObjectName)
		return i + 1, stepContinue
	case '}':
		if allowEmpty {
			p.stack.pop()
			return i + 1, stepContinue
		}
		fallthrough
	default:
		return i, stepInvalid
	}
}

// stepSingleByte requires exactly the given delimiter, in effect after
// skipping whitespace, and transitions to next on a match.
func (p *Parser) stepSingleByte(chunk []byte, i int, want byte, next marker) (int, stepOutcome) {
	i = skipWS(chunk, i)
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	if chunk[i] != want {
		return i, stepInvalid
	}
	p.stack.set(next)
	return i + 1, stepContinue
}

func (p *Parser) stepObjectValueSep(chunk []byte, i int) (int, stepOutcome) {
	i = skipWS(chunk, i)
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	switch chunk[i] {
	case ',':
		p.stack.set(markerObjectName)
		return i + 1, stepContinue
	case '}':
		p.stack.pop()
		return i + 1, stepContinue
	default:
		return i, stepInvalid
	}
}

func (p *Parser) stepArrayFirstValue(chunk []byte, i int) (int, stepOutcome) {
	i = skipWS(chunk, i)
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	if chunk[i] == ']' {
		p.stack.pop()
		return i + 1, stepContinue
	}
	p.stack.set(markerArrayValue)
	return i, stepContinue
}

func (p *Parser) stepArrayValueSep(chunk []byte, i int) (int, stepOutcome) {
	i = skipWS(chunk, i)
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	switch chunk[i] {
	case ',':
		p.stack.set(markerArrayValue)
		return i + 1, stepContinue
	case ']':
		p.stack.pop()
		return i + 1, stepContinue
	default:
		return i, stepInvalid
	}
}

// stepLiteral matches the next byte against the single letter the
// given sub-state expects, advancing to the next letter's sub-state
// or, on the final letter, popping the completed literal value.
func (p *Parser) stepLiteral(chunk []byte, i int, top marker) (int, stepOutcome) {
	if i >= len(chunk) {
		return i, stepNeedMore
	}
	var want byte
	var next marker
	var last bool
	switch top {
	case markerTrueR:
		want, next = 'r', markerTrueU
	case markerTrueU:
		want, next = 'u', markerTrueE
	case markerTrueE:
		want, last = 'e', true
	case markerFalseA:
		want, next = 'a', markerFalseL
	case markerFalseL:
		want, next = 'l', markerFalseS
	case markerFalseS:
		want, next = 's', markerFalseE
	case markerFalseE:
		want, last = 'e', true
	case markerNullU:
		want, next = 'u', markerNullL1
	case markerNullL1:
		want, next = 'l', markerNullL2
	case markerNullL2:
		want, last = 'l', true
	}
	if chunk[i] != want {
		return i, stepInvalid
	}
	if last {
		p.stack.pop()
	} else {
		p.stack.set(next)
	}
	return i + 1, stepContinue
}

// stepNumber dispatches the digit-scanning sub-states of a number
// literal. None of the scanned digits are retained: this package only
// validates that a number is well-formed, per doc.go's scope.
func (p *Parser) stepNumber(chunk []byte, i int, top marker) (int, stepOutcome) {
	switch top {
	case markerNumberSignNeedDigit:
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		switch {
		case chunk[i] == '0':
			p.stack.set(markerNumberZero)
			return i + 1, stepContinue
		case isDigit(chunk[i]):
			p.stack.set(markerNumberIntDigits)
			return i + 1, stepContinue
		default:
			return i, stepInvalid
		}

	case markerNumberZero:
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		return p.numberAfterIntegerPart(chunk, i)

	case markerNumberIntDigits:
		for i < len(chunk) && isDigit(chunk[i]) {
			i++
		}
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		return p.numberAfterIntegerPart(chunk, i)

	case markerNumberFracNeedDigit:
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		if !isDigit(chunk[i]) {
			return i, stepInvalid
		}
		p.stack.set(markerNumberFracDigits)
		return i + 1, stepContinue

	case markerNumberFracDigits:
		for i < len(chunk) && isDigit(chunk[i]) {
			i++
		}
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		if chunk[i] == 'e' || chunk[i] == 'E' {
			p.stack.set(markerNumberExpSign)
			return i + 1, stepContinue
		}
		p.stack.pop()
		return i, stepContinue

	case markerNumberExpSign:
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		if chunk[i] == '+' || chunk[i] == '-' {
			p.stack.set(markerNumberExpNeedDigit)
			return i + 1, stepContinue
		}
		return p.stepNumber(chunk, i, markerNumberExpNeedDigit)

	case markerNumberExpNeedDigit:
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		if !isDigit(chunk[i]) {
			return i, stepInvalid
		}
		p.stack.set(markerNumberExpDigits)
		return i + 1, stepContinue

	case markerNumberExpDigits:
		for i < len(chunk) && isDigit(chunk[i]) {
			i++
		}
		if i >= len(chunk) {
			return i, stepNeedMore
		}
		p.stack.pop()
		return i, stepContinue

	default:
		panic("pushjson: stepNumber called with non-number marker")
	}
}

// numberAfterIntegerPart inspects the byte following a complete
// integer part (from either a lone '0' or a run of digits) to decide
// whether a fraction or exponent follows, or whether the number is
// already complete. The lookahead byte, when it's a terminator rather
// than '.'/'e'/'E', is left unconsumed for whatever production follows
// the number.
func (p *Parser) numberAfterIntegerPart(chunk []byte, i int) (int, stepOutcome) {
	switch chunk[i] {
	case '.':
		p.stack.set(markerNumberFracNeedDigit)
		return i + 1, stepContinue
	case 'e', 'E':
		p.stack.set(markerNumberExpSign)
		return i + 1, stepContinue
	default:
		p.stack.pop()
		return i, stepContinue
	}
}
