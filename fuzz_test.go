package pushjson

import "testing"

// FuzzParseChunk checks that ParseChunk never panics and never reports
// a consumed count outside the fed chunk's bounds, for arbitrary byte
// input fed as a single chunk.
func FuzzParseChunk(f *testing.F) {
	for _, seed := range []string{
		`{"a": 1, "b": [true, false, null]}`,
		`"escé\nape"`,
		`"😀"`,
		`[1, 2, 3.14e-10]`,
		`{`,
		`[`,
		`"`,
		`\`,
		`"\u`,
		`"\uD800`,
		`"𐀀"`,
		string([]byte{0xC0, 0x80}),
		string([]byte{0xFF}),
		string([]byte{0xE0, 0x80, 0x80}),
		``,
		`   `,
		`true garbage`,
		`{{{{{`,
		`]]]]]`,
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, doc string) {
		p := NewParser()
		chunk := []byte(doc)
		consumed, outcome, err := p.ParseChunk(chunk)

		if consumed < 0 || consumed > len(chunk) {
			t.Fatalf("consumed %d out of bounds for chunk of length %d", consumed, len(chunk))
		}
		switch outcome {
		case Success, NeedMore:
			if err != nil {
				t.Fatalf("outcome %v returned non-nil error: %v", outcome, err)
			}
		case Invalid, ExtraByte:
			if err == nil {
				t.Fatalf("outcome %v returned nil error", outcome)
			}
		default:
			t.Fatalf("unrecognized outcome %v", outcome)
		}
		if p.MemSize() < 0 {
			t.Fatalf("negative MemSize %d", p.MemSize())
		}
	})
}

// FuzzChunkSplitAssociativity checks that splitting arbitrary input at
// an arbitrary point yields the same outcome as feeding it whole,
// skipping inputs that don't resolve in a single feed (NeedMore is
// exempt: a split could legitimately still need more too, but it must
// never disagree on Success/Invalid/ExtraByte).
func FuzzChunkSplitAssociativity(f *testing.F) {
	f.Add(`{"a": 1, "b": [true, false, null], "c": "esc\\nape"}`, 10)
	f.Add(`"😀"`, 7)
	f.Add(`[1, 2, 3]`, 3)
	f.Add(`   42   `, 4)

	f.Fuzz(func(t *testing.T, doc string, splitAt int) {
		chunk := []byte(doc)
		if len(chunk) < 2 {
			t.Skip("need at least 2 bytes to split")
		}
		split := ((splitAt % (len(chunk) - 1)) + (len(chunk) - 1)) % (len(chunk) - 1)
		split++ // in [1, len(chunk)-1]

		whole := NewParser()
		_, wantOutcome, _ := whole.ParseChunk(chunk)
		if wantOutcome == NeedMore {
			t.Skip("whole-feed result is ambiguous (NeedMore); nothing to compare")
		}

		splitP := NewParser()
		_, firstOutcome, _ := splitP.ParseChunk(chunk[:split])
		var gotOutcome Outcome
		if firstOutcome == NeedMore || firstOutcome == Success {
			_, gotOutcome, _ = splitP.ParseChunk(chunk[split:])
		} else {
			gotOutcome = firstOutcome
		}

		if gotOutcome != wantOutcome {
			t.Fatalf("split at %d: whole=%v split=%v for %q", split, wantOutcome, gotOutcome, doc)
		}
	})
}
