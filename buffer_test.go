package pushjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeBufferWriteBytes(t *testing.T) {
	b := newDecodeBuffer()
	b.writeBytes([]byte("hello"))
	b.writeByte(' ')
	b.writeBytes([]byte("world"))
	if diff := cmp.Diff([]byte("hello world"), b.bytes()); diff != "" {
		t.Errorf("buffer contents mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBufferWriteCodepoint(t *testing.T) {
	for _, test := range []struct {
		name string
		cp   rune
		want []byte
	}{
		{"ascii", 'A', []byte{0x41}},
		{"two byte", 0x00A9, []byte{0xC2, 0xA9}},       // ©
		{"three byte", 0x262F, []byte{0xE2, 0x98, 0xAF}}, // ☯
		{"supplementary", 0x1F600, []byte{0xF0, 0x9F, 0x98, 0x80}},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := newDecodeBuffer()
			b.writeCodepoint(test.cp)
			if diff := cmp.Diff(test.want, b.bytes()); diff != "" {
				t.Errorf("codepoint encoding mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestStringScanAppendsZeroTerminator checks that completing a string
// literal through the parser always appends a trailing zero byte to
// the decode buffer, satisfying host bindings that expect a
// C-style terminated string.
func TestStringScanAppendsZeroTerminator(t *testing.T) {
	p := NewParser()
	_, outcome, err := p.ParseChunk([]byte(`"hi"`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != Success {
		t.Fatalf("outcome = %v, want Success", outcome)
	}
	got := p.buf.bytes()
	want := []byte{'h', 'i', 0x00}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buffer contents mismatch (-want +got):\n%s", diff)
	}
}

// TestStringScanZeroTerminatorAfterSurrogatePairSplit mirrors the
// surrogate-pair-split scenario's documented buffer contents: the
// 4-byte UTF-8 encoding of U+1F600 followed by a zero terminator.
func TestStringScanZeroTerminatorAfterSurrogatePairSplit(t *testing.T) {
	p := NewParser()
	_, outcome, err := p.ParseChunk([]byte(`"\uD83D`))
	if err != nil {
		t.Fatalf("unexpected error on first piece: %v", err)
	}
	if outcome != NeedMore {
		t.Fatalf("outcome after first piece = %v, want NeedMore", outcome)
	}
	_, outcome, err = p.ParseChunk([]byte(`\uDE00"`))
	if err != nil {
		t.Fatalf("unexpected error on second piece: %v", err)
	}
	if outcome != Success {
		t.Fatalf("outcome = %v, want Success", outcome)
	}
	got := p.buf.bytes()
	want := []byte{0xF0, 0x9F, 0x98, 0x80, 0x00}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("buffer contents mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBufferClearKeepsCapacity(t *testing.T) {
	b := newDecodeBuffer()
	b.writeBytes(make([]byte, initialBufferCapacity*2))
	capBefore := b.memSize()
	b.clear()
	if len(b.bytes()) != 0 {
		t.Errorf("expected empty buffer after clear, got length %d", len(b.bytes()))
	}
	if b.memSize() != capBefore {
		t.Errorf("clear should not release capacity: before=%d after=%d", capBefore, b.memSize())
	}
}
