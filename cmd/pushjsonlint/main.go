// Command pushjsonlint validates a JSON document fed to pushjson.Parser
// in caller-chosen chunk sizes, to exercise the streaming parser the
// way a real network reader would feed it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mcvoid/pushjson"
	"github.com/pkg/errors"
)

var chunkSize = flag.Int("chunk-size", 4096, "bytes read per Read call, simulating network fragmentation")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: pushjsonlint [-chunk-size n] [file]\n")
	flag.PrintDefaults()
}

func main() {
	if err := mainE(); err != nil {
		fmt.Fprintf(os.Stderr, "pushjsonlint: %v\n", err)
		os.Exit(1)
	}
}

func mainE() error {
	flag.Usage = usage
	flag.Parse()

	if *chunkSize <= 0 {
		return fmt.Errorf("-chunk-size must be positive, got %d", *chunkSize)
	}

	args := flag.Args()
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "opening %s", args[0])
		}
		defer f.Close()
		in = f
	} else if len(args) > 1 {
		return fmt.Errorf("at most one file argument expected, got %d", len(args))
	}

	outcome, lintErr, ioErr := lint(in, *chunkSize)
	if ioErr != nil {
		return errors.Wrap(ioErr, "reading input")
	}

	switch outcome {
	case pushjson.Success:
		fmt.Println("valid")
	case pushjson.NeedMore:
		fmt.Println("incomplete")
		os.Exit(1)
	case pushjson.Invalid, pushjson.ExtraByte:
		fmt.Println(lintErr)
		os.Exit(1)
	}
	return nil
}

// lint feeds r to a Parser in chunkSize pieces until the document is
// rejected or the reader is exhausted; a Success outcome keeps reading,
// so that bytes after a complete document are still reported as
// ExtraByte. On Invalid or ExtraByte, lintErr is the parser's error (a
// *ParseError for Invalid, ErrExtraByte for ExtraByte) wrapped with
// github.com/pkg/errors, carrying a stack trace
// (available via "%+v") to help debug a misbehaving input source; this
// is the one place in the module where that cost is worth paying, since
// it runs once per document rather than once per byte.
func lint(r io.Reader, chunkSize int) (outcome pushjson.Outcome, lintErr error, ioErr error) {
	p := pushjson.NewParser()
	buf := make([]byte, chunkSize)
	total := 0

	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			consumed, o, parseErr := p.ParseChunk(buf[:n])
			outcome = o
			switch o {
			case pushjson.Invalid:
				return o, errors.Wrap(parseErr, "invalid document"), nil
			case pushjson.ExtraByte:
				return o, errors.Wrapf(parseErr, "trailing bytes after complete document at offset %d", total+consumed), nil
			}
			total += consumed
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return outcome, nil, readErr
		}
	}

	return outcome, nil, nil
}
