// Package corpus generates known plaintext/ciphertext samples and stores
// them one hex pair per line, "pppp, cccc".
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/F3dosik/spnlc/spn"
)

// DefaultSamples is the number of pairs generated when none is asked for.
const DefaultSamples = 10000

// ErrMalformedPair is returned for a line that is not two comma separated
// hex blocks.
var ErrMalformedPair = errors.New("malformed plaintext/ciphertext pair")

// Generate encrypts the plaintexts 0..n-1 (modulo 2^16) with oracle.
func Generate(oracle func(uint16) uint16, n int) []spn.Pair {
	pairs := make([]spn.Pair, n)
	for i := range pairs {
		pt := uint16(i)
		pairs[i] = spn.Pair{
			Plaintext:  pt,
			Ciphertext: oracle(pt),
		}
	}
	return pairs
}

// Write stores pairs in the line format.
func Write(w io.Writer, pairs []spn.Pair) error {
	bw := bufio.NewWriter(w)
	for _, p := range pairs {
		_, err := fmt.Fprintf(bw, "%04x, %04x\n", p.Plaintext,
			p.Ciphertext)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Read parses pairs in the line format. Blank lines are skipped.
func Read(r io.Reader) ([]spn.Pair, error) {
	var (
		pairs []spn.Pair
		line  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		pt, ct, ok := strings.Cut(text, ",")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: missing comma",
				ErrMalformedPair, line)
		}

		plaintext, err := spn.ParseBlock(strings.TrimSpace(pt))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w",
				ErrMalformedPair, line, err)
		}
		ciphertext, err := spn.ParseBlock(strings.TrimSpace(ct))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w",
				ErrMalformedPair, line, err)
		}

		pairs = append(pairs, spn.Pair{
			Plaintext:  plaintext,
			Ciphertext: ciphertext,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return pairs, nil
}

// FileName returns the conventional location of the corpus for a key:
// <dir>/<material>.dat.
func FileName(dir, material string) string {
	return filepath.Join(dir, material+".dat")
}

// WriteFile writes pairs to path, creating its directory if needed.
func WriteFile(path string, pairs []spn.Pair) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, pairs); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Infof("Wrote %d pairs to %s", len(pairs), path)

	return nil
}

// ReadFile reads the pairs stored at path.
func ReadFile(path string) ([]spn.Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pairs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("Read %d pairs from %s", len(pairs), path)

	return pairs, nil
}
