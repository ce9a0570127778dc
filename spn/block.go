package spn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Pair is a known plaintext and the ciphertext it encrypts to.
type Pair struct {
	Plaintext  uint16
	Ciphertext uint16
}

// CheckBlock narrows v to a block, failing if any bit above the 16th is set.
func CheckBlock(v uint64) (uint16, error) {
	if v>>BlockSize != 0 {
		return 0, fmt.Errorf("%w: %#x", ErrInvalidBlockSize, v)
	}
	return uint16(v), nil
}

// ParseBlock parses a hex block with an optional 0x prefix.
func ParseBlock(s string) (uint16, error) {
	digits := s
	if len(digits) > 2 && strings.EqualFold(digits[:2], "0x") {
		digits = digits[2:]
	}

	v, err := strconv.ParseUint(digits, 16, 64)
	switch {
	case errors.Is(err, strconv.ErrRange):
		return 0, fmt.Errorf("%w: %q", ErrInvalidBlockSize, s)

	case err != nil:
		return 0, fmt.Errorf("invalid block %q: %w", s, err)
	}

	return CheckBlock(v)
}
