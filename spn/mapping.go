package spn

import "fmt"

// BoxSize is the domain size of both the 4-bit S-box and the 16 position
// bit permutation.
const BoxSize = 16

// Box is either a nibble substitution table or a bit wiring. Index is the
// input nibble (or bit position), value the output.
type Box [BoxSize]uint8

// DefaultSBox returns the S-box of Heys' tutorial cipher.
func DefaultSBox() Box {
	return Box{
		0xE, 0x4, 0xD, 0x1,
		0x2, 0xF, 0xB, 0x8,
		0x3, 0xA, 0x6, 0xC,
		0x5, 0x9, 0x0, 0x7,
	}
}

// DefaultPBox returns the transposition wiring output i of S-box j to input
// j of S-box i.
func DefaultPBox() Box {
	return Box{
		0x0, 0x4, 0x8, 0xC,
		0x1, 0x5, 0x9, 0xD,
		0x2, 0x6, 0xA, 0xE,
		0x3, 0x7, 0xB, 0xF,
	}
}

// Validate checks that mapping is a total bijection over [0, domainSize):
// every input has exactly one image and every value in the domain is the
// image of exactly one input.
func Validate(mapping []uint8, domainSize int) error {
	if domainSize <= 0 || domainSize > 256 {
		return fmt.Errorf("%w: unsupported domain size %d",
			ErrInvalidMapping, domainSize)
	}
	if len(mapping) != domainSize {
		return fmt.Errorf("%w: %d entries for a domain of %d",
			ErrInvalidMapping, len(mapping), domainSize)
	}

	seen := make([]bool, domainSize)
	for x, y := range mapping {
		if int(y) >= domainSize {
			return fmt.Errorf("%w: %d maps to %d outside the domain",
				ErrInvalidMapping, x, y)
		}
		if seen[y] {
			return fmt.Errorf("%w: %d is the image of more than one "+
				"input", ErrInvalidMapping, y)
		}
		seen[y] = true
	}

	return nil
}

// Invert returns the set-inverse of b. The result is only meaningful if b
// passed Validate.
func Invert(b Box) Box {
	var inv Box
	for x, y := range b {
		inv[y] = uint8(x)
	}
	return inv
}

// checkInverse verifies that inv undoes b in both directions.
func checkInverse(b, inv Box) error {
	for x := range BoxSize {
		if inv[b[x]] != uint8(x) {
			return fmt.Errorf("%w: inverse maps %d to %d, want %d",
				ErrInvalidMapping, b[x], inv[b[x]], x)
		}
	}
	return nil
}
