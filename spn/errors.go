package spn

import "errors"

var (
	// ErrInvalidMapping is returned when an S-box or P-box is not a total
	// bijection over its domain.
	ErrInvalidMapping = errors.New("mapping is not a bijection")

	// ErrInvalidBlockSize is returned when a value presented as a block
	// does not fit into 16 bits.
	ErrInvalidBlockSize = errors.New("value exceeds the 16-bit block")

	// ErrMalformedKeyMaterial is returned when master key material is not
	// exactly 20 hexadecimal digits.
	ErrMalformedKeyMaterial = errors.New("malformed key material")
)
