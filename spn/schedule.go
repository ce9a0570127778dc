package spn

import (
	"fmt"
	"strconv"
)

const (
	// KeyMaterialLen is the number of hex digits in master key material.
	KeyMaterialLen = 20

	roundKeyDigits = 4
)

// Schedule holds the five independent 16-bit round keys K1..K5.
type Schedule [NumRounds + 1]uint16

// DeriveRoundKeys splits 20 hex digits of master key material into five
// consecutive 4 digit round keys.
func DeriveRoundKeys(material string) (Schedule, error) {
	var keys Schedule

	if len(material) != KeyMaterialLen {
		return keys, fmt.Errorf("%w: got %d characters, want %d",
			ErrMalformedKeyMaterial, len(material), KeyMaterialLen)
	}

	for i := range keys {
		slice := material[i*roundKeyDigits : (i+1)*roundKeyDigits]
		k, err := strconv.ParseUint(slice, 16, BlockSize)
		if err != nil {
			return Schedule{}, fmt.Errorf("%w: round key %d %q is "+
				"not hexadecimal", ErrMalformedKeyMaterial, i+1,
				slice)
		}
		keys[i] = uint16(k)
	}

	return keys, nil
}

// Last returns K5, the key mixed in after the final substitution.
func (s Schedule) Last() uint16 {
	return s[NumRounds]
}

// String renders the schedule back into its 20 hex digit key material.
func (s Schedule) String() string {
	return fmt.Sprintf("%04x%04x%04x%04x%04x", s[0], s[1], s[2], s[3], s[4])
}
