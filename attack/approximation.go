package attack

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrUnsupportedApproximation is returned for approximations whose output
// mask does not involve exactly two last round S-boxes.
var ErrUnsupportedApproximation = errors.New("approximation must touch " +
	"exactly two last round s-boxes")

// Approximation is a linear approximation of the first three rounds:
//
//	parity(P & PlaintextMask) ^ parity(U4 & OutputMask) = 0
//
// where U4 is the input of the last round S-boxes. It is derived offline
// from the LAT with the piling-up lemma and never re-derived here.
type Approximation struct {
	// PlaintextMask selects the plaintext bits.
	PlaintextMask uint16

	// OutputMask selects the bits of U4.
	OutputMask uint16

	// Bias is the expected deviation of the approximation's probability
	// from one half. It only informs reporting.
	Bias float64
}

// DefaultApproximation returns
//
//	U4,6 ^ U4,8 ^ U4,14 ^ U4,16 ^ P5 ^ P7 ^ P8 = 0
//
// in Heys' big endian bit numbering, which holds with probability 15/32
// for Heys' S-box and P-box.
func DefaultApproximation() Approximation {
	return Approximation{
		PlaintextMask: 0x0B00,
		OutputMask:    0x0505,
		Bias:          -1.0 / 32,
	}
}

// targets returns the bit offsets of the high and low active nibbles.
func (a Approximation) targets() (hi, lo uint, err error) {
	var active []uint
	for nibble := 3; nibble >= 0; nibble-- {
		if a.OutputMask>>(4*nibble)&0xF != 0 {
			active = append(active, uint(4*nibble))
		}
	}

	if len(active) != 2 {
		return 0, 0, fmt.Errorf("%w: output mask %04x touches %d",
			ErrUnsupportedApproximation, a.OutputMask, len(active))
	}

	return active[0], active[1], nil
}

// TargetMask returns the bits of the last round key the approximation lets
// an attack recover.
func (a Approximation) TargetMask() (uint16, error) {
	hi, lo, err := a.targets()
	if err != nil {
		return 0, err
	}
	return 0xF<<hi | 0xF<<lo, nil
}

// String renders the approximation in Heys' notation.
func (a Approximation) String() string {
	var s string
	for _, term := range []struct {
		name string
		mask uint16
	}{
		{"U4,", a.OutputMask},
		{"P", a.PlaintextMask},
	} {
		for bit := 15; bit >= 0; bit-- {
			if term.mask>>bit&1 == 0 {
				continue
			}
			if s != "" {
				s += " ^ "
			}
			// Heys numbers bits 1..16 starting at the most
			// significant one.
			s += fmt.Sprintf("%s%d", term.name, 16-bit)
		}
	}
	return s + " = 0"
}

func parity16(v uint16) uint8 {
	return uint8(bits.OnesCount16(v) & 1)
}
