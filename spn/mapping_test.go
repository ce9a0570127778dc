package spn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	dupSBox := DefaultSBox()
	dupSBox[3] = dupSBox[7]

	outOfRange := DefaultPBox()
	outOfRange[15] = 16

	tests := []struct {
		name    string
		mapping []uint8
		domain  int
		valid   bool
	}{
		{
			name:    "default s-box",
			mapping: sliceOf(DefaultSBox()),
			domain:  BoxSize,
			valid:   true,
		},
		{
			name:    "default p-box",
			mapping: sliceOf(DefaultPBox()),
			domain:  BlockSize,
			valid:   true,
		},
		{
			name:    "duplicated output",
			mapping: sliceOf(dupSBox),
			domain:  BoxSize,
		},
		{
			name:    "image outside domain",
			mapping: sliceOf(outOfRange),
			domain:  BlockSize,
		},
		{
			name:    "missing input",
			mapping: sliceOf(DefaultSBox())[:15],
			domain:  BoxSize,
		},
		{
			name:    "zero domain",
			mapping: nil,
			domain:  0,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Validate(test.mapping, test.domain)
			if test.valid {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidMapping)
		})
	}
}

func TestDefaultSBoxInverse(t *testing.T) {
	t.Parallel()

	sBox := DefaultSBox()
	inv := Invert(sBox)

	for v := range BoxSize {
		require.Equal(t, uint8(v), inv[sBox[v]])
		require.Equal(t, uint8(v), sBox[inv[v]])
	}

	// The inverse printed alongside the original tables.
	require.Equal(t, Box{
		0xE, 0x3, 0x4, 0x8,
		0x1, 0xC, 0xA, 0xF,
		0x7, 0xD, 0x9, 0x6,
		0xB, 0x2, 0x0, 0x5,
	}, inv)
}

func TestDefaultPBoxIsBijection(t *testing.T) {
	t.Parallel()

	pBox := DefaultPBox()

	var seen [BlockSize]int
	for _, v := range pBox {
		seen[v]++
	}
	for pos, n := range seen {
		require.Equalf(t, 1, n, "bit position %d", pos)
	}

	// Heys' wiring is its own inverse.
	require.Equal(t, pBox, Invert(pBox))
}

func TestInvertProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		box := drawBox(t, "box")
		require.NoError(t, checkInverse(box, Invert(box)))
		require.Equal(t, box, Invert(Invert(box)))
	})
}

func sliceOf(b Box) []uint8 {
	return append([]uint8(nil), b[:]...)
}

// drawBox draws a random bijection over the 16 element domain.
func drawBox(t *rapid.T, label string) Box {
	identity := make([]uint8, BoxSize)
	for i := range identity {
		identity[i] = uint8(i)
	}

	perm := rapid.Permutation(identity).Draw(t, label)

	var box Box
	copy(box[:], perm)
	return box
}
