package lat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/F3dosik/spnlc/spn"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func buildDefault(t *testing.T) *Table {
	t.Helper()

	table, err := Build(spn.DefaultSBox())
	require.NoError(t, err)

	return table
}

func TestBuildDefaultSBox(t *testing.T) {
	t.Parallel()

	table := buildDefault(t)

	// The empty sums always agree.
	require.Equal(t, Size, table.Count(0, 0))

	// Heys' round approximations: X1^X3^X4 = Y2 holds for 12 nibbles and
	// X2 = Y2^Y4 for 4.
	require.Equal(t, 12, table.Count(0xB, 0x4))
	require.Equal(t, 4, table.Count(0x4, 0x5))
	require.Equal(t, -4, table.Bias(0x4, 0x5))
	require.InDelta(t, 0.25, table.Deviation(0xB, 0x4), 1e-12)

	total := 0
	for a := range uint8(Size) {
		for b := range uint8(Size) {
			total += table.Count(a, b)
		}
	}
	require.Equal(t, Size*Size*Size/2, total)
}

func TestStrongest(t *testing.T) {
	t.Parallel()

	table := buildDefault(t)

	// Cells are ranked by |bias|, so the +6 cell X4 = Y2^Y3^Y4 sits next
	// to the -6 ones.
	require.Equal(t, []Entry{
		{In: 0x1, Out: 0x7, Count: 14},
		{In: 0x2, Out: 0xE, Count: 2},
		{In: 0x3, Out: 0x9, Count: 2},
		{In: 0x8, Out: 0xF, Count: 2},
	}, table.Strongest(4))

	require.Len(t, table.Strongest(1000), (Size-1)*(Size-1))
	require.Empty(t, table.Strongest(-1))
}

func TestBuildRejectsNonBijection(t *testing.T) {
	t.Parallel()

	sBox := spn.DefaultSBox()
	sBox[4] = sBox[5]

	_, err := Build(sBox)
	require.ErrorIs(t, err, spn.ErrInvalidMapping)
}

// TestTableProperties checks the invariants every bijective S-box's table
// has: the trivial row and column are balanced and each row satisfies
// Parseval's relation.
func TestTableProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		identity := make([]uint8, Size)
		for i := range identity {
			identity[i] = uint8(i)
		}
		perm := rapid.Permutation(identity).Draw(t, "sbox")

		var sBox spn.Box
		copy(sBox[:], perm)

		table, err := Build(sBox)
		require.NoError(t, err)
		require.Equal(t, Size, table.Count(0, 0))

		for m := uint8(1); m < Size; m++ {
			require.Equal(t, half, table.Count(m, 0))
			require.Equal(t, half, table.Count(0, m))
		}

		for a := range uint8(Size) {
			sum := 0
			for b := range uint8(Size) {
				w := 2 * table.Bias(a, b)
				sum += w * w
				require.GreaterOrEqual(t, table.Count(a, b), 0)
				require.LessOrEqual(t, table.Count(a, b), Size)
			}
			require.Equal(t, Size*Size, sum)
		}
	})
}

func TestPilingUp(t *testing.T) {
	t.Parallel()

	// The four S-boxes of the three round trail.
	require.InDelta(t, -1.0/32, PilingUp(0.25, -0.25, -0.25, -0.25), 1e-12)
	require.InDelta(t, 0.25, PilingUp(0.25), 1e-12)
	require.Zero(t, PilingUp())
}

func TestRender(t *testing.T) {
	t.Parallel()

	table := buildDefault(t)

	var buf bytes.Buffer
	table.Render(&buf)
	out := buf.String()

	// Headers are upper-cased by the table style.
	require.Contains(t, strings.ToLower(out), "in\\out")
	require.Contains(t, out, "-6")

	buf.Reset()
	table.RenderStrongest(&buf, 2)
	out = buf.String()

	require.Contains(t, out, "0001")
	require.Contains(t, out, "0111")
	require.Contains(t, out, "-0.3750")
	require.NotContains(t, out, "1000")
}
