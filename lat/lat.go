// Package lat builds the linear approximation table of a 4-bit S-box.
//
// Masks are read with bit 0 as the least significant input (or output) bit,
// so mask 0x1 selects X4 and 0x8 selects X1 in Heys' numbering.
package lat

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"sort"

	"github.com/F3dosik/spnlc/spn"
)

const (
	// Size is the number of linear combinations of four bits, and also the
	// number of nibble values each cell is counted over.
	Size = spn.BoxSize

	half = Size / 2
)

// Table holds, for every input mask a and output mask b, the number of
// nibbles x for which the parity of x&a equals the parity of S(x)&b.
type Table [Size][Size]int

// Entry is one cell of the table.
type Entry struct {
	In    uint8
	Out   uint8
	Count int
}

// Bias returns Count-8.
func (e Entry) Bias() int {
	return e.Count - half
}

// Build enumerates all 16x16 input/output mask pairs over all 16 nibbles.
func Build(sBox spn.Box) (*Table, error) {
	if err := spn.Validate(sBox[:], spn.BoxSize); err != nil {
		return nil, fmt.Errorf("s-box: %w", err)
	}

	var t Table
	for a := range uint8(Size) {
		for b := range uint8(Size) {
			for x := range uint8(Size) {
				if parity(x&a) == parity(sBox[x]&b) {
					t[a][b]++
				}
			}
		}
	}

	strongest := t.Strongest(1)[0]
	log.DebugS(context.Background(), "Linear approximation table built",
		slog.String("sbox", fmt.Sprintf("%x", sBox[:])),
		slog.String("strongest", fmt.Sprintf("%X->%X", strongest.In,
			strongest.Out)),
		slog.Int("bias", strongest.Bias()))

	return &t, nil
}

// Count returns how many of the 16 nibbles satisfy the approximation.
func (t *Table) Count(in, out uint8) int {
	return t[in&0xF][out&0xF]
}

// Bias returns the signed bias Count-8, in [-8, 8].
func (t *Table) Bias(in, out uint8) int {
	return t.Count(in, out) - half
}

// Deviation returns the deviation of the approximation's probability from
// one half, Bias/16.
func (t *Table) Deviation(in, out uint8) float64 {
	return float64(t.Bias(in, out)) / Size
}

// Strongest returns up to n cells with both masks non-zero, ordered by
// decreasing absolute bias and then by input and output mask.
func (t *Table) Strongest(n int) []Entry {
	entries := make([]Entry, 0, (Size-1)*(Size-1))
	for a := uint8(1); a < Size; a++ {
		for b := uint8(1); b < Size; b++ {
			entries = append(entries, Entry{
				In:    a,
				Out:   b,
				Count: t[a][b],
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return absInt(entries[i].Bias()) > absInt(entries[j].Bias())
	})

	if n > len(entries) {
		n = len(entries)
	}
	if n < 0 {
		n = 0
	}
	return entries[:n]
}

// PilingUp combines the deviations of independent approximations with
// Matsui's piling-up lemma: 2^(n-1) times their product.
func PilingUp(deviations ...float64) float64 {
	if len(deviations) == 0 {
		return 0
	}

	prod := 1.0
	for _, e := range deviations {
		prod *= e
	}
	return math.Ldexp(prod, len(deviations)-1)
}

func parity(v uint8) uint8 {
	return uint8(bits.OnesCount8(v) & 1)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
