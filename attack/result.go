package attack

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// ErrRecoveryAmbiguous annotates a result whose maximal deviation is shared
// by several candidates. The result still carries the lowest of them.
var ErrRecoveryAmbiguous = errors.New("maximal deviation is not unique")

// Score is one candidate's standing after an attack.
type Score struct {
	Candidate uint8
	Count     int
	Deviation float64
}

// Result is the outcome of one attack run.
type Result struct {
	// Candidate is the recovered partial subkey: the high nibble belongs
	// to the higher target S-box.
	Candidate uint8

	// Counts holds, per candidate, the number of samples for which the
	// approximation held.
	Counts [NumCandidates]int

	// Samples is the number of pairs analyzed.
	Samples int

	// Deviation is |Counts[Candidate] - Samples/2|.
	Deviation float64

	// Bias is Deviation / Samples, an estimate of the magnitude of the
	// approximation's bias.
	Bias float64

	// Ties lists, in ascending order, every candidate that reached the
	// maximal deviation. Candidate is always the first.
	Ties []uint8

	hiShift uint
	loShift uint
}

func newResult(counts [NumCandidates]int, samples int,
	hiShift, loShift uint) *Result {

	r := &Result{
		Counts:  counts,
		Samples: samples,
		hiShift: hiShift,
		loShift: loShift,
	}

	// Compare |2c - N| to stay in integers.
	best := -1
	for c, n := range counts {
		d := absInt(2*n - samples)
		switch {
		case d > best:
			best = d
			r.Ties = append(r.Ties[:0], uint8(c))

		case d == best:
			r.Ties = append(r.Ties, uint8(c))
		}
	}

	r.Candidate = r.Ties[0]
	r.Deviation = float64(best) / 2
	r.Bias = r.Deviation / float64(samples)

	return r
}

// Ambiguous reports whether the maximal deviation was reached by more than
// one candidate.
func (r *Result) Ambiguous() bool {
	return len(r.Ties) > 1
}

// Err returns ErrRecoveryAmbiguous if the result is ambiguous. It is an
// annotation: the result stays usable.
func (r *Result) Err() error {
	if !r.Ambiguous() {
		return nil
	}
	return fmt.Errorf("%w: %d candidates deviate by %.1f",
		ErrRecoveryAmbiguous, len(r.Ties), r.Deviation)
}

// PartialKey places the recovered nibbles at their positions in the last
// round key.
func (r *Result) PartialKey() uint16 {
	return uint16(r.Candidate>>4)<<r.hiShift |
		uint16(r.Candidate&0xF)<<r.loShift
}

// TargetMask returns the bits of the last round key covered by
// PartialKey.
func (r *Result) TargetMask() uint16 {
	return 0xF<<r.hiShift | 0xF<<r.loShift
}

// Matches reports whether the recovered bits agree with lastRoundKey.
func (r *Result) Matches(lastRoundKey uint16) bool {
	return lastRoundKey&r.TargetMask() == r.PartialKey()
}

// Ranked returns the k candidates with the largest deviation, ties broken
// by the lower candidate.
func (r *Result) Ranked(k int) []Score {
	scores := make([]Score, NumCandidates)
	for c, n := range r.Counts {
		scores[c] = Score{
			Candidate: uint8(c),
			Count:     n,
			Deviation: float64(absInt(2*n-r.Samples)) / 2,
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Deviation > scores[j].Deviation
	})

	k = max(0, min(k, len(scores)))
	return scores[:k]
}

// Render writes the top k candidates as a table.
func (r *Result) Render(w io.Writer, k int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"rank", "candidate", "partial key", "count",
		"bias"})

	for i, s := range r.Ranked(k) {
		key := uint16(s.Candidate>>4)<<r.hiShift |
			uint16(s.Candidate&0xF)<<r.loShift

		tw.AppendRow(table.Row{
			i + 1,
			fmt.Sprintf("%02x", s.Candidate),
			fmt.Sprintf("%04x", key),
			s.Count,
			fmt.Sprintf("%.4f", s.Deviation/float64(r.Samples)),
		})
	}

	tw.Render()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
