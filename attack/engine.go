// Package attack recovers eight bits of the last round key of the SPN with
// Matsui's linear cryptanalysis, given known plaintext/ciphertext pairs and
// a fixed three round linear approximation.
package attack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/F3dosik/spnlc/spn"
	"golang.org/x/sync/errgroup"
)

// NumCandidates is the number of partial subkey values tried: two nibbles.
const NumCandidates = 256

var (
	// ErrNoOracle is returned by Run when no oracle was configured.
	ErrNoOracle = errors.New("no encryption oracle")

	// ErrNoSamples is returned when an attack is asked to work on zero
	// plaintext/ciphertext pairs.
	ErrNoSamples = errors.New("no samples")
)

// Oracle encrypts a plaintext under a key the attack never sees.
type Oracle func(plaintext uint16) uint16

// Config holds the inputs of an attack run.
type Config struct {
	// Oracle produces ciphertexts for Run. It is called from a single
	// goroutine.
	Oracle Oracle

	// SBoxInverse is used to step back through the last round S-boxes.
	SBoxInverse spn.Box

	// Approximation is the fixed linear approximation being exploited.
	Approximation Approximation

	// Samples is the number of pairs Run collects from the oracle.
	Samples int

	// Plaintext picks the i'th plaintext. Nil means plaintext i, taken
	// modulo 2^16.
	Plaintext func(i int) uint16

	// Workers bounds the goroutines used for counting. Zero means
	// GOMAXPROCS.
	Workers int
}

// Engine runs the partial subkey recovery.
type Engine struct {
	cfg Config

	hiShift uint
	loShift uint
}

// New validates cfg and returns an Engine.
func New(cfg Config) (*Engine, error) {
	if err := spn.Validate(cfg.SBoxInverse[:], spn.BoxSize); err != nil {
		return nil, fmt.Errorf("inverse s-box: %w", err)
	}

	hi, lo, err := cfg.Approximation.targets()
	if err != nil {
		return nil, err
	}

	if cfg.Samples < 0 {
		return nil, fmt.Errorf("negative sample count %d", cfg.Samples)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Plaintext == nil {
		cfg.Plaintext = func(i int) uint16 {
			return uint16(i)
		}
	}

	return &Engine{
		cfg:     cfg,
		hiShift: hi,
		loShift: lo,
	}, nil
}

// Collect asks the oracle for the configured number of samples.
func (e *Engine) Collect(ctx context.Context) ([]spn.Pair, error) {
	if e.cfg.Oracle == nil {
		return nil, ErrNoOracle
	}

	pairs := make([]spn.Pair, e.cfg.Samples)
	for i := range pairs {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		pt := e.cfg.Plaintext(i)
		pairs[i] = spn.Pair{
			Plaintext:  pt,
			Ciphertext: e.cfg.Oracle(pt),
		}
	}

	return pairs, nil
}

// Run collects samples from the oracle and analyzes them.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	pairs, err := e.Collect(ctx)
	if err != nil {
		return nil, err
	}

	return e.Analyze(ctx, pairs)
}

// histogram counts samples by the two target ciphertext nibbles and the
// parity of the plaintext bits. Every candidate's counter only depends on
// these, so counting over the histogram gives the same result as counting
// over the samples.
type histogram [16][16][2]int

// Analyze scores all 256 candidates against pairs and picks the one whose
// counter deviates most from half the sample count.
func (e *Engine) Analyze(ctx context.Context, pairs []spn.Pair) (*Result,
	error) {

	if len(pairs) == 0 {
		return nil, ErrNoSamples
	}

	hist, err := e.tally(ctx, pairs)
	if err != nil {
		return nil, err
	}

	counts, err := e.score(ctx, hist)
	if err != nil {
		return nil, err
	}

	res := newResult(counts, len(pairs), e.hiShift, e.loShift)

	attrs := []any{
		slog.Int("samples", res.Samples),
		slog.String("candidate", fmt.Sprintf("%02x", res.Candidate)),
		slog.String("partial_key", fmt.Sprintf("%04x",
			res.PartialKey())),
		slog.Float64("bias", res.Bias),
	}
	if err := res.Err(); err != nil {
		log.WarnS(ctx, "Partial subkey recovery is ambiguous", err,
			append(attrs, slog.Int("ties", len(res.Ties)))...)
	} else {
		log.InfoS(ctx, "Partial subkey recovered", attrs...)
	}

	return res, nil
}

// tally builds the histogram from private per-worker partial sums.
func (e *Engine) tally(ctx context.Context, pairs []spn.Pair) (*histogram,
	error) {

	chunks := e.cfg.Workers
	if chunks > len(pairs) {
		chunks = len(pairs)
	}
	partial := make([]histogram, chunks)
	size := (len(pairs) + chunks - 1) / chunks

	eg, ctx := errgroup.WithContext(ctx)
	for w := range chunks {
		start := w * size
		end := min(start+size, len(pairs))

		eg.Go(func() error {
			h := &partial[w]
			for _, p := range pairs[start:end] {
				hi := p.Ciphertext >> e.hiShift & 0xF
				lo := p.Ciphertext >> e.loShift & 0xF
				par := parity16(
					p.Plaintext & e.cfg.Approximation.PlaintextMask,
				)
				h[hi][lo][par]++
			}
			return ctx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var hist histogram
	for _, h := range partial {
		for hi := range h {
			for lo := range h[hi] {
				hist[hi][lo][0] += h[hi][lo][0]
				hist[hi][lo][1] += h[hi][lo][1]
			}
		}
	}

	return &hist, nil
}

// score fills one counter per candidate. Each candidate's counter is written
// by exactly one goroutine.
func (e *Engine) score(ctx context.Context, hist *histogram) (
	[NumCandidates]int, error) {

	var counts [NumCandidates]int

	inv := e.cfg.SBoxInverse
	outMask := e.cfg.Approximation.OutputMask

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.Workers)

	for c := range NumCandidates {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			kHi, kLo := uint8(c>>4), uint8(c&0xF)

			n := 0
			for hi := range uint8(16) {
				uHi := uint16(inv[hi^kHi]) << e.hiShift
				for lo := range uint8(16) {
					u := uHi | uint16(inv[lo^kLo])<<e.loShift

					// The approximation holds when both
					// parities agree.
					par := parity16(u & outMask)
					n += hist[hi][lo][par]
				}
			}
			counts[c] = n

			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return counts, err
	}

	return counts, nil
}
