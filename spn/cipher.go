package spn

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// BlockSize is the cipher block size in bits.
	BlockSize = 16

	// NumRounds is the number of substitution rounds. The last round has
	// no permutation and is followed by an extra key mixing.
	NumRounds = 4
)

// Cipher is the 16-bit, 4-round SPN. Its tables are validated once at
// construction and never change afterwards, so a Cipher is safe for
// concurrent use as long as its TraceFunc is.
type Cipher struct {
	sBox    Box
	sBoxInv Box
	pBox    Box
	pBoxInv Box

	trace TraceFunc
}

// Option configures optional Cipher behaviour.
type Option func(*Cipher)

// WithTrace installs a sink that observes the state after every key mixing,
// substitution and permutation step.
func WithTrace(fn TraceFunc) Option {
	return func(c *Cipher) {
		c.trace = fn
	}
}

// New builds a Cipher from an S-box and a P-box, deriving both inverses.
func New(sBox, pBox Box, opts ...Option) (*Cipher, error) {
	if err := Validate(sBox[:], BoxSize); err != nil {
		return nil, fmt.Errorf("s-box: %w", err)
	}

	return NewWithInverse(sBox, Invert(sBox), pBox, opts...)
}

// NewWithInverse builds a Cipher from an S-box, its supplied inverse and a
// P-box. The inverse must be the exact set-inverse of sBox.
func NewWithInverse(sBox, sBoxInv, pBox Box, opts ...Option) (*Cipher,
	error) {

	if err := Validate(sBox[:], BoxSize); err != nil {
		return nil, fmt.Errorf("s-box: %w", err)
	}
	if err := Validate(sBoxInv[:], BoxSize); err != nil {
		return nil, fmt.Errorf("inverse s-box: %w", err)
	}
	if err := checkInverse(sBox, sBoxInv); err != nil {
		return nil, fmt.Errorf("inverse s-box: %w", err)
	}
	if err := Validate(pBox[:], BlockSize); err != nil {
		return nil, fmt.Errorf("p-box: %w", err)
	}

	c := &Cipher{
		sBox:    sBox,
		sBoxInv: sBoxInv,
		pBox:    pBox,
		pBoxInv: Invert(pBox),
	}
	for _, opt := range opts {
		opt(c)
	}

	log.DebugS(context.Background(), "Cipher tables validated",
		slog.String("sbox", fmt.Sprintf("%x", c.sBox[:])),
		slog.String("pbox", fmt.Sprintf("%x", c.pBox[:])),
		slog.Bool("pbox_self_inverse", c.pBox == c.pBoxInv))

	return c, nil
}

// SBox returns a copy of the substitution table.
func (c *Cipher) SBox() Box {
	return c.sBox
}

// SBoxInverse returns a copy of the inverse substitution table.
func (c *Cipher) SBoxInverse() Box {
	return c.sBoxInv
}

// PBox returns a copy of the bit wiring.
func (c *Cipher) PBox() Box {
	return c.pBox
}

// PBoxInverse returns a copy of the inverse bit wiring.
func (c *Cipher) PBoxInverse() Box {
	return c.pBoxInv
}

// Substitute splits state into its four nibbles, maps each through box and
// puts the results back into the same positions.
func Substitute(state uint16, box Box) uint16 {
	return uint16(box[state>>12&0xF])<<12 |
		uint16(box[state>>8&0xF])<<8 |
		uint16(box[state>>4&0xF])<<4 |
		uint16(box[state&0xF])
}

// Permute moves bit i of state to bit p[i].
func Permute(state uint16, p Box) uint16 {
	var out uint16
	for i := range BlockSize {
		out |= (state >> i & 1) << p[i]
	}
	return out
}

// KeyMix XORs the round key into the state.
func KeyMix(state, key uint16) uint16 {
	return state ^ key
}

// Encrypt runs plaintext through the four rounds under keys.
func (c *Cipher) Encrypt(plaintext uint16, keys Schedule) uint16 {
	state := plaintext

	for round := 1; round < NumRounds; round++ {
		state = c.emit(OpEncrypt, round, StageKeyMix,
			KeyMix(state, keys[round-1]))
		state = c.emit(OpEncrypt, round, StageSubstitute,
			Substitute(state, c.sBox))
		state = c.emit(OpEncrypt, round, StagePermute,
			Permute(state, c.pBox))
	}

	// No permutation in the last round, K5 follows the substitution.
	state = c.emit(OpEncrypt, NumRounds, StageKeyMix,
		KeyMix(state, keys[NumRounds-1]))
	state = c.emit(OpEncrypt, NumRounds, StageSubstitute,
		Substitute(state, c.sBox))

	return c.emit(OpEncrypt, NumRounds+1, StageKeyMix,
		KeyMix(state, keys[NumRounds]))
}

// Decrypt is the exact inverse of Encrypt.
func (c *Cipher) Decrypt(ciphertext uint16, keys Schedule) uint16 {
	state := c.emit(OpDecrypt, NumRounds+1, StageKeyMix,
		KeyMix(ciphertext, keys[NumRounds]))
	state = c.emit(OpDecrypt, NumRounds, StageSubstitute,
		Substitute(state, c.sBoxInv))

	for round := NumRounds - 1; round >= 1; round-- {
		state = c.emit(OpDecrypt, round+1, StageKeyMix,
			KeyMix(state, keys[round]))
		state = c.emit(OpDecrypt, round, StagePermute,
			Permute(state, c.pBoxInv))
		state = c.emit(OpDecrypt, round, StageSubstitute,
			Substitute(state, c.sBoxInv))
	}

	return c.emit(OpDecrypt, 1, StageKeyMix, KeyMix(state, keys[0]))
}

// Oracle binds the cipher to keys, hiding them from the caller.
func (c *Cipher) Oracle(keys Schedule) func(uint16) uint16 {
	return func(plaintext uint16) uint16 {
		return c.Encrypt(plaintext, keys)
	}
}

func (c *Cipher) emit(op Op, round int, stage Stage, state uint16) uint16 {
	if c.trace != nil {
		c.trace(TraceEvent{
			Op:    op,
			Round: round,
			Stage: stage,
			State: state,
		})
	}
	return state
}
