// Package keygen produces master key material for the SPN from an injected
// randomness source and one-way hash function.
package keygen

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/F3dosik/spnlc/spn"
	"golang.org/x/crypto/blake2b"
)

// SeedBytes is the amount of randomness hashed into one key: 128 bits.
const SeedBytes = 16

// digestSkip is the number of leading hex digits of the digest dropped
// before the key material is taken.
const digestSkip = 2

var (
	// ErrShortDigest is returned when the hash output has too few hex
	// digits to yield 80 bits of key material.
	ErrShortDigest = errors.New("digest too short for key material")

	// ErrUnknownHash is returned by HasherByName for unsupported names.
	ErrUnknownHash = errors.New("unknown hash function")
)

// RandomSource supplies seed bits.
type RandomSource interface {
	Read(p []byte) (int, error)
}

// Hasher is a one-way function.
type Hasher interface {
	Sum(data []byte) []byte
}

// HasherFunc adapts a plain function to a Hasher.
type HasherFunc func(data []byte) []byte

// Sum calls f(data).
func (f HasherFunc) Sum(data []byte) []byte {
	return f(data)
}

// SHA1 hashes with SHA-1.
var SHA1 = HasherFunc(func(data []byte) []byte {
	sum := sha1.Sum(data)
	return sum[:]
})

// BLAKE2b hashes with BLAKE2b-256.
var BLAKE2b = HasherFunc(func(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
})

// HasherByName resolves "sha1" or "blake2b".
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return SHA1, nil
	case "blake2b":
		return BLAKE2b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHash, name)
	}
}

// Generator turns random seeds into key material.
type Generator struct {
	rand RandomSource
	hash Hasher
}

// New returns a Generator reading seeds from rnd and hashing them with h.
// Nil arguments select crypto/rand and SHA-1.
func New(rnd RandomSource, h Hasher) *Generator {
	if rnd == nil {
		rnd = rand.Reader
	}
	if h == nil {
		h = SHA1
	}

	return &Generator{
		rand: rnd,
		hash: h,
	}
}

// Generate draws a 128-bit seed, hashes its 0x-prefixed hex rendering
// (without leading zeros) and returns digits 2 to 21 of the hex digest.
func (g *Generator) Generate() (string, error) {
	seed := make([]byte, SeedBytes)
	if _, err := io.ReadFull(g.rand, seed); err != nil {
		return "", fmt.Errorf("unable to read seed: %w", err)
	}

	digits := strings.TrimLeft(hex.EncodeToString(seed), "0")
	if digits == "" {
		digits = "0"
	}

	digest := hex.EncodeToString(g.hash.Sum([]byte("0x" + digits)))
	if len(digest) < digestSkip+spn.KeyMaterialLen {
		return "", fmt.Errorf("%w: %d hex digits", ErrShortDigest,
			len(digest))
	}

	material := digest[digestSkip : digestSkip+spn.KeyMaterialLen]
	log.Debugf("Generated key material from %d byte seed", SeedBytes)

	return material, nil
}

// Schedule generates key material and derives the round keys from it.
func (g *Generator) Schedule() (spn.Schedule, error) {
	material, err := g.Generate()
	if err != nil {
		return spn.Schedule{}, err
	}

	return spn.DeriveRoundKeys(material)
}
