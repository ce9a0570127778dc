// Package params loads the cipher and attack parameters from a YAML file.
package params

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/F3dosik/spnlc/attack"
	"github.com/F3dosik/spnlc/spn"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout. Every field is optional; missing tables fall
// back to Heys' S-box and P-box and a missing approximation to the default
// three round one.
type File struct {
	SBox          []int              `yaml:"sbox"`
	SBoxInverse   []int              `yaml:"sbox_inverse"`
	PBox          []int              `yaml:"pbox"`
	Key           string             `yaml:"key"`
	Approximation *ApproximationFile `yaml:"approximation"`
}

// ApproximationFile describes the linear approximation handed to the
// attack.
type ApproximationFile struct {
	PlaintextMask *int    `yaml:"plaintext_mask"`
	OutputMask    *int    `yaml:"output_mask"`
	Bias          float64 `yaml:"bias"`
}

// Params is a validated parameter set.
type Params struct {
	SBox spn.Box
	PBox spn.Box

	// SBoxInverse is nil unless the file supplied one.
	SBoxInverse *spn.Box

	// Key is the master key material, empty if none was given.
	Key  string
	Keys spn.Schedule

	Approximation attack.Approximation
}

// Default returns Heys' tables and the default approximation.
func Default() *Params {
	return &Params{
		SBox:          spn.DefaultSBox(),
		PBox:          spn.DefaultPBox(),
		Approximation: attack.DefaultApproximation(),
	}
}

// Load reads and validates the parameter file at path.
func Load(path string) (*Params, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read params: %w", err)
	}

	p, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Debugf("Loaded parameters from %s", path)

	return p, nil
}

// Parse decodes and validates a YAML parameter document. Unknown fields are
// rejected.
func Parse(content []byte) (*Params, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse params yaml: %w", err)
	}

	return f.Resolve()
}

// Resolve validates f and fills in defaults.
func (f *File) Resolve() (*Params, error) {
	p := Default()

	var err error
	if f.SBox != nil {
		if p.SBox, err = toBox("sbox", f.SBox); err != nil {
			return nil, err
		}
	}
	if f.PBox != nil {
		if p.PBox, err = toBox("pbox", f.PBox); err != nil {
			return nil, err
		}
	}
	if f.SBoxInverse != nil {
		inv, err := toBox("sbox_inverse", f.SBoxInverse)
		if err != nil {
			return nil, err
		}
		p.SBoxInverse = &inv
	}

	// Building the cipher runs every table check, including the inverse
	// one.
	if _, err := p.Cipher(); err != nil {
		return nil, err
	}

	if f.Key != "" {
		p.Keys, err = spn.DeriveRoundKeys(f.Key)
		if err != nil {
			return nil, fmt.Errorf("params.key: %w", err)
		}
		p.Key = f.Key
	}

	if a := f.Approximation; a != nil {
		if a.PlaintextMask == nil || a.OutputMask == nil {
			return nil, fmt.Errorf("params.approximation needs " +
				"plaintext_mask and output_mask")
		}

		pm, err := spn.CheckBlock(uint64(*a.PlaintextMask))
		if err != nil {
			return nil, fmt.Errorf("params.approximation."+
				"plaintext_mask: %w", err)
		}
		om, err := spn.CheckBlock(uint64(*a.OutputMask))
		if err != nil {
			return nil, fmt.Errorf("params.approximation."+
				"output_mask: %w", err)
		}

		p.Approximation = attack.Approximation{
			PlaintextMask: pm,
			OutputMask:    om,
			Bias:          a.Bias,
		}
		if _, err := p.Approximation.TargetMask(); err != nil {
			return nil, fmt.Errorf("params.approximation: %w", err)
		}
	}

	return p, nil
}

// Cipher builds the cipher described by p.
func (p *Params) Cipher(opts ...spn.Option) (*spn.Cipher, error) {
	if p.SBoxInverse != nil {
		return spn.NewWithInverse(p.SBox, *p.SBoxInverse, p.PBox,
			opts...)
	}
	return spn.New(p.SBox, p.PBox, opts...)
}

func toBox(field string, values []int) (spn.Box, error) {
	var box spn.Box
	if len(values) != spn.BoxSize {
		return box, fmt.Errorf("params.%s: %w: %d entries, want %d",
			field, spn.ErrInvalidMapping, len(values), spn.BoxSize)
	}

	for i, v := range values {
		if v < 0 || v >= spn.BoxSize {
			return box, fmt.Errorf("params.%s: %w: entry %d is %d",
				field, spn.ErrInvalidMapping, i, v)
		}
		box[i] = uint8(v)
	}

	return box, nil
}
