package main

import (
	"fmt"

	"github.com/F3dosik/spnlc/keygen"
)

type keygenCommand struct {
	app *app

	Hash string `long:"hash" description:"One-way function applied to the random seed" choice:"sha1" choice:"blake2b"`
}

func (x *keygenCommand) name() string {
	return "keygen"
}

func (x *keygenCommand) describe() (string, string) {
	return "Generate random key material",
		"Hash 128 random bits and print 20 hex digits of the digest, " +
			"enough for the five 16-bit round keys"
}

func (x *keygenCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}

	hash, err := keygen.HasherByName(x.Hash)
	if err != nil {
		return err
	}

	material, err := keygen.New(nil, hash).Generate()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(x.app.out, material)
	return err
}
