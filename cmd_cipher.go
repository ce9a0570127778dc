package main

import (
	"fmt"

	"github.com/F3dosik/spnlc/spn"
)

type cipherCommand struct {
	app *app
	op  spn.Op

	Key   string `long:"key" short:"k" description:"20 hex digits of key material; defaults to the key in the parameter file"`
	Trace bool   `long:"trace" description:"Log the state after every key mixing, substitution and permutation"`
}

func (x *cipherCommand) name() string {
	return x.op.String()
}

func (x *cipherCommand) describe() (string, string) {
	if x.op == spn.OpDecrypt {
		return "Decrypt 16-bit blocks",
			"Decrypt every hex block given as argument and print " +
				"the plaintexts"
	}
	return "Encrypt 16-bit blocks",
		"Encrypt every hex block given as argument and print the " +
			"ciphertexts"
}

func (x *cipherCommand) Execute(args []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("at least one block is required")
	}

	blocks := make([]uint16, len(args))
	for i, arg := range args {
		b, err := spn.ParseBlock(arg)
		if err != nil {
			return err
		}
		blocks[i] = b
	}

	keys, err := x.app.schedule(x.Key, false)
	if err != nil {
		return err
	}

	var opts []spn.Option
	if x.Trace {
		opts = append(opts, spn.WithTrace(spn.LogTracer(traceLogger())))
	}
	c, err := x.app.params.Cipher(opts...)
	if err != nil {
		return err
	}

	for _, b := range blocks {
		var out uint16
		switch x.op {
		case spn.OpDecrypt:
			out = c.Decrypt(b, keys)
		default:
			out = c.Encrypt(b, keys)
		}
		fmt.Fprintf(x.app.out, "%04x\n", out)
	}

	return nil
}
