package main

import (
	"context"
	"fmt"

	"github.com/F3dosik/spnlc/attack"
	"github.com/F3dosik/spnlc/corpus"
	"github.com/F3dosik/spnlc/spn"
)

type attackCommand struct {
	app *app

	Key     string `long:"key" short:"k" description:"Key hidden behind the encryption oracle; a random key is generated if neither this nor the parameter file sets one"`
	Corpus  string `long:"corpus" description:"Attack the pairs in this file instead of querying an oracle"`
	Samples int    `long:"samples" short:"n" description:"Number of oracle queries"`
	Workers int    `long:"workers" description:"Goroutines used for counting, 0 for one per CPU"`
	Top     int    `long:"top" description:"Number of ranked candidates to print"`
}

func (x *attackCommand) name() string {
	return "attack"
}

func (x *attackCommand) describe() (string, string) {
	return "Recover 8 bits of the last round key",
		"Run Matsui's linear cryptanalysis with the three round " +
			"approximation against an encryption oracle or a " +
			"corpus file and report the partial subkey whose " +
			"counter deviates most from half the samples"
}

func (x *attackCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}

	c, err := x.app.params.Cipher()
	if err != nil {
		return err
	}

	// With a corpus the key is only used to check the outcome.
	var (
		keys    spn.Schedule
		haveKey = x.Key != "" || x.app.params.Key != ""
	)
	if x.Corpus == "" || haveKey {
		keys, err = x.app.schedule(x.Key, x.Corpus == "")
		if err != nil {
			return err
		}
		haveKey = true
	}

	cfg := attack.Config{
		SBoxInverse:   c.SBoxInverse(),
		Approximation: x.app.params.Approximation,
		Samples:       x.Samples,
		Workers:       x.Workers,
	}
	if x.Corpus == "" {
		cfg.Oracle = c.Oracle(keys)
	}

	engine, err := attack.New(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var res *attack.Result
	if x.Corpus != "" {
		pairs, err := corpus.ReadFile(x.Corpus)
		if err != nil {
			return err
		}
		res, err = engine.Analyze(ctx, pairs)
		if err != nil {
			return err
		}
	} else {
		res, err = engine.Run(ctx)
		if err != nil {
			return err
		}
	}

	out := x.app.out
	fmt.Fprintf(out, "Approximation: %v\n", cfg.Approximation)
	if haveKey {
		fmt.Fprintf(out, "Test key K = %v (K5 = %04x)\n", keys,
			keys.Last())
		fmt.Fprintf(out, "Target partial subkey = %04x\n",
			keys.Last()&res.TargetMask())
	}

	fmt.Fprintf(out, "Highest bias is %.4f for subkey value %02x "+
		"(partial key %04x) over %d samples.\n", res.Bias,
		res.Candidate, res.PartialKey(), res.Samples)
	if err := res.Err(); err != nil {
		fmt.Fprintf(out, "Warning: %v\n", err)
	}

	if x.Top > 0 {
		res.Render(out, x.Top)
	}

	if haveKey {
		if res.Matches(keys.Last()) {
			fmt.Fprintln(out, "Success!")
		} else {
			fmt.Fprintln(out, "Failure")
		}
	}

	return nil
}
