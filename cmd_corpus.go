package main

import (
	"fmt"

	"github.com/F3dosik/spnlc/corpus"
)

type corpusCommand struct {
	app *app

	Key     string `long:"key" short:"k" description:"20 hex digits of key material; a random key is generated if neither this nor the parameter file sets one"`
	Samples int    `long:"samples" short:"n" description:"Number of plaintexts, starting at 0"`
	Dir     string `long:"dir" description:"Directory the file is named after the key in"`
	Out     string `long:"out" short:"o" description:"Explicit output file, overrides --dir"`
}

func (x *corpusCommand) name() string {
	return "corpus"
}

func (x *corpusCommand) describe() (string, string) {
	return "Write plaintext/ciphertext pairs for cryptanalysis",
		"Encrypt the plaintexts 0..n-1 and write one " +
			"'plaintext, ciphertext' hex pair per line"
}

func (x *corpusCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}
	if x.Samples <= 0 {
		return fmt.Errorf("--samples must be positive")
	}

	keys, err := x.app.schedule(x.Key, true)
	if err != nil {
		return err
	}

	c, err := x.app.params.Cipher()
	if err != nil {
		return err
	}

	path := x.Out
	if path == "" {
		path = corpus.FileName(x.Dir, keys.String())
	}

	pairs := corpus.Generate(c.Oracle(keys), x.Samples)
	if err := corpus.WriteFile(path, pairs); err != nil {
		return err
	}

	fmt.Fprintf(x.app.out, "Running basic SPN cipher with key K = %v\n"+
		"%d pairs written to %s\n", keys, len(pairs), path)

	return nil
}
