package main

import (
	"fmt"
	"io"

	"github.com/F3dosik/spnlc/keygen"
	"github.com/F3dosik/spnlc/params"
	"github.com/F3dosik/spnlc/spn"
	"github.com/jessevdk/go-flags"
)

const defaultDebugLevel = "info"

// globalOptions are accepted before any subcommand.
type globalOptions struct {
	Params     string `long:"params" description:"YAML file with the s-box, p-box, key material and linear approximation"`
	DebugLevel string `long:"debuglevel" short:"d" description:"Logging level: trace, debug, info, warn, error, critical or off"`
}

// app holds the state shared by all subcommands.
type app struct {
	opts globalOptions
	out  io.Writer

	params *params.Params
}

func newApp(out io.Writer) *app {
	return &app{
		opts: globalOptions{
			DebugLevel: defaultDebugLevel,
		},
		out: out,
	}
}

// command is implemented by every subcommand.
type command interface {
	flags.Commander

	name() string
	describe() (short, long string)
}

// register adds all subcommands to parser.
func (a *app) register(parser *flags.Parser) error {
	commands := []command{
		&latCommand{app: a, Strongest: 8},
		&keygenCommand{app: a, Hash: "sha1"},
		&cipherCommand{app: a, op: spn.OpEncrypt},
		&cipherCommand{app: a, op: spn.OpDecrypt},
		&corpusCommand{app: a, Samples: 10000, Dir: "testData"},
		&attackCommand{app: a, Samples: 10000, Top: 10},
	}

	for _, cmd := range commands {
		short, long := cmd.describe()
		if _, err := parser.AddCommand(cmd.name(), short, long,
			cmd); err != nil {

			return err
		}
	}

	return nil
}

// setup configures logging and loads the parameters. It runs at the start
// of every subcommand, after the global options are parsed.
func (a *app) setup() error {
	if err := setLogLevels(a.opts.DebugLevel); err != nil {
		return err
	}

	if a.opts.Params == "" {
		a.params = params.Default()
		return nil
	}

	p, err := params.Load(a.opts.Params)
	if err != nil {
		return err
	}
	a.params = p

	return nil
}

// schedule resolves the round keys from a --key flag, the parameter file
// or, when allowed, a freshly generated key.
func (a *app) schedule(material string, generate bool) (spn.Schedule,
	error) {

	switch {
	case material != "":
		return spn.DeriveRoundKeys(material)

	case a.params.Key != "":
		return a.params.Keys, nil

	case generate:
		keys, err := keygen.New(nil, nil).Schedule()
		if err != nil {
			return spn.Schedule{}, err
		}
		log.Infof("Generated random key K = %v", keys)

		return keys, nil

	default:
		return spn.Schedule{}, fmt.Errorf("no key: use --key or set " +
			"key in the parameter file")
	}
}
