package main

import (
	"fmt"

	"github.com/F3dosik/spnlc/lat"
)

type latCommand struct {
	app *app

	Strongest int `long:"strongest" description:"Number of strongest approximations to list"`
}

func (x *latCommand) name() string {
	return "lat"
}

func (x *latCommand) describe() (string, string) {
	return "Print the linear approximation table of the s-box",
		"Enumerate all input/output mask pairs of the s-box, print the " +
			"signed bias of each and list the strongest " +
			"non-trivial approximations"
}

func (x *latCommand) Execute(_ []string) error {
	if err := x.app.setup(); err != nil {
		return err
	}

	table, err := lat.Build(x.app.params.SBox)
	if err != nil {
		return err
	}

	out := x.app.out
	fmt.Fprintln(out, "Linear approximation table (count - 8), rows are "+
		"input masks, columns output masks:")
	table.Render(out)

	if x.Strongest > 0 {
		fmt.Fprintf(out, "\nStrongest %d approximations:\n", x.Strongest)
		table.RenderStrongest(out, x.Strongest)
	}

	approx := x.app.params.Approximation
	fmt.Fprintf(out, "\nAttack approximation: %v\nExpected bias: %+.5f\n",
		approx, approx.Bias)

	return nil
}
