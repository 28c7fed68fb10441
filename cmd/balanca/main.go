// Command balanca is the operator CLI of the weighing station.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/balanca/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands report their own failures as ExitError. Anything else comes
	// from cobra itself: unknown commands, bad or missing flags.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
