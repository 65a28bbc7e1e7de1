// Command denoise removes every line from a target log that also appears, after
// normalization, in one or more reference logs.
package main

import (
	"fmt"
	"os"

	"github.com/lucastoro/denoiser/pkg/cmd"
	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
)

func main() {
	root := cmd.NewRootCommand()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		if pkgerrors.Is(err, pkgerrors.KindUsage) {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, root.UsageString())
		} else {
			fmt.Fprintf(os.Stderr, "exception got: %s\n", err)
		}
		os.Exit(1)
	}
}
