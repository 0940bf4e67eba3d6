// Command albumwall drives the album wall animation engine headlessly.
package main

import (
	"fmt"
	"os"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
