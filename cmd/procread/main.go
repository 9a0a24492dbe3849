// procread decodes Linux procfs files and prints them as tables, YAML or JSON.
package main

import (
	"fmt"
	"os"

	"procread/procerr"
)

// Exit codes
const (
	exitFailure     = 1
	exitMalformed   = 2
	exitUnavailable = 3
)

func main() {
	cmd := newRootCommand(os.Stdout)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "procread:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch procerr.KindOf(err) {
	case procerr.KindMalformed, procerr.KindNumeric:
		return exitMalformed
	case procerr.KindUnavailable:
		return exitUnavailable
	}
	return exitFailure
}
