// Command packset encodes, inspects and queries MessagePack integer sets.
//
// Sets are passed and printed as base64. The sql subcommand runs a query
// against SQLite with the mpack_* functions registered.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
