// Command credkeeper-cli signs up and logs in against a credkeeper server.
package main

import (
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/client/cli"
)

func main() {
	cmd := cli.NewRootCmd(os.Stdin, os.Stdout)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
