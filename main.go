package main

import (
	"os"

	"loan-payoff/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
