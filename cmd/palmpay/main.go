package main

import (
	"os"

	"palmpay/cmd/palmpay/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
