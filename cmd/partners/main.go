package main

import (
	"os"

	"github.com/nathangeffen/matchcmp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
