package main

import (
	"os"

	"github.com/enginetwin/enginetwin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
