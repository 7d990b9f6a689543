package main

import (
	"os"

	"github.com/agendex/agendex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
