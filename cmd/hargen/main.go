package main

import (
	"os"

	"github.com/pb33f/harscope/cmd"
)

func main() {
	if err := cmd.NewGenerateCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
