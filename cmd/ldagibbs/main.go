package main

import (
	"os"

	"github.com/archanas28/trungng-sub002/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.New(version).Run(); err != nil {
		os.Exit(1)
	}
}
