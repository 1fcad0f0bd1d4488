package main

import (
	"errors"
	"fmt"
	"os"

	"heightmap-converter/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		var fatal *cli.FatalError
		if !errors.As(err, &fatal) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
