package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sdejongh/sortnorris/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitCodeError
	if errors.As(err, &exitErr) {
		// The formatter already reported the outcome
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
