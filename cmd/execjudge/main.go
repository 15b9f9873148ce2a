package main

import (
	"fmt"
	"os"
)

const (
	ExitSuccess = 0
	ExitError   = 1 // Missing arguments, unreadable input, or a failed scoring call
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitError)
	}
}
