package main

import (
	"fmt"
	"os"
)

var version = "dev" // set via ldflags during build

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
