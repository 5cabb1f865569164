// Package main is the entry point for the gridlog telemetry recorder.
package main

import (
	"fmt"
	"os"

	"gridlog/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
