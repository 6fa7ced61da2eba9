// Package main provides the labseat CLI application.
//
// labseat tracks who sits where in a lab, how long they stay and how
// their weekly stay time ranks. State lives in a local bbolt database;
// `labseat serve` exposes the same board over HTTP for the seat-board UI.
package main

import (
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
