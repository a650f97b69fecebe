// Package main provides the entry point for the taskdeck CLI.
package main

import "os"

var version = "dev"

func main() {
	if err := Execute(); err != nil {
		fatal(err)
		os.Exit(1)
	}
}
