// Package main is the entry point for the upsbill CLI.
package main

import (
	"os"

	"upscli/cmd/upsbill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
