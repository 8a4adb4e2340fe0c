// Package main provides the entry point for the heft disk usage explorer.
package main

import (
	"os"

	"github.com/jamesainslie/heft/pkg/heft/logging"
)

func main() {
	err := Execute()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
