// Package main реализует служебную утилиту calctl.
package main

import (
	"fmt"
	"os"

	"calbuddy/internal/calendar/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "calctl:", err)
		os.Exit(1)
	}
}
