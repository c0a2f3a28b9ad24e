package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/prefsync/pkg/style"
)

func main() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.Error("Error: ")+err.Error())
		os.Exit(1)
	}
}
