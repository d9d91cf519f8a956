package main

import (
	"fmt"
	"os"

	"image-filter-studio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "image-filter-studio:", err)
		os.Exit(1)
	}
}
