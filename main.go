package main

import (
	"os"

	"adventune/skrivsite/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
