package main

import (
	"os"

	"cleaning-app/dashboard-cli/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
