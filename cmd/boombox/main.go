package main

import (
	"fmt"
	"os"

	"github.com/ian97531/boombox/cmd/boombox/cmd"
	"github.com/ian97531/boombox/internal/config"
)

func main() {
	// Variables may also be set system-wide, so a missing .env is fine
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration warning: %v\n", err)
	}

	cmd.Execute()
}
