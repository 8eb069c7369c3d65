package main

import (
	"fmt"
	"os"

	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/config"
	"github.com/NuninhoSousa25/BG-remover-for-3dgs/internal/tui"
)

func main() {
	settings, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
