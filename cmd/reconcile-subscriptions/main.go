package main

import (
	"fmt"
	"os"

	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/env"
)

func main() {
	env.SetupEnvFile()
	if err := newRootCmd(config.Get(), defaultDeps()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
