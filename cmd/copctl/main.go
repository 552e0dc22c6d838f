package main

import (
	"os"

	"github.com/joho/godotenv"

	copctlcmd "github.com/mossrock/copilot-chat/pkg/copctl/cmd"
)

func main() {
	// Optional .env for COPCTL_* and GITHUB_COPILOT_* overrides.
	_ = godotenv.Load()

	root := copctlcmd.NewRootCommand(copctlcmd.DefaultOptions())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
