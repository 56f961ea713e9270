package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/brandassets/dam/pkg/commands"
	"github.com/brandassets/dam/pkg/configuration"
)

func main() {
	defer configuration.Use().Unload()

	root := &cobra.Command{
		Use:   "dam",
		Short: "Operational tooling for the brand asset platform",
	}
	root.AddCommand(commands.NewUtilityCommands()...)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
