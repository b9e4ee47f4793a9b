package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/toucann/taskengine/cmd/do/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "do",
		Short:        "Development and operations tools for taskengine",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.DevCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.CatalogCmd())
	rootCmd.AddCommand(cmd.TokenCmd())
	rootCmd.AddCommand(cmd.TodayCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
