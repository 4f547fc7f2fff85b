package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/inventra/core/cmd/api/commands"
)

// @title Inventra API
// @version 1.0
// @description Owner-scoped items and categories stored as JSON documents

// @host localhost:3000
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:   "inventra",
		Short: "Inventra API Server",
		Long:  `Inventra serves owner-scoped items and categories over HTTP, persisted as whole JSON documents.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewRecordsCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
