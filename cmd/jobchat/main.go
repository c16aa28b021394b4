// Package main provides the entry point for the job-portal chat
// assistant server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobchat",
	Short: "Conversational job-search assistant",
	Long:  "jobchat answers free-text job-search questions over the portal's listing database, optionally phrased by Gemini.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
