// Package main provides the entry point for the SEOScan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SEOScan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoscan",
		Short: "SEO analysis tool for clearnet domains",
		Long: `SEOScan analyzes the search-engine readiness of a domain.
It fetches the page, scores on-page technical signals, queries external
performance and authority providers, and produces a weighted composite
score (technical 40% + performance 30% + authority 30%) with findings.

Provider credentials are read from a .seoscan file; run "seoscan init"
to generate a template. Unconfigured providers degrade gracefully.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
