package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seoscan/seoscan/internal/config"
)

//go:embed templates/seoscan.yaml
var credentialsTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new SEOScan credentials file",
		Long: `Init creates a new .seoscan credentials file in the current directory.

The generated file includes:
- Empty credential blocks for every external provider
- Documentation for each block and its degradation behavior
- The allow_estimates toggle for degraded-mode authority scores

Examples:
  # Create .seoscan in current directory
  seoscan init

  # Create credentials file at a specific path
  seoscan init -o mycreds.yaml

  # Force overwrite existing file
  seoscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultCredentialsFile,
		"Output file path for the credentials file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing credentials file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("credentials file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := credentialsTemplate.ReadFile("templates/seoscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read credentials template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Credentials stay out of group/world-readable files
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created credentials file: %s\n", outputPath)
	fmt.Fprintln(cmd.OutOrStdout(), "\nEdit this file to configure provider access:")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Performance provider API key")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Authority provider credentials and fallback key")
	fmt.Fprintln(cmd.OutOrStdout(), "  - Generative report service key")

	return nil
}
