package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/supplyline/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate and print the effective configuration",
	RunE:  validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}

	fmt.Println("✅ Configuration is valid")
	fmt.Println(string(out))
	return nil
}
