// Package cmd contains all the commands included in the binary file.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand enables all children commands to read flags from CLI flags,
// environment variables prefixed with LUCIDITY, or config.yaml (in that order).
func NewRootCommand() *cobra.Command {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("LUCIDITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	configPaths := []string{"/etc/lucidity", "$HOME/.lucidity", "."}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	return &cobra.Command{
		Use:   "lucidity",
		Short: "A decision-document audit service that scores business documents for bias, noise and logical soundness",
		Long: `A decision-document audit service that scores business documents for bias, noise and logical soundness.

Lucidity runs a document through a set of concurrent analysis stages backed by a
language-model provider and aggregates their findings into a single quality report.`,
	}
}
