package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/lucidity-ai/lucidity/internal/build"
)

// NewVersionCommand returns the command to get the lucidity version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Return the Lucidity version",
		Long:  "Return the Lucidity version.",
		RunE:  version,
		Args:  cobra.NoArgs,
	}
}

func version(_ *cobra.Command, _ []string) error {
	log.Printf("Lucidity Version %s Date %s commit id %s ", build.Version, build.Date, build.Commit)
	return nil
}
