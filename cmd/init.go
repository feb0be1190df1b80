package cmd

import (
	"github.com/spf13/cobra"

	"github.com/docrag/docrag/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize docrag configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure docrag and generates a .docrag.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard()
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
