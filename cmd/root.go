package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Retrieval-augmented assistant for library documentation",
	Long: `docrag ingests scraped library documentation — API catalogs, guides,
PDFs — into a local vector index enriched with hypothetical questions,
and answers questions about the library grounded in that index, with
links back to the official documentation.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docrag.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
