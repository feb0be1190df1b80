package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed documentation",
	Long: `Runs the full retrieval flow for a single question: language check,
hypothetical answer embedding, top-k retrieval and grounded generation.
The answer streams to stdout as the model produces it.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	engine, store, err := buildAnswerEngine(ctx, cfg)
	if err != nil {
		return err
	}
	if store.Count() == 0 {
		fmt.Fprintln(os.Stderr, "The index is empty. Run `docrag ingest` first.")
	}

	ok, out, err := engine.Answer(ctx, args[0], nil, func(chunk string) {
		fmt.Print(chunk)
	})
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}
	if !ok {
		// Rejections do not stream; print the message directly.
		fmt.Println(out)
		return nil
	}
	fmt.Println()
	return nil
}
