package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docrag/docrag/internal/ingest"
	"github.com/docrag/docrag/internal/progress"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [folder]",
	Short: "Index a folder of documentation into the vector store",
	Long: `Walks the folder, converts CSV catalogs, Markdown, text and PDF files
into documents, derives hypothetical questions, embeds everything and
persists the index. The previous index is replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return err
	}
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, embedder)
	if err != nil {
		return err
	}

	pipeline := ingest.NewPipeline(cfg, provider, embedder, store)

	reporter := progress.NewReporter()
	reporter.Start(100)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				reporter.Update(int(pipeline.Progress()*100), "Generating questions")
			}
		}
	}()

	result, err := pipeline.Run(ctx, args[0])
	close(done)
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Indexed %d documents (%d derived questions) from %d files in %s\n",
		result.DocsIndexed, result.QuestionDocs, result.FilesFound, result.Duration.Round(time.Millisecond))
	return nil
}
