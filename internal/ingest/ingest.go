// Package ingest composes the document ingestion DAG: discover files, route
// by type, convert, join CSV catalog pairs, re-chunk, derive hypothetical
// questions, embed and persist.
package ingest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/docrag/docrag/internal/config"
	"github.com/docrag/docrag/internal/convert"
	"github.com/docrag/docrag/internal/csvdoc"
	"github.com/docrag/docrag/internal/document"
	"github.com/docrag/docrag/internal/embeddings"
	"github.com/docrag/docrag/internal/hyqe"
	"github.com/docrag/docrag/internal/llm"
	"github.com/docrag/docrag/internal/pipeline"
	"github.com/docrag/docrag/internal/splitter"
	"github.com/docrag/docrag/internal/vectordb"
	"github.com/docrag/docrag/internal/walker"
)

// metaPath carries the absolute file path from the source stage to the
// converter stages. It never reaches the store.
const metaPath = "path"

// Result summarizes one ingestion run.
type Result struct {
	FilesFound   int
	DocsIndexed  int
	QuestionDocs int
	Duration     time.Duration
}

// Pipeline wires the ingestion DAG against a store, an embedder and an LLM
// provider.
type Pipeline struct {
	cfg       *config.Config
	embedder  embeddings.Embedder
	store     vectordb.VectorStore
	questions *hyqe.Generator
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(cfg *config.Config, provider llm.Provider, embedder embeddings.Embedder, store vectordb.VectorStore) *Pipeline {
	opts := []hyqe.Option{
		hyqe.WithNumQuestions(cfg.NumQuestions),
		hyqe.WithModel(cfg.Model),
	}
	if cfg.MaxConcurrency > 0 {
		opts = append(opts, hyqe.WithWorkers(cfg.MaxConcurrency))
	}
	return &Pipeline{
		cfg:       cfg,
		embedder:  embedder,
		store:     store,
		questions: hyqe.New(provider, embedder, opts...),
	}
}

// Progress reports the fraction of completed question-generation tasks, or 0
// if ingestion has not reached that stage. Safe to poll concurrently.
func (p *Pipeline) Progress() float64 {
	done, total := p.questions.Progress()
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// Run ingests every supported file under folder. Per-file conversion errors
// are logged and skipped; infrastructure failures abort the run.
func (p *Pipeline) Run(ctx context.Context, folder string) (*Result, error) {
	start := time.Now()
	result := &Result{}

	files, err := walker.Walk(walker.Config{
		RootDir: folder,
		Include: p.cfg.Include,
		Exclude: p.cfg.Exclude,
	})
	if err != nil {
		return nil, err
	}
	result.FilesFound = len(files)

	// Every ingestion run rebuilds the index from scratch.
	if err := p.store.Reset(ctx); err != nil {
		return nil, fmt.Errorf("ingest: reset store: %w", err)
	}

	g, err := p.buildGraph(files, result)
	if err != nil {
		return nil, err
	}
	if _, err := g.Run(ctx); err != nil {
		return nil, err
	}

	if err := p.store.Persist(ctx, p.cfg.DataDir); err != nil {
		return nil, fmt.Errorf("ingest: persist store: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// buildGraph assembles the static DAG for one run.
//
//	files -> route_type -> {convert_* | join_csv} -> join_docs -> route_meta
//	route_meta.csv    -> index_csv  -> rejoin
//	route_meta.others -> clean -> split_text -> rejoin
//	rejoin -> {embed_docs, questions} -> write
func (p *Pipeline) buildGraph(files []walker.FileInfo, result *Result) (*pipeline.Graph, error) {
	flushPolicy := csvdoc.FlushPolicy(p.cfg.FlushPolicy)
	joiner := csvdoc.NewJoiner(flushPolicy)
	adaptive := splitter.NewAdaptive(splitter.NewWordSplitter(
		p.cfg.CSVSplit.Length, p.cfg.CSVSplit.Overlap, p.cfg.CSVSplit.Threshold))
	sentences := splitter.NewSentenceSplitter(
		p.cfg.TextSplit.Length, p.cfg.TextSplit.Overlap, p.cfg.TextSplit.Threshold)
	cleaner := splitter.NewCleaner()

	g := pipeline.NewGraph()

	stages := []pipeline.Stage{
		pipeline.Source("files", func(_ context.Context) ([]document.Document, error) {
			docs := make([]document.Document, 0, len(files))
			for _, f := range files {
				docs = append(docs, document.New("", map[string]string{
					document.MetaFileType: f.FileType,
					document.MetaSource:   f.RelPath,
					metaPath:              f.Path,
				}))
			}
			return docs, nil
		}),
		pipeline.NewTypeRouter("route_type", []string{
			document.FileTypeCSV, document.FileTypeMarkdown, document.FileTypeText, document.FileTypePDF,
		}),
		convertStage("convert_text", convert.TextFile),
		convertStage("convert_markdown", convert.MarkdownFile),
		convertStage("convert_pdf", convert.PDFFile),
		pipeline.Transform("join_csv", func(_ context.Context, fileDocs []document.Document) ([]document.Document, error) {
			var docs []document.Document
			for _, fd := range fileDocs {
				converted, err := joiner.ConvertFile(fd.Meta[metaPath])
				if err != nil {
					log.Printf("ingest: %v", err)
					continue
				}
				docs = append(docs, converted...)
			}
			return append(docs, joiner.Flush()...), nil
		}),
		pipeline.Union("join_docs"),
		pipeline.NewMetaRouter("route_meta", []pipeline.Rule{
			{Field: document.MetaFileType, Op: pipeline.OpEq, Value: document.FileTypeCSV, Port: "csv"},
		}),
		pipeline.Transform("index_csv", func(_ context.Context, docs []document.Document) ([]document.Document, error) {
			return adaptive.Process(docs), nil
		}),
		pipeline.Transform("clean", func(_ context.Context, docs []document.Document) ([]document.Document, error) {
			return cleaner.Clean(docs), nil
		}),
		pipeline.Transform("split_text", func(_ context.Context, docs []document.Document) ([]document.Document, error) {
			var out []document.Document
			for _, doc := range docs {
				for _, chunk := range sentences.Split(doc) {
					chunk.Meta[document.MetaFullContent] = doc.Content
					out = append(out, chunk)
				}
			}
			return out, nil
		}),
		pipeline.Union("rejoin"),
		pipeline.Transform("embed_docs", p.embedDocs),
		pipeline.Transform("questions", func(ctx context.Context, docs []document.Document) ([]document.Document, error) {
			derived, err := p.questions.Run(ctx, docs)
			if err != nil {
				return nil, err
			}
			result.QuestionDocs = len(derived)
			return derived, nil
		}),
		pipeline.Sink("write", func(ctx context.Context, docs []document.Document) error {
			if err := p.store.Upsert(ctx, docs); err != nil {
				return fmt.Errorf("upsert documents: %w", err)
			}
			result.DocsIndexed += len(docs)
			return nil
		}),
	}
	for _, s := range stages {
		if err := g.Add(s); err != nil {
			return nil, err
		}
	}

	connections := [][4]string{
		{"files", pipeline.PortOut, "route_type", pipeline.PortIn},
		{"route_type", document.FileTypeText, "convert_text", pipeline.PortIn},
		{"route_type", document.FileTypeMarkdown, "convert_markdown", pipeline.PortIn},
		{"route_type", document.FileTypePDF, "convert_pdf", pipeline.PortIn},
		{"route_type", document.FileTypeCSV, "join_csv", pipeline.PortIn},
		{"convert_text", pipeline.PortOut, "join_docs", pipeline.PortIn},
		{"convert_markdown", pipeline.PortOut, "join_docs", pipeline.PortIn},
		{"convert_pdf", pipeline.PortOut, "join_docs", pipeline.PortIn},
		{"join_csv", pipeline.PortOut, "join_docs", pipeline.PortIn},
		{"join_docs", pipeline.PortOut, "route_meta", pipeline.PortIn},
		{"route_meta", "csv", "index_csv", pipeline.PortIn},
		{"route_meta", pipeline.PortOthers, "clean", pipeline.PortIn},
		{"clean", pipeline.PortOut, "split_text", pipeline.PortIn},
		{"index_csv", pipeline.PortOut, "rejoin", pipeline.PortIn},
		{"split_text", pipeline.PortOut, "rejoin", pipeline.PortIn},
		{"rejoin", pipeline.PortOut, "embed_docs", pipeline.PortIn},
		{"rejoin", pipeline.PortOut, "questions", pipeline.PortIn},
		{"embed_docs", pipeline.PortOut, "write", pipeline.PortIn},
		{"questions", pipeline.PortOut, "write", pipeline.PortIn},
	}
	for _, c := range connections {
		if err := g.Connect(c[0], c[1], c[2], c[3]); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// embedDocs computes vectors for the base documents before persistence.
func (p *Pipeline) embedDocs(ctx context.Context, docs []document.Document) ([]document.Document, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = hyqe.EmbedText(d)
	}
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors, expected %d", len(vectors), len(docs))
	}
	out := make([]document.Document, len(docs))
	for i, d := range docs {
		d.Embedding = vectors[i]
		out[i] = d
	}
	return out, nil
}

// convertStage wraps a per-file converter into a pipeline stage. A file that
// fails to convert is logged and skipped; ingestion continues.
func convertStage(name string, fn func(path, relPath string) (document.Document, error)) pipeline.Stage {
	return pipeline.Transform(name, func(_ context.Context, fileDocs []document.Document) ([]document.Document, error) {
		var out []document.Document
		for _, fd := range fileDocs {
			doc, err := fn(fd.Meta[metaPath], fd.Meta[document.MetaSource])
			if err != nil {
				log.Printf("ingest: %v", err)
				continue
			}
			out = append(out, doc)
		}
		return out, nil
	})
}
