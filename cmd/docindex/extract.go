package main

import (
	"context"
	"fmt"
	"time"

	"docindex/config"
	"docindex/internal/core/document"
	coreingest "docindex/internal/core/ingest"
	"docindex/internal/core/llm"
	"docindex/internal/core/vision"
	"docindex/internal/parse"
	ingestsvc "docindex/internal/services/ingest"

	"github.com/spf13/cobra"
)

var (
	extractFile   string
	extractOutput string
	extractIndex  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Parse a PDF through the cloud service and caption its images",
	Long: `extract uploads a PDF to the cloud parse service, downloads the images
it found into the output directory and generates alt text for each one with
the multimodal model. With --index the page text and the alt texts are also
embedded and indexed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if extractFile == "" {
			return fmt.Errorf("--file is required")
		}
		client := parse.NewClient()
		if !client.Enabled() {
			return fmt.Errorf("cloud parse service key not configured (LLAMA_CLOUD_API_KEY)")
		}
		outputDir := extractOutput
		if outputDir == "" {
			outputDir = config.Cfg.Parse.OutputDir
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		result, err := client.ParseJSON(ctx, extractFile)
		if err != nil {
			return err
		}
		fmt.Printf("parsed %s: %d pages\n", extractFile, len(result.Pages))

		refs, err := client.ExtractImages(ctx, result, outputDir)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Println("no images found")
			return nil
		}

		alts, err := vision.AltTexts(ctx, refs)
		for i, ref := range refs {
			alt := ""
			if i < len(alts) {
				alt = alts[i]
			}
			fmt.Printf("%s (page %d)\n  %s\n", ref.Name, ref.Page, alt)
		}
		if err != nil {
			return fmt.Errorf("some alt texts failed: %w", err)
		}

		if extractIndex {
			return indexParsed(ctx, result, refs, alts, extractFile)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "PDF to parse")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "directory for extracted images")
	extractCmd.Flags().BoolVar(&extractIndex, "index", false, "also embed and index page text and alt texts")
	rootCmd.AddCommand(extractCmd)
}

func indexParsed(ctx context.Context, result *parse.Result, refs []parse.ImageRef, alts []string, path string) error {
	docs := document.FromPages(result.Pages, path)
	docs = append(docs, document.FromImageAltText(refs, alts, path)...)

	chunks := ingestsvc.BuildChunks(docs, config.Cfg.Ingest.ChunkTokens, config.Cfg.Ingest.ChunkOverlap)
	if len(chunks) == 0 {
		return fmt.Errorf("no indexable content")
	}
	docID := deriveDocID(path)
	inputs := make([]string, 0, len(chunks))
	rows := make([]coreingest.VectorRow, 0, len(chunks))
	for _, ch := range chunks {
		inputs = append(inputs, ch.Content)
		rows = append(rows, coreingest.VectorRow{
			DocID:      docID,
			ChunkIndex: ch.ChunkIndex,
			PageIndex:  ch.PageIndex,
			Content:    ch.Content,
		})
	}
	vectors, err := llm.Embed(ctx, inputs)
	if err != nil {
		return err
	}
	if _, _, err := coreingest.UpsertVectors(ctx, vectors, rows); err != nil {
		return err
	}
	fmt.Printf("indexed %d chunks (doc_id=%d)\n", len(chunks), docID)
	return nil
}
