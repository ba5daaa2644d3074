// ABOUTME: CLI command to build or update the product index
// ABOUTME: Ingests uploads, chunks text, embeds, and persists the index
package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/artisan-market/assistant/internal/chunker"
	"github.com/artisan-market/assistant/internal/ingest"
	"github.com/artisan-market/assistant/internal/models"
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Build or update the product index",
		Long: `Build or update the product index from catalog files.

Reads every CSV and PDF in the uploads directory (or the given
directory), splits the text into overlapping chunks, embeds them, and
replaces the persisted index wholesale. Malformed files are skipped and
reported; the rest are indexed.

Examples:
  assistant index
  assistant index ./catalogs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIndex,
	}

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dir := cfg.UploadsDir
	if len(args) == 1 {
		dir = args[0]
	}

	units, skipped, err := ingest.LoadDir(dir)
	if err != nil {
		return err
	}
	reportSkipped(cmd, skipped)
	if len(units) == 0 {
		return fmt.Errorf("no catalog data found in %s (expected CSV or PDF files)", dir)
	}

	texts := make([]string, len(units))
	metas := make([]models.ChunkMeta, len(units))
	for i, u := range units {
		texts[i] = u.Text
		metas[i] = u.Meta()
	}

	chunks, chunkMetas, err := chunker.ChunkTexts(texts, metas, cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return fmt.Errorf("chunking catalog text: %w", err)
	}
	if verbose {
		log.Printf("Chunked %d catalog entries into %d chunks", len(units), len(chunks))
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg, client)
	if err != nil {
		return err
	}

	if err := store.BuildOrUpdate(cmd.Context(), chunks, chunkMetas); err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %d catalog entries into %s\n",
			len(chunks), len(units), cfg.IndexDir)
		if len(skipped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d file(s), see warnings above\n", len(skipped))
		}
	}
	return nil
}

// reportSkipped warns about files the ingester could not read. Warnings
// honor --quiet like the rest of the command's output.
func reportSkipped(cmd *cobra.Command, skipped []string) {
	if quiet {
		return
	}
	for _, s := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %s\n", s)
	}
}
