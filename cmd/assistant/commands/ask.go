// ABOUTME: CLI command to answer a catalog question with retrieval grounding
// ABOUTME: Streams the generated answer and prints ranked source citations
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artisan-market/assistant/internal/rag"
	"github.com/artisan-market/assistant/internal/vectorstore"
)

var askTopK int

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the indexed catalog",
		Long: `Ask a question about the indexed catalog.

Retrieves the most similar chunks from the product index, builds a
grounded prompt, and streams the model's answer followed by the sources
it was grounded on.

Examples:
  assistant ask "what colors do the shoes come in?"
  assistant ask --top-k 8 "which items are handmade?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().IntVar(&askTopK, "top-k", 0, "Number of chunks to retrieve (default from config)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	topK := cfg.TopK
	if askTopK > 0 {
		topK = askTopK
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cfg, client)
	if err != nil {
		return err
	}

	question := args[0]
	results, err := store.Search(cmd.Context(), question, topK)
	if err != nil {
		if errors.Is(err, vectorstore.ErrIndexNotFound) {
			return fmt.Errorf("no product index found in %s: run 'assistant index' first", cfg.IndexDir)
		}
		return fmt.Errorf("searching index: %w", err)
	}

	systemPrompt, userPrompt := rag.BuildPrompt(question, results, cfg.SystemPrompt, rag.DefaultRecommendTopK)

	out := cmd.OutOrStdout()
	delivered := false
	streamErr := client.StreamChat(cmd.Context(), systemPrompt, userPrompt, func(delta string) {
		delivered = true
		fmt.Fprint(out, delta)
	})
	if delivered {
		fmt.Fprintln(out)
	}
	if streamErr != nil {
		if !delivered {
			return fmt.Errorf("generating answer: %w", streamErr)
		}
		// Keep what was streamed; just tell the user it was cut short.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: answer truncated: %v\n", streamErr)
	}

	if len(results) > 0 {
		fmt.Fprintf(out, "\nSources:\n%s\n", rag.FormatSources(results))
	} else if !quiet {
		fmt.Fprintln(out, "\nNo matching products found.")
	}
	return nil
}
