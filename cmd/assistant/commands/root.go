// ABOUTME: Root CLI command wiring global flags and subcommands
// ABOUTME: Shared pipeline construction for config, store, and OpenAI client
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/artisan-market/assistant/internal/config"
	"github.com/artisan-market/assistant/internal/llm"
	"github.com/artisan-market/assistant/internal/vectorstore"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assistant",
		Short: "Grounded question answering over a product catalog",
		Long: `Marketplace catalog assistant.

Ingests product catalogs (CSV) and documents (PDF), chunks and embeds
them into a persisted similarity index, and answers customer questions
grounded in the retrieved catalog context.

Typical flow:
  assistant index          # build the index from data/uploads
  assistant ask "does the ceramic mug come in blue?"`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	cmd.AddCommand(
		NewIndexCmd(),
		NewAskCmd(),
		NewStatusCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// loadConfig loads .env (if present) and the process configuration.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newClient builds the OpenAI client from configuration.
func newClient(cfg *config.Config) (*llm.Client, error) {
	client, err := llm.NewClient(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}
	return client, nil
}

// openStore opens the vector store over the configured index directory,
// loading a previously persisted index when one exists.
func openStore(cfg *config.Config, embedder vectorstore.Embedder) (*vectorstore.Store, error) {
	store, err := vectorstore.New(cfg.IndexDir, cfg.EmbeddingModel, embedder)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	return store, nil
}
