// ABOUTME: CLI command to report the state of the persisted index
// ABOUTME: Shows chunk count, dimension, embedding model, and build info
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show product index status",
		Long:  `Display whether a product index exists, how many chunks it holds, and when it was built.`,
		RunE:  runStatus,
	}

	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Status never embeds, so no OpenAI client is needed.
	store, err := openStore(cfg, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stats := store.Stats()
	if !stats.Ready {
		fmt.Fprintf(out, "No index found in %s. Run 'assistant index' to build one.\n", cfg.IndexDir)
		return nil
	}

	fmt.Fprintf(out, "Index directory: %s\n", cfg.IndexDir)
	fmt.Fprintf(out, "Chunks:          %d\n", stats.Count)
	fmt.Fprintf(out, "Dimension:       %d\n", stats.Dimension)
	fmt.Fprintf(out, "Embedding model: %s\n", stats.Model)
	fmt.Fprintf(out, "Build ID:        %s\n", stats.BuildID)
	fmt.Fprintf(out, "Built at:        %s\n", stats.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
