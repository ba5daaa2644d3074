// ABOUTME: MCP tool handler implementations for the assistant server
// ABOUTME: Runs the ingest-chunk-index and retrieve-generate pipelines
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/artisan-market/assistant/internal/chunker"
	"github.com/artisan-market/assistant/internal/config"
	"github.com/artisan-market/assistant/internal/ingest"
	"github.com/artisan-market/assistant/internal/llm"
	"github.com/artisan-market/assistant/internal/models"
	"github.com/artisan-market/assistant/internal/rag"
	"github.com/artisan-market/assistant/internal/vectorstore"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	cfg       *config.Config
	store     *vectorstore.Store
	generator llm.Generator
}

// BuildIndex handles the build_index tool
func (h *Handlers) BuildIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := request.GetString("dir", h.cfg.UploadsDir)

	units, skipped, err := ingest.LoadDir(dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}
	if len(units) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no catalog data found in %s", dir)), nil
	}

	texts := make([]string, len(units))
	metas := make([]models.ChunkMeta, len(units))
	for i, u := range units {
		texts[i] = u.Text
		metas[i] = u.Meta()
	}

	chunks, chunkMetas, err := chunker.ChunkTexts(texts, metas, h.cfg.ChunkSize, h.cfg.ChunkOverlap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chunking failed: %v", err)), nil
	}

	if err := h.store.BuildOrUpdate(ctx, chunks, chunkMetas); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("index build failed: %v", err)), nil
	}

	msg := fmt.Sprintf("Indexed %d chunks from %d catalog entries.", len(chunks), len(units))
	if len(skipped) > 0 {
		msg += fmt.Sprintf(" Skipped %d file(s): %s", len(skipped), strings.Join(skipped, "; "))
	}
	return mcp.NewToolResultText(msg), nil
}

// AskCatalog handles the ask_catalog tool
func (h *Handlers) AskCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", h.cfg.TopK)
	if topK <= 0 {
		return mcp.NewToolResultError("top_k must be positive"), nil
	}

	results, err := h.store.Search(ctx, question, topK)
	if err != nil {
		if errors.Is(err, vectorstore.ErrIndexNotFound) {
			return mcp.NewToolResultError("no product index found: run build_index first"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	systemPrompt, userPrompt := rag.BuildPrompt(question, results, h.cfg.SystemPrompt, rag.DefaultRecommendTopK)

	var answer strings.Builder
	streamErr := h.generator.StreamChat(ctx, systemPrompt, userPrompt, func(delta string) {
		answer.WriteString(delta)
	})
	if streamErr != nil && answer.Len() == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", streamErr)), nil
	}

	var out strings.Builder
	out.WriteString(answer.String())
	if streamErr != nil {
		// Fragments already produced stay valid; report the cut-off.
		out.WriteString(fmt.Sprintf("\n\n(answer truncated: %v)", streamErr))
	}
	if len(results) > 0 {
		out.WriteString("\n\nSources:\n")
		out.WriteString(rag.FormatSources(results))
	}
	return mcp.NewToolResultText(out.String()), nil
}

// IndexStatus handles the index_status tool
func (h *Handlers) IndexStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := h.store.Stats()

	payload := map[string]interface{}{
		"ready":     stats.Ready,
		"count":     stats.Count,
		"dimension": stats.Dimension,
		"model":     stats.Model,
	}
	if stats.Ready {
		payload["build_id"] = stats.BuildID
		payload["built_at"] = stats.BuiltAt
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
