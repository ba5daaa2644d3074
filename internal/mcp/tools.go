// ABOUTME: MCP tool definitions and registration for the assistant server
// ABOUTME: Exposes index building, catalog questions, and index status
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/artisan-market/assistant/internal/config"
	"github.com/artisan-market/assistant/internal/llm"
	"github.com/artisan-market/assistant/internal/vectorstore"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, cfg *config.Config, store *vectorstore.Store, generator llm.Generator) *Handlers {
	handlers := &Handlers{
		cfg:       cfg,
		store:     store,
		generator: generator,
	}

	// 1. build_index - Ingest the uploads directory and rebuild the product index
	server.AddTool(mcp.Tool{
		Name:        "build_index",
		Description: "Ingest catalog CSV and PDF files from the uploads directory and rebuild the product index. Replaces any existing index.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"dir": map[string]interface{}{
					"type":        "string",
					"description": "Optional uploads directory override",
				},
			},
		},
	}, handlers.BuildIndex)

	// 2. ask_catalog - Answer a question grounded in the product index
	server.AddTool(mcp.Tool{
		Name:        "ask_catalog",
		Description: "Answer a customer question using the product index. Returns the grounded answer followed by source citations.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Customer question about the catalog",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to retrieve (default from config)",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskCatalog)

	// 3. index_status - Report whether the index exists and its shape
	server.AddTool(mcp.Tool{
		Name:        "index_status",
		Description: "Report whether the product index exists, how many chunks it holds, and when it was built.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IndexStatus)

	return handlers
}
