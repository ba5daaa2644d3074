// ABOUTME: Tests for MCP tool handlers over an in-process pipeline
// ABOUTME: Uses fake embedder and generator, no network calls
package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/artisan-market/assistant/internal/config"
	"github.com/artisan-market/assistant/internal/vectorstore"
)

type fakeEmbedder struct{}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		var letters, vowels, spaces float32
		for _, r := range text {
			switch r {
			case 'a', 'e', 'i', 'o', 'u':
				vowels++
			case ' ':
				spaces++
			default:
				letters++
			}
		}
		out[i] = []float32{letters, vowels, spaces}
	}
	return out, nil
}

type fakeGenerator struct {
	fragments []string
}

func (g *fakeGenerator) StreamChat(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) error {
	for _, f := range g.fragments {
		onDelta(f)
	}
	return nil
}

func testHandlers(t *testing.T) (*Handlers, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		TopK:         4,
		SystemPrompt: "Be helpful.",
		UploadsDir:   filepath.Join(dir, "uploads"),
		IndexDir:     filepath.Join(dir, "index"),
	}
	store, err := vectorstore.New(cfg.IndexDir, "fake-model", fakeEmbedder{})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	return &Handlers{
		cfg:       cfg,
		store:     store,
		generator: &fakeGenerator{fragments: []string{"The mug ", "is blue."}},
	}, dir
}

func callArgs(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func TestIndexStatus_EmptyStore(t *testing.T) {
	h, _ := testHandlers(t)

	res, err := h.IndexStatus(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatalf("IndexStatus failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), `"ready": false`) {
		t.Errorf("expected ready:false, got %s", resultText(t, res))
	}
}

func TestAskCatalog_WithoutIndex(t *testing.T) {
	h, _ := testHandlers(t)

	res, err := h.AskCatalog(context.Background(), callArgs(map[string]interface{}{
		"question": "is the mug blue?",
	}))
	if err != nil {
		t.Fatalf("AskCatalog failed: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result before any index exists")
	}
	if !strings.Contains(resultText(t, res), "build_index") {
		t.Errorf("error should point at build_index, got %s", resultText(t, res))
	}
}

func TestBuildIndexThenAsk(t *testing.T) {
	h, dir := testHandlers(t)

	uploads := filepath.Join(dir, "uploads")
	if err := os.MkdirAll(uploads, 0o755); err != nil {
		t.Fatalf("creating uploads dir: %v", err)
	}
	csv := "product_name,description\nMug,A blue ceramic mug\nScarf,A red wool scarf\n"
	if err := os.WriteFile(filepath.Join(uploads, "products.csv"), []byte(csv), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}

	buildRes, err := h.BuildIndex(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if buildRes.IsError {
		t.Fatalf("build returned error: %s", resultText(t, buildRes))
	}
	if !strings.Contains(resultText(t, buildRes), "Indexed 2 chunks") {
		t.Errorf("unexpected build summary: %s", resultText(t, buildRes))
	}

	askRes, err := h.AskCatalog(context.Background(), callArgs(map[string]interface{}{
		"question": "is the mug blue?",
		"top_k":    1,
	}))
	if err != nil {
		t.Fatalf("AskCatalog failed: %v", err)
	}
	if askRes.IsError {
		t.Fatalf("ask returned error: %s", resultText(t, askRes))
	}
	text := resultText(t, askRes)
	if !strings.Contains(text, "The mug is blue.") {
		t.Errorf("expected generated answer in output: %s", text)
	}
	if !strings.Contains(text, "Sources:") || !strings.Contains(text, "products.csv") {
		t.Errorf("expected source citations in output: %s", text)
	}
}

func TestAskCatalog_RequiresQuestion(t *testing.T) {
	h, _ := testHandlers(t)

	res, err := h.AskCatalog(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatalf("AskCatalog failed: %v", err)
	}
	if !res.IsError {
		t.Error("expected error result without a question argument")
	}
}
