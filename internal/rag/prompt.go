// ABOUTME: Pure prompt construction from ranked retrieval results
// ABOUTME: Builds the grounded (system, user) prompt pair and source citations
package rag

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/artisan-market/assistant/internal/models"
)

// DefaultRecommendTopK is how many leading results are treated as direct
// context; anything beyond it is offered as a "you may also suggest" list.
const DefaultRecommendTopK = 3

// BuildPrompt turns a question and ranked retrieval results into a
// (system, user) prompt pair. The user prompt instructs the model to answer
// from the given context only. Deterministic; performs no I/O.
func BuildPrompt(question string, results []models.SearchResult, systemPrompt string, recommendTopK int) (string, string) {
	entries := make([]string, len(results))
	for i, r := range results {
		entries[i] = fmt.Sprintf("[%d] Product: %s\nDescription: %s", i+1, productName(r), r.Text)
	}
	context := strings.Join(entries, "\n\n")

	var recommendations string
	if len(results) > recommendTopK {
		names := make([]string, 0, len(results)-recommendTopK)
		for _, r := range results[recommendTopK:] {
			names = append(names, productName(r))
		}
		recommendations = fmt.Sprintf("\n\nYou may also suggest similar products: %s", strings.Join(names, ", "))
	}

	userPrompt := fmt.Sprintf(
		"Answer the customer question using ONLY the context below:\n\n%s%s\n\nQuestion: %s",
		context, recommendations, question,
	)

	return systemPrompt, userPrompt
}

// FormatSources renders ranked results as one citation line each, for
// display under the generated answer.
func FormatSources(results []models.SearchResult) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("[%d] File: %s, Product: %s, Score: %.3f",
			i+1, filepath.Base(r.Source), productName(r), r.Score)
	}
	return strings.Join(lines, "\n")
}

func productName(r models.SearchResult) string {
	if r.ProductName == "" {
		return "N/A"
	}
	return r.ProductName
}
