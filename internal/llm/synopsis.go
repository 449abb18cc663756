package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const synopsisPromptTemplate = `Summarize the following SEC litigation release in 2-3 sentences.
Focus on who is charged, what the alleged misconduct was, and any stated
resolution. Do not speculate beyond the text.

---
%s
---

Respond with the summary only, no preamble.`

const synopsisMaxInput = 12000
const synopsisMinInput = 100

// GenerateSynopsis produces a short summary of a litigation release. Texts
// under 100 characters carry no substance worth summarizing, and provider
// failures are logged rather than surfaced; both cases return "".
func GenerateSynopsis(ctx context.Context, provider Provider, text string) string {
	text = strings.TrimSpace(text)
	if len(text) < synopsisMinInput {
		return ""
	}
	if len(text) > synopsisMaxInput {
		text = text[:synopsisMaxInput]
	}
	prompt := fmt.Sprintf(synopsisPromptTemplate, text)
	summary, err := provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("llm synopsis error: %v", err)
		return ""
	}
	return strings.TrimSpace(summary)
}
