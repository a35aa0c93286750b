package stages

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/lucidity-ai/lucidity/pkg/llm"
	"github.com/lucidity-ai/lucidity/pkg/types"
)

// extractJSON pulls the first JSON object out of a model response. Models
// routinely wrap their answer in prose or markdown fences, so everything
// before the first "{" and after the matching region is discarded.
func extractJSON(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end <= start {
		return "", false
	}
	candidate := raw[start : end+1]
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}

// completeJSON runs one completion and decodes the response strictly into
// T. Any response that does not decode is a malformed-output error; an
// untyped object never leaves this boundary.
func completeJSON[T any](ctx context.Context, client llm.Client, req llm.CompletionRequest) (*T, error) {
	raw, err := client.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	candidate, ok := extractJSON(raw)
	if !ok {
		return nil, llm.ErrMalformedOutput
	}

	var out T
	if err := json.Unmarshal([]byte(candidate), &out); err != nil {
		return nil, llm.ErrMalformedOutput
	}
	return &out, nil
}

// sourceText returns the text downstream stages should analyze: the
// normalized sections when the structuring stage produced them, otherwise
// the original document.
func sourceText(snap *types.AuditState) string {
	sc := snap.StructuredContent
	if sc == nil || len(sc.Sections) == 0 {
		return snap.OriginalContent
	}

	var b strings.Builder
	for i, section := range sc.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if section.Heading != "" {
			b.WriteString(section.Heading)
			b.WriteString("\n")
		}
		b.WriteString(section.Text)
	}
	return b.String()
}
