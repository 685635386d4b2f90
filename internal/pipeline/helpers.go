package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mohammad-safakhou/veritas/models"
	"github.com/mohammad-safakhou/veritas/provider"
)

// stageBase carries what every generation-backed stage needs.
type stageBase struct {
	llm    provider.Provider
	model  string
	logger *log.Logger
}

func newStageBase(llm provider.Provider, model, prefix string) stageBase {
	return stageBase{
		llm:    llm,
		model:  model,
		logger: log.New(log.Writer(), prefix, log.LstdFlags),
	}
}

func (b stageBase) generate(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	var messages []provider.Message
	if system != "" {
		messages = append(messages, provider.Message{Role: "system", Content: system})
	}
	messages = append(messages, provider.Message{Role: "user", Content: user})
	out, err := b.llm.Generate(ctx, messages, provider.Options{
		Model:       b.model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// parseList extracts one item per non-empty line, stripping leading
// numbering and bullets.
func parseList(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimLeft(line, "1234567890. ")
		line = strings.TrimLeft(line, "- ")
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// approxTokens estimates token counts at roughly four characters per token.
func approxTokens(s string) int {
	return len([]rune(s))/4 + 1
}

// formatResearchData renders evidence per question in the order the
// questions were generated, for inclusion in analysis prompts.
func formatResearchData(questions []string, results map[string][]models.Evidence) string {
	var b strings.Builder
	for _, question := range questions {
		evidence, ok := results[question]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## Research Question: %s\n\n", question)
		for i, ev := range evidence {
			fmt.Fprintf(&b, "**Result %d (%s):**\n- Title: %s\n- URL: %s\n", i+1, ev.Source, ev.Title, ev.URL)
			if ev.Snippet != "" {
				fmt.Fprintf(&b, "- Snippet: %s\n", ev.Snippet)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
