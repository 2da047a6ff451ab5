package pipeline

import (
	"context"
	"strings"

	"github.com/studylens/studylens/internal/core"
	"github.com/studylens/studylens/internal/models"
)

const (
	summaryPrompt = "Please summarize the following text. Keep the summary concise and focused on the main points:\n\n"

	flashcardsPrompt = "Generate flashcards from the following text. Each flashcard should have a question on one line and the answer on the next. Separate flashcards with a blank line. Example: \"Q: What is A?\nA: B.\"\n\n"

	keyPointsPrompt = "Extract 5 to 6 key points from the following text. Present them as a bulleted list. Each point should be concise. Do not include anything else other than the bulleted list.\n\n"
)

// Dispatcher maps a generation type to its prompt template and calls the
// generative backend. It performs no retries; retry policy belongs to the
// backend's own contract.
type Dispatcher struct {
	llm core.LLMProvider
}

func NewDispatcher(llm core.LLMProvider) *Dispatcher {
	return &Dispatcher{llm: llm}
}

func (d *Dispatcher) Generate(ctx context.Context, text string, t models.GenerationType) (string, error) {
	prompt, err := buildPrompt(text, t)
	if err != nil {
		return "", err
	}

	out, err := d.llm.Generate(ctx, "", prompt)
	if err != nil {
		return "", Errf(KindGeneration, err, "failed to generate content with AI")
	}
	if strings.TrimSpace(out) == "" {
		return "", Errf(KindGeneration, nil, "AI backend returned no content")
	}
	return out, nil
}

// buildPrompt selects the template for t. An unrecognized type here is a
// contract violation: the orchestrator rejects it before dispatch.
func buildPrompt(text string, t models.GenerationType) (string, error) {
	switch t {
	case models.TypeSummary:
		return summaryPrompt + text, nil
	case models.TypeFlashcards:
		return flashcardsPrompt + text, nil
	case models.TypeKeyPoints:
		return keyPointsPrompt + text, nil
	default:
		return "", Errf(KindInternal, nil, "unhandled generation type %q", t)
	}
}
