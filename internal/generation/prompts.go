package generation

import (
	"bytes"
	"fmt"
	"text/template"
)

const cardsSystemPrompt = `You are an expert educational assistant who writes high-quality study flashcards.
Follow these rules:
1. Keep questions short and clear; make answers accurate and complete.
2. Return strictly the JSON requested, with no other text.
3. Questions and answers may use Markdown: fenced code blocks with a language, tables, lists, bold, italics, links and quotes.
4. Use code blocks for code samples, bold for key concepts, tables for terminology and ordered lists for steps.`

const exploreSystemPrompt = `You are an expert educational assistant. Answer concisely and clearly.`

var (
	topicPrompt = template.Must(template.New("topic").Parse(
		`Create {{.Count}} flashcards about "{{.Topic}}" at {{.Difficulty}} difficulty.
Use Markdown and return valid JSON in exactly this shape:
[
  {
    "question": "question in Markdown",
    "answer": "answer in Markdown"
  }
]`))

	contentPrompt = template.Must(template.New("content").Parse(
		`Break the following content into {{.Count}} flashcards.

Content: {{.Content}}

Use Markdown and return valid JSON in exactly this shape:
[
  {
    "question": "question in Markdown",
    "answer": "answer in Markdown"
  }
]`))

	explorePrompt = template.Must(template.New("explore").Parse(
		`Acting as a subject expert, suggest 8 to 12 study topics related to the keyword "{{.}}".
The topics should:
1. be closely related to the keyword
2. cover different dimensions of the subject
3. be worth studying
4. range in difficulty from basic to advanced
5. each be a short phrase

Return only the list, one topic per line, with no numbering or extra text.`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s prompt template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
