package parser

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/conorfennell/flashmark/internal/domain"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []domain.Candidate
	}{
		{
			name:     "Simple Q&A",
			input:    "Q: What is the capital of France?\nA: Paris",
			expected: []domain.Candidate{{Topic: "deck", Question: "What is the capital of France?", Answer: "Paris"}},
		},
		{
			name:     "Topic line overrides default",
			input:    "T: arithmetic\nQ: What is 1+1?\nA: 2",
			expected: []domain.Candidate{{Topic: "arithmetic", Question: "What is 1+1?", Answer: "2"}},
		},
		{
			name: "Multiline Answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expected: []domain.Candidate{{Topic: "deck", Question: "What are the primary colors?", Answer: "Red\nBlue\nYellow"}},
		},
		{
			name: "Two Cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expected: []domain.Candidate{
				{Topic: "deck", Question: "First question", Answer: "First answer"},
				{Topic: "deck", Question: "Second question", Answer: "Second answer"},
			},
		},
		{
			name: "Topic after answer starts next card",
			input: `
T: go
Q: What is a goroutine?
A: A lightweight thread.
T: sql
Q: What is a join?
A: A combination of rows.
`,
			expected: []domain.Candidate{
				{Topic: "go", Question: "What is a goroutine?", Answer: "A lightweight thread."},
				{Topic: "sql", Question: "What is a join?", Answer: "A combination of rows."},
			},
		},
		{
			name:  "Separator ends card",
			input: "Q: one\nA: first\n---\nthis line is ignored\nQ: two\nA: second",
			expected: []domain.Candidate{
				{Topic: "deck", Question: "one", Answer: "first"},
				{Topic: "deck", Question: "two", Answer: "second"},
			},
		},
		{
			name:     "Question without answer is kept",
			input:    "Q: Dangling question",
			expected: []domain.Candidate{{Topic: "deck", Question: "Dangling question"}},
		},
		{
			name:     "No cards, just text",
			input:    "This is a file with no questions.",
			expected: nil,
		},
		{
			name:     "Prefixes with no space",
			input:    "Q:Question\nA:Answer",
			expected: []domain.Candidate{{Topic: "deck", Question: "Question", Answer: "Answer"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := Parse(strings.NewReader(tc.input), "deck")
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}
			if !reflect.DeepEqual(cards, tc.expected) {
				t.Fatalf("Expected %#v, but got %#v", tc.expected, cards)
			}
		})
	}
}

func TestTopicFromPath(t *testing.T) {
	testCases := map[string]string{
		"decks/go-channels.md":  "go channels",
		"/tmp/SQL_basics.csv":   "SQL basics",
		"plain":                 "plain",
		"nested/dir/a--b__c.md": "a b c",
	}
	for path, want := range testCases {
		if got := TopicFromPath(path); got != want {
			t.Errorf("TopicFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rust-ownership.md")
	content := "Q: Who owns a value?\nA: Exactly one variable.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cards, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, but got %d", len(cards))
	}
	if cards[0].Topic != "rust ownership" {
		t.Errorf("Expected topic from file name, got %q", cards[0].Topic)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
