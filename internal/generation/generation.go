// Package generation asks a completion service for flashcards and related
// study topics and decodes its answers.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Completer sends one prompt to a language model and returns its text.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, systemPrompt, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return f(ctx, systemPrompt, prompt)
}

// Mode selects what the cards are generated from.
type Mode string

const (
	ModeTopic   Mode = "topic"
	ModeContent Mode = "content"
)

const (
	DefaultCount      = 5
	MaxCount          = 50
	DefaultDifficulty = "intermediate"
)

// Request describes a batch of cards to generate.
type Request struct {
	Mode       Mode   `json:"mode"`
	Topic      string `json:"topic"`
	Content    string `json:"content"`
	Count      int    `json:"card_count"`
	Difficulty string `json:"difficulty"`
}

// Card is a generated question and answer.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Service generates cards through a Completer.
type Service struct {
	completer Completer
	log       *slog.Logger
}

// NewService returns a Service. A nil completer makes every call fail with
// ErrNotConfigured.
func NewService(completer Completer, log *slog.Logger) *Service {
	return &Service{
		completer: completer,
		log:       log.With("component", "generation"),
	}
}

// Enabled reports whether a completer is configured.
func (s *Service) Enabled() bool {
	return s.completer != nil
}

func (r Request) normalized() (Request, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	r.Content = strings.TrimSpace(r.Content)
	r.Difficulty = strings.TrimSpace(r.Difficulty)
	if r.Mode == "" {
		r.Mode = ModeTopic
	}
	if r.Count == 0 {
		r.Count = DefaultCount
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}

	switch r.Mode {
	case ModeTopic:
		if r.Topic == "" {
			return r, invalidRequest("topic", "is required")
		}
	case ModeContent:
		if r.Content == "" {
			return r, invalidRequest("content", "is required")
		}
	default:
		return r, invalidRequest("mode", "must be one of [topic content]")
	}
	if r.Count < 1 || r.Count > MaxCount {
		return r, invalidRequest("card_count", fmt.Sprintf("must be between 1 and %d", MaxCount))
	}
	return r, nil
}

// GenerateCards asks for req.Count cards. Returned cards always have a
// non-empty question and answer; the model may return fewer than asked.
func (s *Service) GenerateCards(ctx context.Context, req Request) ([]Card, error) {
	if s.completer == nil {
		return nil, ErrNotConfigured
	}
	req, err := req.normalized()
	if err != nil {
		return nil, err
	}

	tmpl := topicPrompt
	if req.Mode == ModeContent {
		tmpl = contentPrompt
	}
	prompt, err := render(tmpl, req)
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "generating cards", "mode", req.Mode, "count", req.Count)
	text, err := s.completer.Complete(ctx, cardsSystemPrompt, prompt)
	if err != nil {
		return nil, completionFailed(err)
	}

	cards, err := parseCards(text)
	if err != nil {
		s.log.WarnContext(ctx, "unusable completion", "error", err, "length", len(text))
		return nil, err
	}
	s.log.InfoContext(ctx, "cards generated", "requested", req.Count, "returned", len(cards))
	return cards, nil
}

// ExploreTopics asks for study topics related to keyword.
func (s *Service) ExploreTopics(ctx context.Context, keyword string) ([]string, error) {
	if s.completer == nil {
		return nil, ErrNotConfigured
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, invalidRequest("keyword", "is required")
	}

	prompt, err := render(explorePrompt, keyword)
	if err != nil {
		return nil, err
	}
	text, err := s.completer.Complete(ctx, exploreSystemPrompt, prompt)
	if err != nil {
		return nil, completionFailed(err)
	}

	topics := parseTopics(text)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: no topics returned", ErrInvalidResponse)
	}
	return topics, nil
}

// completionFailed tags completer errors that carry no generation sentinel.
func completionFailed(err error) error {
	if errors.Is(err, ErrContentBlocked) || errors.Is(err, ErrInvalidResponse) || errors.Is(err, ErrNotConfigured) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrCompletionFailed, err)
}

func parseCards(text string) ([]Card, error) {
	body := stripFences(text)
	if start, end := strings.Index(body, "["), strings.LastIndex(body, "]"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var raw []Card
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
	}

	cards := make([]Card, 0, len(raw))
	for _, c := range raw {
		c.Question = strings.TrimSpace(c.Question)
		c.Answer = strings.TrimSpace(c.Answer)
		if c.Question == "" || c.Answer == "" {
			continue
		}
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", ErrInvalidResponse)
	}
	return cards, nil
}

// stripFences removes a surrounding Markdown code fence such as ```json.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	return strings.TrimSpace(strings.TrimSuffix(text, "```"))
}

func parseTopics(text string) []string {
	var topics []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		topic := trimListMarker(strings.TrimSpace(line))
		if topic == "" || seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
	}
	return topics
}

// trimListMarker drops a leading "-", "*", "•" or "1." / "1)" marker.
func trimListMarker(s string) string {
	s = strings.TrimLeft(s, "-*• \t")
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		s = s[digits+1:]
	}
	return strings.TrimSpace(s)
}
