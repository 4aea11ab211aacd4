// Package parser turns card decks into import candidates.
//
// A Markdown deck is a sequence of blocks introduced by line prefixes:
//
//	T: topic (optional, defaults to the deck's topic)
//	Q: question, may continue over several lines
//	A: answer, may continue over several lines
//
// A new Q: line or a "---" line ends the current card.
package parser

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashmark/internal/domain"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	topicPrefix    = "T:"
	separator      = "---"
)

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingTopic
)

// ParseFile reads the deck at path. Cards without a T: line take their topic
// from the file name.
func ParseFile(path string) ([]domain.Candidate, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file, TopicFromPath(path))
}

// TopicFromPath derives a topic label from a file name: "go-channels.md"
// becomes "go channels".
func TopicFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// Parse extracts every card from r. A card with a question but no answer is
// still returned so the importer can count it as skipped.
func Parse(r io.Reader, defaultTopic string) ([]domain.Candidate, error) {
	p := &deckParser{defaultTopic: defaultTopic}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	p.finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.cards, nil
}

type deckParser struct {
	defaultTopic string
	cards        []domain.Candidate
	current      domain.Candidate
	block        []string
	state        state
}

func (p *deckParser) line(line string) {
	if strings.TrimSpace(line) == separator {
		p.finishCard()
		return
	}

	switch {
	case strings.HasPrefix(line, questionPrefix):
		p.flushBlock()
		if p.current.Question != "" {
			p.finishCard()
		}
		p.start(readingQuestion, line[len(questionPrefix):])
	case strings.HasPrefix(line, answerPrefix):
		p.flushBlock()
		p.start(readingAnswer, line[len(answerPrefix):])
	case strings.HasPrefix(line, topicPrefix):
		p.flushBlock()
		// A topic after an answer opens the next card.
		if p.current.Answer != "" {
			p.finishCard()
		}
		p.start(readingTopic, line[len(topicPrefix):])
	case p.state == readingQuestion || p.state == readingAnswer:
		p.block = append(p.block, line)
	}
}

func (p *deckParser) start(s state, rest string) {
	p.state = s
	p.block = append(p.block[:0], strings.TrimPrefix(rest, " "))
}

func (p *deckParser) flushBlock() {
	if len(p.block) == 0 {
		return
	}
	content := strings.TrimSpace(strings.Join(p.block, "\n"))
	switch p.state {
	case readingQuestion:
		p.current.Question = content
	case readingAnswer:
		p.current.Answer = content
	case readingTopic:
		p.current.Topic = content
	}
	p.block = p.block[:0]
}

func (p *deckParser) finishCard() {
	p.flushBlock()
	if p.current.Question != "" {
		if p.current.Topic == "" {
			p.current.Topic = p.defaultTopic
		}
		p.cards = append(p.cards, p.current)
	}
	p.current = domain.Candidate{}
	p.state = seeking
}
