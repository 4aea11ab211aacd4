package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/conorfennell/flashmark/internal/domain"
)

// ParseCSV reads topic,question,answer rows. When hasHeader is set the first
// record is dropped. Rows with fewer than three fields become candidates with
// empty fields, which the importer skips. Blank lines are ignored.
func ParseCSV(r io.Reader, hasHeader bool) ([]domain.Candidate, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var cards []domain.Candidate
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewValidationError("csv", fmt.Sprintf("is malformed: %v", err))
		}
		if first && hasHeader {
			continue
		}
		cards = append(cards, candidateFromRecord(record))
	}
	return cards, nil
}

func candidateFromRecord(record []string) domain.Candidate {
	if len(record) < 3 {
		return domain.Candidate{}
	}
	return domain.Candidate{
		Topic:    record[0],
		Question: record[1],
		Answer:   record[2],
	}
}
