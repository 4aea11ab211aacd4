package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashmark/internal/domain"
	mock_service "github.com/conorfennell/flashmark/internal/service/mock"
)

func newImporterMock(ctrl *gomock.Controller, setupMock func(*mock_service.MockCardStore)) *Importer {
	return NewImporter(newCardsMock(ctrl, setupMock), discardLogger())
}

func TestImporter_Import(t *testing.T) {
	t.Parallel()

	ok := func(m *mock_service.MockCardStore, topic, q, a string) *gomock.Call {
		return m.EXPECT().Insert(gomock.Any(), topic, q, a).Return(domain.MarkedCard{Topic: topic, Question: q, Answer: a}, nil)
	}

	tests := []struct {
		name      string
		batch     []domain.Candidate
		f         func(*mock_service.MockCardStore)
		want      ImportResult
		wantErrIs error
	}{
		{
			name: "all valid",
			batch: []domain.Candidate{
				{Topic: "t", Question: "q1", Answer: "a1"},
				{Topic: "t", Question: "q2", Answer: "a2"},
			},
			f: func(m *mock_service.MockCardStore) {
				gomock.InOrder(ok(m, "t", "q1", "a1"), ok(m, "t", "q2", "a2"))
			},
			want: ImportResult{Received: 2, Imported: 2},
		},
		{
			name: "invalid rows skipped",
			batch: []domain.Candidate{
				{Topic: "t", Question: "q1", Answer: "a1"},
				{Topic: "", Question: "q2", Answer: "a2"},
				{Topic: "t", Question: "  ", Answer: "a3"},
				{Topic: "t", Question: "q4", Answer: ""},
				{Topic: " t ", Question: " q5 ", Answer: " a5 "},
			},
			f: func(m *mock_service.MockCardStore) {
				gomock.InOrder(ok(m, "t", "q1", "a1"), ok(m, "t", "q5", "a5"))
			},
			want: ImportResult{Received: 5, Imported: 2, Skipped: 3},
		},
		{
			name:  "all invalid imports nothing",
			batch: []domain.Candidate{{}, {Topic: "t"}},
			want:  ImportResult{Received: 2, Skipped: 2},
		},
		{
			name:      "empty batch",
			batch:     nil,
			wantErrIs: domain.ErrValidation,
		},
		{
			name: "storage failure aborts remaining rows",
			batch: []domain.Candidate{
				{Topic: "t", Question: "q1", Answer: "a1"},
				{Topic: "t", Question: "q2", Answer: "a2"},
				{Topic: "t", Question: "q3", Answer: "a3"},
			},
			f: func(m *mock_service.MockCardStore) {
				gomock.InOrder(
					ok(m, "t", "q1", "a1"),
					m.EXPECT().Insert(gomock.Any(), "t", "q2", "a2").
						Return(domain.MarkedCard{}, domain.NewStorageError("insert", errors.New("disk full"))),
				)
			},
			want:      ImportResult{Received: 3, Imported: 1},
			wantErrIs: domain.ErrStorage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			imp := newImporterMock(ctrl, tt.f)

			got, err := imp.Import(context.Background(), tt.batch)
			if tt.wantErrIs != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErrIs))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportResult_Add(t *testing.T) {
	r := ImportResult{Received: 2, Imported: 1, Skipped: 1}
	r.Add(ImportResult{Received: 3, Imported: 3})
	assert.Equal(t, ImportResult{Received: 5, Imported: 4, Skipped: 1}, r)
}

func TestDecodeBatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		want    []domain.Candidate
		wantErr bool
	}{
		{
			name: "valid cards",
			body: `{"cards":[{"topic":"t","question":"q","answer":"a"}]}`,
			want: []domain.Candidate{{Topic: "t", Question: "q", Answer: "a"}},
		},
		{
			name: "non-object items decode empty",
			body: `{"cards":[42,"x",null,{"topic":"t","question":"q","answer":"a"}]}`,
			want: []domain.Candidate{{}, {}, {}, {Topic: "t", Question: "q", Answer: "a"}},
		},
		{
			name: "non-string fields decode empty",
			body: `{"cards":[{"topic":1,"question":true,"answer":"a"}]}`,
			want: []domain.Candidate{{Answer: "a"}},
		},
		{
			name: "extra fields ignored",
			body: `{"cards":[{"topic":"t","question":"q","answer":"a","id":5}],"extra":1}`,
			want: []domain.Candidate{{Topic: "t", Question: "q", Answer: "a"}},
		},
		{name: "missing cards", body: `{}`, wantErr: true},
		{name: "empty cards", body: `{"cards":[]}`, wantErr: true},
		{name: "cards not a list", body: `{"cards":{"topic":"t"}}`, wantErr: true},
		{name: "body not an object", body: `[1,2]`, wantErr: true},
		{name: "malformed json", body: `{"cards":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeBatch(strings.NewReader(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
