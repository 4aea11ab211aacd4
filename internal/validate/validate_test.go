package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashmark/internal/domain"
)

type inner struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
}

type sample struct {
	Name  string  `json:"name" validate:"required"`
	Level string  `json:"level" validate:"oneof=debug info"`
	Count int     `json:"count" validate:"gte=1,lte=10"`
	Inner inner   `koanf:"inner"`
	Ratio float32 `validate:"gt=0"`
}

func TestStruct(t *testing.T) {
	valid := sample{Name: "n", Level: "info", Count: 3, Inner: inner{Addr: "127.0.0.1:8080"}, Ratio: 1}

	tests := []struct {
		name    string
		mutate  func(s *sample)
		field   string
		message string
	}{
		{name: "missing name", mutate: func(s *sample) { s.Name = "" }, field: "name", message: "is required"},
		{name: "bad level", mutate: func(s *sample) { s.Level = "trace" }, field: "level", message: "must be one of [debug info]"},
		{name: "count too low", mutate: func(s *sample) { s.Count = 0 }, field: "count", message: "must be at least 1"},
		{name: "count too high", mutate: func(s *sample) { s.Count = 11 }, field: "count", message: "must be at most 10"},
		{name: "nested addr", mutate: func(s *sample) { s.Inner.Addr = "nope" }, field: "inner.addr", message: "must be a host:port address"},
		{name: "untagged field", mutate: func(s *sample) { s.Ratio = 0 }, field: "Ratio", message: "must be greater than 0"},
	}

	require.NoError(t, Struct(valid))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := Struct(s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}
